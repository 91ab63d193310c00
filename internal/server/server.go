// Package server publishes the birthday feeds (iCalendar and vCard) on localhost
// so calendar and address book clients can subscribe to them.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-birthdays/internal/config"
)

// document is one rendered feed and its HTTP caching metadata.
type document struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as HTTP headers want it
}

// feed is a lock-free slot holding the latest document of one content type.
// Reads happen on every client poll while writes only follow a list refresh.
type feed struct {
	mime  string
	cache atomic.Pointer[document]
}

// FeedServer serves the latest published calendar and contacts.
type FeedServer struct {
	Port string

	calendar feed
	contacts feed
	now      func() time.Time
}

// NewFeedServer creates a server that answers 503 until the first publish.
func NewFeedServer(port string) *FeedServer {
	s := &FeedServer{Port: port, now: time.Now}
	s.calendar.mime = config.MimeTextCalendar
	s.contacts.mime = config.MimeVCard
	return s
}

// Handler routes the feed paths. The root path serves the calendar so older
// subscriptions keep working.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handle(&s.calendar))
	mux.HandleFunc(config.RouteCalendar, s.handle(&s.calendar))
	mux.HandleFunc(config.RouteContacts, s.handle(&s.contacts))
	return mux
}

// Start binds to localhost and blocks until ctx is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	ln, err := net.Listen("tcp", config.LocalhostBindAddr+config.AddrSeparator+s.Port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	return s.Serve(ctx, ln)
}

// Serve answers on ln until ctx is cancelled, then shuts down gracefully.
func (s *FeedServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// PublishCalendar atomically replaces the served iCalendar document.
func (s *FeedServer) PublishCalendar(data []byte) {
	s.publish(&s.calendar, config.RouteCalendar, data)
}

// PublishContacts atomically replaces the served vCard document.
func (s *FeedServer) PublishContacts(data []byte) {
	s.publish(&s.contacts, config.RouteContacts, data)
}

func (s *FeedServer) publish(f *feed, route string, data []byte) {
	hash := sha256.Sum256(data)
	doc := &document{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: s.now().UTC().Format(http.TimeFormat),
	}

	// Readers see either the old or the new document, never a mix.
	f.cache.Store(doc)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, doc.etag)
}

func (s *FeedServer) handle(f *feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		doc := f.cache.Load()
		if doc == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, f.mime)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, doc.etag)
		w.Header().Set(config.HeaderLastModified, doc.lastModified)

		if notModified(r, doc) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err)
			}
		}
	}
}

// notModified applies If-None-Match first and falls back to If-Modified-Since.
func notModified(r *http.Request, doc *document) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == doc.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, doc.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
