package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-birthdays/internal/config"
)

// AddressBook locates a remote vCard collection to import from.
type AddressBook struct {
	URL      string
	User     string
	Password string
}

// VCardFetcher retrieves a remote address book for import.
type VCardFetcher interface {
	Fetch(ctx context.Context, src AddressBook) (io.ReadCloser, error)
}

// HTTPFetcher downloads address books over HTTP(S) with optional basic auth.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher bounded by config.HTTPTimeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch opens the address book. The body is capped at config.MaxHTTPResponseSize.
// Query parameters are never logged since they may carry tokens.
func (f *HTTPFetcher) Fetch(ctx context.Context, src AddressBook) (io.ReadCloser, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBuildRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if src.User != "" || src.Password != "" {
		req.SetBasicAuth(src.User, src.Password)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchBadStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	log.Info(config.MsgFetchStream, slog.Int64(config.LogKeyLength, resp.ContentLength))

	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, config.MaxHTTPResponseSize), resp.Body}, nil
}
