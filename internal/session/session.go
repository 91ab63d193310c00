// Package session holds the signed-in identity and tells observers when it changes.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// Listener receives the new session; nil means signed out.
type Listener func(*store.Session)

// Holder is the single source of truth for "who is signed in".
// It is safe for concurrent use. Listeners run on the goroutine that caused the
// transition and must marshal UI work themselves.
type Holder struct {
	auth store.Authenticator

	mu        sync.Mutex
	current   *store.Session
	listeners map[int]Listener
	nextID    int
}

// NewHolder returns a holder with no session; call Load to restore one.
func NewHolder(auth store.Authenticator) *Holder {
	return &Holder{auth: auth, listeners: map[int]Listener{}}
}

// Load asks the backend for its current session (restoring a persisted one if
// the backend can) and publishes it.
func (h *Holder) Load(ctx context.Context) (*store.Session, error) {
	s, err := h.auth.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	h.set(s)
	return s, nil
}

// Current returns the last known session without contacting the backend.
func (h *Holder) Current() *store.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil
	}
	s := *h.current
	return &s
}

// Subscribe registers fn and returns a function that removes it. Removing twice
// is a no-op.
func (h *Holder) Subscribe(fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// SignIn authenticates and publishes the new session.
func (h *Holder) SignIn(ctx context.Context, email, password string) (*store.Session, error) {
	s, err := h.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	h.set(s)
	return s, nil
}

// SignUp registers and, when the backend opens a session right away, publishes it.
func (h *Holder) SignUp(ctx context.Context, email, password string) (*store.Session, error) {
	s, err := h.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	h.set(s)
	return s, nil
}

// SignOut ends the session. Listeners are told even when the backend reports an
// error, since the local identity is gone either way.
func (h *Holder) SignOut(ctx context.Context) error {
	err := h.auth.SignOut(ctx)
	h.set(nil)
	return err
}

// Invalidate drops the session after the backend stopped honouring it.
func (h *Holder) Invalidate() {
	h.set(nil)
}

// set stores s and notifies listeners when the identity changed.
func (h *Holder) set(s *store.Session) {
	h.mu.Lock()
	prev := h.current
	if s != nil {
		c := *s
		h.current = &c
	} else {
		h.current = nil
	}

	if !changed(prev, s) {
		h.mu.Unlock()
		return
	}

	listeners := make([]Listener, 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	slog.Info(config.MsgSessionChanged,
		config.LogKeyComponent, config.CompSession,
		config.LogKeySignedIn, s != nil)

	for _, fn := range listeners {
		if s == nil {
			fn(nil)
			continue
		}
		c := *s
		fn(&c)
	}
}

func changed(prev, next *store.Session) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	return prev.UserID != next.UserID
}
