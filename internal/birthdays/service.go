// Package birthdays implements the birthday book use cases on top of a record
// store: listing, adding, editing, importing and exporting birthdays.
package birthdays

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// Sessions exposes the signed-in identity to the service.
type Sessions interface {
	Current() *store.Session

	// Invalidate is called when the store no longer honours the session.
	Invalidate()
}

// RefreshListener receives every freshly loaded list.
type RefreshListener func([]engine.BirthdayEntry)

// Service runs the birthday use cases. It never caches the list: every Refresh
// reads the store again.
type Service struct {
	store    store.RecordStore
	sessions Sessions
	clock    engine.Clock

	mu        sync.Mutex
	listeners []RefreshListener
}

// NewService wires a record store with the session holder.
func NewService(rs store.RecordStore, sessions Sessions, clock engine.Clock) *Service {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &Service{store: rs, sessions: sessions, clock: clock}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// OnRefresh registers fn to be called after each successful Refresh.
func (s *Service) OnRefresh(fn RefreshListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Refresh loads the owner's records, orders them by next occurrence and notifies
// listeners.
func (s *Service) Refresh(ctx context.Context) ([]engine.BirthdayEntry, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	entries := engine.Upcoming(records, s.clock.Now())
	slog.Debug(config.MsgListRefreshed,
		config.LogKeyComponent, config.CompService,
		config.LogKeyCount, len(entries),
		config.LogKeyToday, engine.CountToday(entries))

	s.mu.Lock()
	listeners := append([]RefreshListener(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(entries)
	}
	return entries, nil
}

// Add validates and inserts a birthday under its trimmed name, then refreshes the
// list once. The refresh only happens after the insert succeeded.
func (s *Service) Add(ctx context.Context, name string, dateOfBirth time.Time) (engine.Record, error) {
	name = strings.TrimSpace(name)
	if err := ValidateInput(name, dateOfBirth, s.clock.Now()); err != nil {
		logRejected(err)
		return engine.Record{}, err
	}
	sess, err := s.session()
	if err != nil {
		return engine.Record{}, err
	}

	rec, err := s.store.InsertRecord(ctx, sess.UserID, name, dateOfBirth)
	if err != nil {
		return engine.Record{}, s.storeFailure(config.OpInsert, err)
	}
	slog.Info(config.MsgRecordAdded,
		config.LogKeyComponent, config.CompService,
		config.LogKeyID, rec.ID)

	_, err = s.Refresh(ctx)
	return rec, err
}

// Edit validates and updates an existing birthday, then refreshes the list once.
func (s *Service) Edit(ctx context.Context, id, name string, dateOfBirth time.Time) (engine.Record, error) {
	name = strings.TrimSpace(name)
	if err := ValidateInput(name, dateOfBirth, s.clock.Now()); err != nil {
		logRejected(err)
		return engine.Record{}, err
	}
	if _, err := s.session(); err != nil {
		return engine.Record{}, err
	}

	rec, err := s.store.UpdateRecord(ctx, id, name, dateOfBirth)
	if err != nil {
		return engine.Record{}, s.storeFailure(config.OpUpdate, err)
	}
	slog.Info(config.MsgRecordUpdated,
		config.LogKeyComponent, config.CompService,
		config.LogKeyID, rec.ID)

	_, err = s.Refresh(ctx)
	return rec, err
}

func (s *Service) records(ctx context.Context) ([]engine.Record, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, sess.UserID)
	if err != nil {
		return nil, s.storeFailure(config.OpList, err)
	}
	return records, nil
}

func (s *Service) session() (*store.Session, error) {
	sess := s.sessions.Current()
	if sess == nil {
		return nil, &AuthError{Err: store.ErrNoSession}
	}
	return sess, nil
}

// storeFailure classifies a store error. A store that lost the session turns
// into an AuthError and signs the holder out so the UI can redirect.
func (s *Service) storeFailure(op string, err error) error {
	if errors.Is(err, store.ErrNoSession) {
		s.sessions.Invalidate()
		return &AuthError{Err: err}
	}
	slog.Error(config.MsgStoreFail,
		config.LogKeyComponent, config.CompService,
		config.LogKeyOp, op,
		config.LogKeyError, err)
	return newStoreError(op, err)
}

func logRejected(err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		slog.Debug(config.MsgValidationFail,
			config.LogKeyComponent, config.CompService,
			config.LogKeyField, vErr.Field,
			config.LogKeyKey, vErr.Key)
	}
}

// Editor holds the state of one add or edit dialog.
type Editor struct {
	svc *Service
	id  string

	mu   sync.Mutex
	form Form
}

// NewEditor returns an editor for a new birthday.
func (s *Service) NewEditor() *Editor {
	return &Editor{svc: s}
}

// EditorFor returns an editor pre-filled with r.
func (s *Service) EditorFor(r engine.Record) *Editor {
	return &Editor{svc: s, id: r.ID, form: Reduce(Form{}, LoadRecord(r))}
}

// Editing reports whether submit updates an existing record.
func (e *Editor) Editing() bool { return e.id != "" }

// Form returns the current state.
func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Dispatch applies a and returns the new state.
func (e *Editor) Dispatch(a Action) Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.form = Reduce(e.form, a)
	return e.form
}

// Submit validates the form and adds or updates the record. The form is reset
// once the write succeeded, even if the following refresh failed.
func (e *Editor) Submit(ctx context.Context) (engine.Record, error) {
	form := e.Form()
	name, dob, err := form.Validate(e.svc.clock.Now())
	if err != nil {
		logRejected(err)
		return engine.Record{}, err
	}

	var rec engine.Record
	if e.Editing() {
		rec, err = e.svc.Edit(ctx, e.id, name, dob)
	} else {
		rec, err = e.svc.Add(ctx, name, dob)
	}
	if rec.ID != "" {
		e.Dispatch(Reset{})
	}
	return rec, err
}
