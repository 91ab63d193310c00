package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/engine"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// wireRecord is a row of the birthdays table as PostgREST renders it.
type wireRecord struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
}

func (w wireRecord) record() (engine.Record, error) {
	dob, err := time.Parse(config.DateFormatFullDash, w.DateOfBirth)
	if err != nil {
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrDecodeResponse, err)
	}
	return engine.Record{ID: w.ID, Name: w.Name, DateOfBirth: dob}, nil
}

// bearer returns the access token of the active session.
func (c *Client) bearer(ctx context.Context) (string, error) {
	s, err := c.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", store.ErrNoSession
	}
	return s.AccessToken, nil
}

// ListRecords fetches the owner's rows ordered by date of birth. Row level
// security on the table restricts the result to the signed-in user.
func (c *Client) ListRecords(ctx context.Context, owner string) ([]engine.Record, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	var rows []wireRecord
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   config.SupabaseRestTable,
		query: url.Values{
			config.ParamSelect: {config.SelectColumns},
			config.ParamUserID: {config.FilterEqualsPrefix + owner},
			config.ParamOrder:  {config.OrderDateOfBirthAsc},
		},
		bearer: token,
	}, &rows)
	if err != nil {
		return nil, c.restFailure(config.ErrListRecords, err)
	}

	out := make([]engine.Record, 0, len(rows))
	for _, w := range rows {
		r, err := w.record()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// InsertRecord creates a row and returns it as stored.
func (c *Client) InsertRecord(ctx context.Context, owner, name string, dateOfBirth time.Time) (engine.Record, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return engine.Record{}, err
	}

	var rows []wireRecord
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   config.SupabaseRestTable,
		query:  url.Values{config.ParamSelect: {config.SelectColumns}},
		body: wireRecord{
			UserID:      owner,
			Name:        name,
			DateOfBirth: dateOfBirth.Format(config.DateFormatFullDash),
		},
		bearer: token,
		prefer: config.PreferRepresentation,
	}, &rows)
	if err != nil {
		return engine.Record{}, c.restFailure(config.ErrInsertRecord, err)
	}
	if len(rows) == 0 {
		return engine.Record{}, fmt.Errorf("%s: %w", config.ErrInsertRecord, store.ErrForbidden)
	}
	return rows[0].record()
}

// UpdateRecord patches the row with the given id. An id that matches nothing
// visible to the user yields store.ErrNotFound.
func (c *Client) UpdateRecord(ctx context.Context, id, name string, dateOfBirth time.Time) (engine.Record, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return engine.Record{}, err
	}

	var rows []wireRecord
	err = c.do(ctx, request{
		method: http.MethodPatch,
		path:   config.SupabaseRestTable,
		query: url.Values{
			config.ParamID:     {config.FilterEqualsPrefix + id},
			config.ParamSelect: {config.SelectColumns},
		},
		body: wireRecord{
			Name:        name,
			DateOfBirth: dateOfBirth.Format(config.DateFormatFullDash),
		},
		bearer: token,
		prefer: config.PreferRepresentation,
	}, &rows)
	if err != nil {
		return engine.Record{}, c.restFailure(config.ErrUpdateRecord, err)
	}
	if len(rows) == 0 {
		return engine.Record{}, store.ErrNotFound
	}
	return rows[0].record()
}

// restFailure wraps a PostgREST error. A 401 means the server no longer honours
// the access token even though it has not expired locally, so the session is
// dropped and the error carries store.ErrNoSession.
func (c *Client) restFailure(msg string, err error) error {
	var apiErr *store.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", msg, err)
	}

	slog.Warn(config.MsgSessionDropped,
		config.LogKeyComponent, config.CompSupabase,
		config.LogKeyError, apiErr)

	c.mu.Lock()
	c.dropLocked()
	c.mu.Unlock()
	return fmt.Errorf("%s: %w: %w", msg, store.ErrNoSession, err)
}
