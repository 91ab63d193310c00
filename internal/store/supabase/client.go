// Package supabase is the hosted record store: GoTrue for authentication and
// PostgREST for the birthdays table, both spoken over plain HTTPS.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/store"
)

// Client implements store.Backend against a Supabase project.
type Client struct {
	baseURL string
	apiKey  string
	vault   TokenVault

	// HTTPClient and Now may be replaced before first use.
	HTTPClient *http.Client
	Now        func() time.Time

	mu       sync.Mutex
	session  *store.Session
	restored bool
}

var _ store.Backend = (*Client)(nil)

// New returns a client for the project at baseURL using its anon key.
func New(baseURL, apiKey string, vault TokenVault) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		vault:      vault,
		HTTPClient: &http.Client{Timeout: config.HTTPTimeout},
		Now:        time.Now,
	}
}

// Close is a no-op; the HTTP client owns no resources worth releasing.
func (c *Client) Close() error { return nil }

// request describes one call to the project.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
	prefer string
}

// errorBody covers both GoTrue and PostgREST error shapes.
type errorBody struct {
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Code             json.RawMessage `json:"code"`
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrEncodeRequest, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrBuildRequest, err)
	}

	bearer := r.bearer
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set(config.HeaderAPIKey, c.apiKey)
	req.Header.Set(config.HeaderAuthorization, config.BearerPrefix+bearer)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if r.body != nil {
		req.Header.Set(config.HeaderContentType, config.MimeJSON)
	}
	if r.prefer != "" {
		req.Header.Set(config.HeaderPrefer, r.prefer)
	}

	log := slog.With(
		config.LogKeyComponent, config.CompSupabase,
		config.LogKeyMethod, r.method,
		config.LogKeyRoute, r.path,
	)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxAPIResponseSize))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	log.Debug(config.MsgRequest,
		config.LogKeyStatus, resp.StatusCode,
		config.LogKeyDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, raw)
		log.Warn(config.MsgBadStatus,
			config.LogKeyStatus, resp.StatusCode,
			config.LogKeyError, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDecodeResponse, err)
	}
	return nil
}

func decodeError(status int, raw []byte) *store.APIError {
	apiErr := &store.APIError{Status: status}

	var b errorBody
	if err := json.Unmarshal(raw, &b); err != nil {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}

	var code string
	if len(b.Code) > 0 && b.Code[0] == '"' {
		_ = json.Unmarshal(b.Code, &code)
	}
	apiErr.Code = firstNonEmpty(b.ErrorCode, b.Error, code)
	apiErr.Message = firstNonEmpty(b.ErrorDescription, b.Msg, b.Message, http.StatusText(status))
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
