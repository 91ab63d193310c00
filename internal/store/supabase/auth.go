package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tartampluch/go-birthdays/internal/config"
	"github.com/tartampluch/go-birthdays/internal/store"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// tokenResponse is a GoTrue session. Sign-up without auto-confirm returns a bare
// user instead, leaving the token fields empty.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         *authUser `json:"user"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
}

// accessClaims are the parts of the access token the client relies on.
// The signature is verified by the server on every request, not here.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// CurrentSession returns the active session, restoring it from the vault on first
// use and refreshing the access token when it is about to expire. A refresh token
// the server rejects signs the user out.
func (c *Client) CurrentSession(ctx context.Context) (*store.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil && !c.restored {
		c.restored = true
		token, err := c.vault.Load()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVaultLoad, err)
		}
		if token == "" {
			return nil, nil
		}
		if err := c.refreshLocked(ctx, token); err != nil {
			return nil, err
		}
		if c.session != nil {
			slog.Info(config.MsgSessionRestored,
				config.LogKeyComponent, config.CompSupabase,
				config.LogKeyUser, c.session.UserID)
		}
	}

	if c.session == nil {
		return nil, nil
	}

	if c.session.Expired(c.Now(), config.SessionExpiryLeeway) {
		slog.Debug(config.MsgSessionRefresh, config.LogKeyComponent, config.CompSupabase)
		if err := c.refreshLocked(ctx, c.session.RefreshToken); err != nil {
			return nil, err
		}
		if c.session == nil {
			return nil, nil
		}
	}

	s := *c.session
	return &s, nil
}

// refreshLocked trades a refresh token for a new session. c.mu must be held.
func (c *Client) refreshLocked(ctx context.Context, refreshToken string) error {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   config.SupabaseAuthToken,
		query:  url.Values{config.ParamGrantType: {config.GrantRefreshToken}},
		body:   refreshRequest{RefreshToken: refreshToken},
	}, &tr)

	var apiErr *store.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		slog.Warn(config.MsgSessionDropped,
			config.LogKeyComponent, config.CompSupabase,
			config.LogKeyError, apiErr)
		c.dropLocked()
		return nil
	}
	if err != nil {
		return err
	}

	return c.openLocked(tr)
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*store.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, store.ErrCredentialsRequired
	}

	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   config.SupabaseAuthToken,
		query:  url.Values{config.ParamGrantType: {config.GrantPassword}},
		body:   credentials{Email: email, Password: password},
	}, &tr)
	if err != nil {
		return nil, classifyAuthError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.openLocked(tr); err != nil {
		return nil, err
	}

	slog.Info(config.MsgSignedIn,
		config.LogKeyComponent, config.CompSupabase,
		config.LogKeyUser, c.session.UserID)
	s := *c.session
	return &s, nil
}

// SignUp registers a new account. Projects that require email confirmation
// answer without a session, reported as store.ErrConfirmationRequired.
func (c *Client) SignUp(ctx context.Context, email, password string) (*store.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, store.ErrCredentialsRequired
	}

	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   config.SupabaseAuthSignup,
		body:   credentials{Email: email, Password: password},
	}, &tr)
	if err != nil {
		return nil, classifyAuthError(err)
	}

	if tr.AccessToken == "" {
		slog.Info(config.MsgSignedUp,
			config.LogKeyComponent, config.CompSupabase,
			config.LogKeyUser, tr.ID)
		return nil, store.ErrConfirmationRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.openLocked(tr); err != nil {
		return nil, err
	}

	slog.Info(config.MsgSignedUp,
		config.LogKeyComponent, config.CompSupabase,
		config.LogKeyUser, c.session.UserID)
	s := *c.session
	return &s, nil
}

// SignOut revokes the session server-side when possible and always forgets it
// locally. Only a keyring failure is reported.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		err := c.do(ctx, request{
			method: http.MethodPost,
			path:   config.SupabaseAuthLogout,
			bearer: c.session.AccessToken,
		}, nil)
		if err != nil {
			slog.Warn(config.MsgLogoutFailed,
				config.LogKeyComponent, config.CompSupabase,
				config.LogKeyError, err)
		}
	}

	c.session = nil
	c.restored = true
	slog.Info(config.MsgSignedOut, config.LogKeyComponent, config.CompSupabase)

	if err := c.vault.Clear(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrVaultClear, err)
	}
	return nil
}

// openLocked installs the session described by tr and persists its refresh token.
func (c *Client) openLocked(tr tokenResponse) error {
	s, err := c.sessionFrom(tr)
	if err != nil {
		return err
	}
	c.session = s
	c.restored = true

	if err := c.vault.Save(s.RefreshToken); err != nil {
		// The session still works for this run.
		slog.Warn(config.MsgVaultFailed,
			config.LogKeyComponent, config.CompSupabase,
			config.LogKeyError, err)
	}
	return nil
}

func (c *Client) dropLocked() {
	c.session = nil
	if err := c.vault.Clear(); err != nil {
		slog.Warn(config.MsgVaultFailed,
			config.LogKeyComponent, config.CompSupabase,
			config.LogKeyError, err)
	}
}

func (c *Client) sessionFrom(tr tokenResponse) (*store.Session, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTokenClaims, err)
	}

	s := &store.Session{
		UserID:       claims.Subject,
		Email:        claims.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}
	if tr.User != nil {
		if s.UserID == "" {
			s.UserID = tr.User.ID
		}
		if s.Email == "" {
			s.Email = tr.User.Email
		}
	}
	if s.UserID == "" {
		return nil, errors.New(config.ErrTokenClaims)
	}

	switch {
	case claims.ExpiresAt != nil:
		s.ExpiresAt = claims.ExpiresAt.Time
	case tr.ExpiresIn > 0:
		s.ExpiresAt = c.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s, nil
}

// classifyAuthError maps GoTrue rejections onto the store sentinels.
func classifyAuthError(err error) error {
	var apiErr *store.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case apiErr.Code == config.AuthCodeEmailNotConfirmed || strings.Contains(msg, "not confirmed"):
		return store.ErrConfirmationRequired
	case apiErr.Code == config.AuthCodeInvalidGrant || apiErr.Code == config.AuthCodeInvalidCredentials:
		return store.ErrInvalidCredentials
	case apiErr.Code == config.AuthCodeUserExists || apiErr.Code == config.AuthCodeEmailExists ||
		strings.Contains(msg, "already registered"):
		return store.ErrEmailTaken
	}
	return err
}
