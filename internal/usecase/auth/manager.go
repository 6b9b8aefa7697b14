// Package auth acquires and refreshes the upstream token each terminal session
// calls the backend with.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const (
	loginWithExpiryPath = "/authn/login-with-expiry"
	legacyLoginPath     = "/authn/login"
	refreshPath         = "/authn/refresh"

	accessTokenCookie  = "folioAccessToken"
	refreshTokenCookie = "folioRefreshToken"

	headerToken     = "X-Okapi-Token"
	headerTenant    = "X-Okapi-Tenant"
	headerRequestID = "X-Okapi-Request-Id"

	maxErrorBody = 512
)

var (
	errUnexpectedStatus = errors.New("unexpected upstream status")
	errNoAccessToken    = errors.New("upstream response carried no access token")
	errRefreshExpired   = errors.New("refresh token expired")
)

// TokenManager resolves access tokens for sessions. It keeps no state of its
// own: the token record lives on the session.
type TokenManager struct {
	baseURL   string
	client    Doer
	log       logger.Interface
	now       func() time.Time
	legacyTTL time.Duration
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) {
		m.now = now
	}
}

// WithLegacyTokenTTL sets how long a legacy token without an exp claim is trusted.
func WithLegacyTokenTTL(ttl time.Duration) Option {
	return func(m *TokenManager) {
		m.legacyTTL = ttl
	}
}

// New -.
func New(baseURL string, client Doer, log logger.Interface, opts ...Option) *TokenManager {
	m := &TokenManager{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		log:       log,
		now:       time.Now,
		legacyTTL: time.Hour,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// ResolveAccessToken returns a usable token for s, logging in or refreshing as
// the session's token state requires. A failed refresh falls back to one login
// in the same call when credentials are stored.
func (m *TokenManager) ResolveAccessToken(ctx context.Context, s *entity.Session) (Token, error) {
	now := m.now()

	switch StateOf(s.Token, now) {
	case Valid:
		return m.token(s), nil
	case Absent:
		if !s.HasCredentials() {
			return Token{}, ErrMissingCredentials.Wrap("ResolveAccessToken", "", nil)
		}

		return m.login(ctx, s)
	case AccessExpiredRefreshValid:
		rec, err := m.refresh(ctx, s)
		if err == nil {
			s.Token = rec

			return m.token(s), nil
		}

		m.log.Warn("token refresh failed for tenant %s: %v", s.TenantID, err)

		if !s.HasCredentials() {
			return Token{}, err
		}

		return m.login(ctx, s)
	case BothExpired:
		if !s.HasCredentials() {
			return Token{}, ErrUpstreamAuthFailure.Wrap("ResolveAccessToken", "refresh", errRefreshExpired)
		}

		return m.login(ctx, s)
	}

	return Token{}, ErrMissingCredentials.Wrap("ResolveAccessToken", "", nil)
}

// Login stores the terminal's credentials on the session and exchanges them for
// a token. On failure the credentials are cleared again.
func (m *TokenManager) Login(ctx context.Context, s *entity.Session, username, password string) (Token, error) {
	s.SetCredentials(username, password)

	tok, err := m.login(ctx, s)
	if err != nil {
		s.ClearCredentials()

		return Token{}, err
	}

	return tok, nil
}

func (m *TokenManager) token(s *entity.Session) Token {
	return Token{
		Value:     s.Token.AccessToken,
		TenantID:  s.TenantID,
		RequestID: s.RequestID,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type expiryResponse struct {
	AccessTokenExpiration  time.Time `json:"accessTokenExpiration"`
	RefreshTokenExpiration time.Time `json:"refreshTokenExpiration"`
}

func (m *TokenManager) login(ctx context.Context, s *entity.Session) (Token, error) {
	body, err := json.Marshal(credentials{Username: s.Username, Password: s.Password})
	if err != nil {
		return Token{}, ErrUpstreamAuthFailure.Wrap("Login", "json.Marshal", err)
	}

	resp, err := m.send(ctx, s, loginWithExpiryPath, body, nil)
	if err != nil {
		return Token{}, ErrUpstreamAuthFailure.Wrap("Login", "login-with-expiry", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Older backends only offer the non-expiring login.
		return m.legacyLogin(ctx, s, body)
	}

	rec, err := m.readExpiring(resp)
	if err != nil {
		return Token{}, m.statusError("Login", "login-with-expiry", resp.StatusCode, err)
	}

	s.Token = rec

	m.log.Debug("logged in to tenant %s as %s", s.TenantID, s.Username)

	return m.token(s), nil
}

func (m *TokenManager) refresh(ctx context.Context, s *entity.Session) (*entity.TokenRecord, error) {
	cookie := &http.Cookie{Name: refreshTokenCookie, Value: s.Token.RefreshToken}

	resp, err := m.send(ctx, s, refreshPath, nil, cookie)
	if err != nil {
		return nil, ErrUpstreamAuthFailure.Wrap("Refresh", "refresh", err)
	}
	defer resp.Body.Close()

	rec, err := m.readExpiring(resp)
	if err != nil {
		return nil, m.statusError("Refresh", "refresh", resp.StatusCode, err)
	}

	return rec, nil
}

// readExpiring reads the tokens from the response cookies and their expiries from the body.
func (m *TokenManager) readExpiring(resp *http.Response) (*entity.TokenRecord, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", errUnexpectedStatus, readSnippet(resp.Body))
	}

	var exp expiryResponse
	if err := json.NewDecoder(resp.Body).Decode(&exp); err != nil {
		return nil, err
	}

	rec := &entity.TokenRecord{
		AccessExpiry:  exp.AccessTokenExpiration,
		RefreshExpiry: exp.RefreshTokenExpiration,
	}

	for _, c := range resp.Cookies() {
		switch c.Name {
		case accessTokenCookie:
			rec.AccessToken = c.Value
		case refreshTokenCookie:
			rec.RefreshToken = c.Value
		}
	}

	if rec.AccessToken == "" {
		return nil, errNoAccessToken
	}

	return rec, nil
}

func (m *TokenManager) send(ctx context.Context, s *entity.Session, path string, body []byte, cookie *http.Cookie) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerTenant, s.TenantID)

	if s.RequestID != "" {
		req.Header.Set(headerRequestID, s.RequestID)
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	return m.client.Do(req)
}

func (m *TokenManager) statusError(function, call string, status int, err error) error {
	if status >= 200 && status <= 299 {
		status = 0
	}

	return ErrUpstreamAuthFailure.WithStatus(status).Wrap(function, call, err)
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	return strings.TrimSpace(string(b))
}
