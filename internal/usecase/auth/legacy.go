package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
)

type legacyLoginResponse struct {
	OkapiToken string `json:"okapiToken"`
}

// legacyLogin uses /authn/login, which answers with a single token in a header
// and no refresh token. Its expiry comes from the JWT exp claim when present.
func (m *TokenManager) legacyLogin(ctx context.Context, s *entity.Session, body []byte) (Token, error) {
	resp, err := m.send(ctx, s, legacyLoginPath, body, nil)
	if err != nil {
		return Token{}, ErrUpstreamAuthFailure.Wrap("Login", "login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, m.statusError("Login", "login", resp.StatusCode, errUnexpectedStatus)
	}

	token := resp.Header.Get(headerToken)
	if token == "" {
		var lr legacyLoginResponse
		if err := json.NewDecoder(resp.Body).Decode(&lr); err == nil {
			token = lr.OkapiToken
		}
	}

	if token == "" {
		return Token{}, ErrUpstreamAuthFailure.Wrap("Login", "login", errNoAccessToken)
	}

	s.Token = &entity.TokenRecord{
		AccessToken:  token,
		AccessExpiry: m.legacyExpiry(token),
	}

	m.log.Debug("logged in to tenant %s with legacy token", s.TenantID)

	return m.token(s), nil
}

// legacyExpiry reads exp without verifying the signature; the gateway only
// needs to know when to log in again.
func (m *TokenManager) legacyExpiry(token string) time.Time {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	return m.now().Add(m.legacyTTL)
}
