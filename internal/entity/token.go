package entity

import "time"

// TokenRecord is an upstream credential. It is replaced wholesale on every
// login or refresh and never mutated in place.
type TokenRecord struct {
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
}

// AccessValid reports whether the access token can be used at now.
func (t *TokenRecord) AccessValid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.AccessExpiry)
}

// RefreshValid reports whether the refresh token can be exchanged at now.
func (t *TokenRecord) RefreshValid(now time.Time) bool {
	return t != nil && t.RefreshToken != "" && now.Before(t.RefreshExpiry)
}
