// Package entity defines the per-connection state of a SIP2 terminal.
package entity

import "time"

const (
	DefaultFieldDelimiter = '|'
	DefaultCharset        = "ISO-8859-1"
	DefaultTimezone       = "UTC"
	DefaultLocale         = "en-US"
	DefaultCurrency       = "USD"
	UnknownPrintWidth     = -1
)

// Session is the mutable context of one terminal connection.
// It is only touched by the goroutine serving that connection.
type Session struct {
	// ID is the unique session identifier (UUID)
	ID string

	// RemoteAddr is the terminal's network address
	RemoteAddr string

	// TenantID scopes every backend call made for this terminal
	TenantID string

	FieldDelimiter        byte
	Charset               string
	ErrorDetectionEnabled bool

	Timezone      string
	Locale        string
	Currency      string
	MaxPrintWidth int

	// Username and Password come from the SIP2 login message and are kept
	// for fallback re-authentication until the session ends
	Username string
	Password string

	// ServicePointID is the location code sent at login
	ServicePointID string

	Token            *TokenRecord
	PreviousResponse *PreviousResponse

	// ErrorResponse holds a degraded response produced by a failed handler
	ErrorResponse interface{}

	PatronPasswordVerificationRequired bool

	// RequestID correlates upstream calls with the current command
	RequestID string

	CreatedTime    time.Time
	LastAccessTime time.Time
}

// NewSession returns a session carrying the protocol defaults.
func NewSession(id, remoteAddr, tenantID string) *Session {
	now := time.Now()

	return &Session{
		ID:             id,
		RemoteAddr:     remoteAddr,
		TenantID:       tenantID,
		FieldDelimiter: DefaultFieldDelimiter,
		Charset:        DefaultCharset,
		Timezone:       DefaultTimezone,
		Locale:         DefaultLocale,
		Currency:       DefaultCurrency,
		MaxPrintWidth:  UnknownPrintWidth,
		CreatedTime:    now,
		LastAccessTime: now,
	}
}

// HasCredentials reports whether a fallback login is possible.
func (s *Session) HasCredentials() bool {
	return s.Username != "" && s.Password != ""
}

// SetCredentials stores login credentials and drops any token issued for previous ones.
func (s *Session) SetCredentials(username, password string) {
	s.Username = username
	s.Password = password
	s.Token = nil
}

// ClearCredentials drops username, password and token together.
func (s *Session) ClearCredentials() {
	s.Username = ""
	s.Password = ""
	s.Token = nil
}

// TakeErrorResponse returns and clears the degraded response slot.
func (s *Session) TakeErrorResponse() interface{} {
	resp := s.ErrorResponse
	s.ErrorResponse = nil

	return resp
}

// Touch updates the last access time.
func (s *Session) Touch() {
	s.LastAccessTime = time.Now()
}

// IdleFor reports how long the session has been idle at now.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastAccessTime)
}

// Location returns the session timezone, falling back to UTC for unknown names.
func (s *Session) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// PreviousResponse is the last response rendered for the session.
type PreviousResponse struct {
	SequenceNumber int
	Checksum       string
	Text           string
}

// SessionInfo is the read-only view of a session exposed to operators.
type SessionInfo struct {
	ID             string    `json:"id"`
	RemoteAddr     string    `json:"remoteAddr"`
	TenantID       string    `json:"tenantId"`
	CreatedTime    time.Time `json:"createdTime"`
	LastAccessTime time.Time `json:"lastAccessTime"`
}
