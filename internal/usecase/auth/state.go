package auth

import (
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
)

// State is where a session's token record sits in its lifecycle.
type State int

const (
	Absent State = iota
	Valid
	AccessExpiredRefreshValid
	BothExpired
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Valid:
		return "valid"
	case AccessExpiredRefreshValid:
		return "access-expired"
	case BothExpired:
		return "both-expired"
	default:
		return "unknown"
	}
}

// StateOf classifies rec at now.
func StateOf(rec *entity.TokenRecord, now time.Time) State {
	switch {
	case rec == nil || rec.AccessToken == "":
		return Absent
	case rec.AccessValid(now):
		return Valid
	case rec.RefreshValid(now):
		return AccessExpiredRefreshValid
	default:
		return BothExpired
	}
}

// Token is a resolved upstream access token. Backend resources only accept
// calls made with one, so a token is always resolved before any resource call.
type Token struct {
	Value     string
	TenantID  string
	RequestID string
}
