package sip2

import (
	"errors"
	"strings"
	"time"
)

// DateWidth is the width of a SIP2 "YYYYMMDDZZZZHHMMSS" timestamp.
const DateWidth = 18

const (
	dateLayout = "20060102150405"
	localZone  = "    "
	utcZone    = "   Z"
)

// ErrInvalidDate is returned for a timestamp that is not 18 characters of digits and zone.
var ErrInvalidDate = errors.New("invalid SIP2 date")

// FormatDate renders t in loc with a blank (local) zone indicator.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	local := t.In(loc)

	return local.Format("20060102") + localZone + local.Format("150405")
}

// ParseDate reads an 18-character SIP2 timestamp. A blank field yields the zero time.
// Zone "   Z" means UTC; any other zone is read as local time in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}

	if len(s) != DateWidth {
		return time.Time{}, ErrInvalidDate
	}

	if loc == nil {
		loc = time.UTC
	}

	if s[8:12] == utcZone {
		loc = time.UTC
	}

	t, err := time.ParseInLocation(dateLayout, s[:8]+s[12:], loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return t, nil
}
