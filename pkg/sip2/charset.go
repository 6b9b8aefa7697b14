package sip2

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnsupportedCharset is returned for a charset name the gateway cannot encode.
var ErrUnsupportedCharset = errors.New("unsupported charset")

// Encoding returns the text encoding used on the wire for a configured charset name.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "ISO-8859-1", "ISO8859-1", "LATIN1":
		return charmap.ISO8859_1, nil
	case "IBM850", "CP850":
		return charmap.CodePage850, nil
	case "UTF-8", "UTF8":
		return unicode.UTF8, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharset, name)
	}
}

func decode(enc encoding.Encoding, b []byte) (string, error) {
	if enc == nil {
		return string(b), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// encode replaces characters the charset cannot represent instead of failing.
func encode(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}

	return encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
}
