//nolint:mnd // SIP2 fixed field widths are defined by the protocol
package sip2

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
)

var (
	// ErrMessageTooShort is returned when the fixed part of a message is truncated.
	ErrMessageTooShort = errors.New("message too short")
	// ErrChecksumMismatch is returned when error detection is on and the checksum is wrong.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrMissingChecksum is returned when error detection is on and no AZ field is present.
	ErrMissingChecksum = errors.New("missing checksum")
)

// Parser turns raw request bytes into Commands.
type Parser struct {
	Delimiter      byte
	ErrorDetection bool
	Encoding       encoding.Encoding
	Location       *time.Location
}

type decoder func(p *Parser, fixed string, f fields) (interface{}, error)

type layout struct {
	fixed  int
	decode decoder
}

var layouts = map[CommandType]layout{
	Login:               {fixed: 2, decode: decodeLogin},
	SCStatus:            {fixed: 8, decode: decodeSCStatus},
	RequestACSResend:    {fixed: 0, decode: decodeACSResend},
	Checkout:            {fixed: 38, decode: decodeCheckout},
	Checkin:             {fixed: 37, decode: decodeCheckin},
	PatronStatusRequest: {fixed: 21, decode: decodePatronStatus},
	PatronInformation:   {fixed: 31, decode: decodePatronInformation},
	FeePaid:             {fixed: 25, decode: decodeFeePaid},
	ItemInformation:     {fixed: 18, decode: decodeItemInformation},
	Renew:               {fixed: 38, decode: decodeRenew},
	RenewAll:            {fixed: 18, decode: decodeRenewAll},
	EndPatronSession:    {fixed: 18, decode: decodeEndPatronSession},
}

// Parse always returns a Command. When the message is malformed Valid is false and the
// error says why, so the caller can log the reason and still answer the terminal.
func (p *Parser) Parse(raw []byte) (Command, error) {
	raw = trimTerminator(raw)

	cmd := Command{Type: Unknown, SequenceNumber: NoSequenceNumber}

	text, err := decode(p.Encoding, raw)
	if err != nil {
		return cmd, err
	}

	cmd.Raw = text

	if len(text) < 2 {
		return cmd, ErrMessageTooShort
	}

	cmd.Type = CommandType(text[:2])

	body, seq, checksum, hasChecksum := splitTrailer(text, p.delimiter())
	cmd.SequenceNumber = seq
	cmd.Checksum = checksum

	if p.ErrorDetection {
		if !hasChecksum {
			return cmd, ErrMissingChecksum
		}

		if !VerifyChecksum(raw) {
			return cmd, ErrChecksumMismatch
		}
	}

	l, ok := layouts[cmd.Type]
	if !ok {
		// Well-formed but not a command the gateway serves.
		cmd.Valid = true

		return cmd, nil
	}

	rest := body[2:]
	if len(rest) < l.fixed {
		return cmd, fmt.Errorf("%w: %s needs %d fixed characters", ErrMessageTooShort, cmd.Type, l.fixed)
	}

	payload, err := l.decode(p, rest[:l.fixed], parseFields(rest[l.fixed:], p.delimiter()))
	if err != nil {
		return cmd, err
	}

	cmd.Payload = payload
	cmd.Valid = true

	return cmd, nil
}

// Known reports whether the parser has a layout for t.
func Known(t CommandType) bool {
	_, ok := layouts[t]

	return ok
}

func (p *Parser) delimiter() byte {
	if p.Delimiter == 0 {
		return '|'
	}

	return p.Delimiter
}

func (p *Parser) date(s string) (time.Time, error) {
	return ParseDate(s, p.Location)
}

func trimTerminator(raw []byte) []byte {
	for len(raw) > 0 && (raw[len(raw)-1] == '\r' || raw[len(raw)-1] == '\n') {
		raw = raw[:len(raw)-1]
	}

	return raw
}

// splitTrailer separates the "AYnAZxxxx" error detection trailer from the message body.
func splitTrailer(msg string, delim byte) (body string, seq int, checksum string, ok bool) {
	body = msg
	seq = NoSequenceNumber

	if n := len(body); n >= 8 && body[n-6:n-4] == "AZ" {
		checksum = body[n-4:]
		body = body[:n-6]
		ok = true
	}

	if n := len(body); n >= 5 && body[n-3:n-1] == "AY" && isDigit(body[n-1]) {
		seq = int(body[n-1] - '0')
		body = body[:n-3]
	}

	body = strings.TrimSuffix(body, string(delim))

	return body, seq, checksum, ok
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

type fields map[string]string

func parseFields(s string, delim byte) fields {
	f := fields{}

	for _, tok := range strings.Split(s, string(delim)) {
		if len(tok) < 2 {
			continue
		}

		id := tok[:2]
		if _, seen := f[id]; !seen {
			f[id] = tok[2:]
		}
	}

	return f
}

func (f fields) yes(id string) bool {
	return strings.EqualFold(f[id], "Y")
}

func (f fields) int(id string) int {
	n, err := strconv.Atoi(strings.TrimSpace(f[id]))
	if err != nil {
		return 0
	}

	return n
}

func flag(b byte) bool {
	return b == 'Y' || b == 'y'
}

func decodeLogin(_ *Parser, fixed string, f fields) (interface{}, error) {
	return LoginRequest{
		UIDAlgorithm:  fixed[0],
		PWDAlgorithm:  fixed[1],
		LoginUserID:   f["CN"],
		LoginPassword: f["CO"],
		LocationCode:  f["CP"],
	}, nil
}

func decodeSCStatus(_ *Parser, fixed string, _ fields) (interface{}, error) {
	width, err := strconv.Atoi(strings.TrimSpace(fixed[1:4]))
	if err != nil {
		width = -1
	}

	return SCStatusRequest{
		StatusCode:      fixed[0],
		MaxPrintWidth:   width,
		ProtocolVersion: fixed[4:8],
	}, nil
}

func decodeACSResend(_ *Parser, _ string, _ fields) (interface{}, error) {
	return ACSResendRequest{}, nil
}

func decodeCheckout(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[2:20])
	if err != nil {
		return nil, err
	}

	due, err := p.date(fixed[20:38])
	if err != nil {
		return nil, err
	}

	return CheckoutRequest{
		SCRenewalPolicy:  flag(fixed[0]),
		NoBlock:          flag(fixed[1]),
		TransactionDate:  txDate,
		NbDueDate:        due,
		InstitutionID:    f["AO"],
		PatronIdentifier: f["AA"],
		ItemIdentifier:   f["AB"],
		TerminalPassword: f["AC"],
		ItemProperties:   f["CH"],
		PatronPassword:   f["AD"],
		FeeAcknowledged:  f.yes("BO"),
		Cancel:           f.yes("BI"),
	}, nil
}

func decodeCheckin(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[1:19])
	if err != nil {
		return nil, err
	}

	returned, err := p.date(fixed[19:37])
	if err != nil {
		return nil, err
	}

	return CheckinRequest{
		NoBlock:          flag(fixed[0]),
		TransactionDate:  txDate,
		ReturnDate:       returned,
		CurrentLocation:  f["AP"],
		InstitutionID:    f["AO"],
		ItemIdentifier:   f["AB"],
		TerminalPassword: f["AC"],
		ItemProperties:   f["CH"],
		Cancel:           f.yes("BI"),
	}, nil
}

func decodePatronStatus(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[3:21])
	if err != nil {
		return nil, err
	}

	return PatronStatusRequestMessage{
		Language:         fixed[:3],
		TransactionDate:  txDate,
		InstitutionID:    f["AO"],
		PatronIdentifier: f["AA"],
		TerminalPassword: f["AC"],
		PatronPassword:   f["AD"],
	}, nil
}

// parseSummary returns the first selected category of the 10-character summary field.
func parseSummary(s string) Summary {
	for i := 0; i < len(s) && i < int(SummaryUnavailableHolds); i++ {
		if flag(s[i]) {
			return Summary(i + 1)
		}
	}

	return SummaryNone
}

func decodePatronInformation(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[3:21])
	if err != nil {
		return nil, err
	}

	return PatronInformationRequest{
		Language:         fixed[:3],
		TransactionDate:  txDate,
		Summary:          parseSummary(fixed[21:31]),
		InstitutionID:    f["AO"],
		PatronIdentifier: f["AA"],
		TerminalPassword: f["AC"],
		PatronPassword:   f["AD"],
		StartItem:        f.int("BP"),
		EndItem:          f.int("BQ"),
	}, nil
}

func decodeFeePaid(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[:18])
	if err != nil {
		return nil, err
	}

	return FeePaidRequest{
		TransactionDate:  txDate,
		FeeType:          fixed[18:20],
		PaymentType:      fixed[20:22],
		CurrencyType:     fixed[22:25],
		FeeAmount:        f["BV"],
		InstitutionID:    f["AO"],
		PatronIdentifier: f["AA"],
		TerminalPassword: f["AC"],
		PatronPassword:   f["AD"],
		FeeIdentifier:    f["CG"],
		TransactionID:    f["BK"],
	}, nil
}

func decodeItemInformation(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[:18])
	if err != nil {
		return nil, err
	}

	return ItemInformationRequest{
		TransactionDate:  txDate,
		InstitutionID:    f["AO"],
		ItemIdentifier:   f["AB"],
		TerminalPassword: f["AC"],
	}, nil
}

func decodeRenew(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[2:20])
	if err != nil {
		return nil, err
	}

	due, err := p.date(fixed[20:38])
	if err != nil {
		return nil, err
	}

	return RenewRequest{
		ThirdPartyAllowed: flag(fixed[0]),
		NoBlock:           flag(fixed[1]),
		TransactionDate:   txDate,
		NbDueDate:         due,
		InstitutionID:     f["AO"],
		PatronIdentifier:  f["AA"],
		PatronPassword:    f["AD"],
		ItemIdentifier:    f["AB"],
		TitleIdentifier:   f["AJ"],
		TerminalPassword:  f["AC"],
		ItemProperties:    f["CH"],
		FeeAcknowledged:   f.yes("BO"),
	}, nil
}

func decodeRenewAll(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[:18])
	if err != nil {
		return nil, err
	}

	return RenewAllRequest{
		TransactionDate:  txDate,
		InstitutionID:    f["AO"],
		PatronIdentifier: f["AA"],
		PatronPassword:   f["AD"],
		TerminalPassword: f["AC"],
		FeeAcknowledged:  f.yes("BO"),
	}, nil
}

func decodeEndPatronSession(p *Parser, fixed string, f fields) (interface{}, error) {
	txDate, err := p.date(fixed[:18])
	if err != nil {
		return nil, err
	}

	return EndPatronSessionRequest{
		TransactionDate:  txDate,
		InstitutionID:    f["AO"],
		PatronIdentifier: f["AA"],
		TerminalPassword: f["AC"],
		PatronPassword:   f["AD"],
	}, nil
}
