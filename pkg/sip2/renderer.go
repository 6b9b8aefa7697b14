//nolint:mnd // SIP2 fixed field widths are defined by the protocol
package sip2

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
)

const (
	defaultLanguage = "000"
)

// Format carries the per-session presentation settings a response is rendered with.
type Format struct {
	Delimiter      byte
	Location       *time.Location
	MaxPrintWidth  int
	ErrorDetection bool
	SequenceNumber int
	Encoding       encoding.Encoding
}

// Renderer turns responses into wire text. It holds no state, so rendering the
// same response with the same format always yields the same bytes.
type Renderer struct{}

// NewRenderer -.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the encoded message without the message terminator. With error
// detection on, the sequence number and checksum trailer are appended.
func (r *Renderer) Render(resp Response, f Format) (string, error) {
	e := &encoder{f: f}
	if e.f.Delimiter == 0 {
		e.f.Delimiter = '|'
	}

	if e.f.Location == nil {
		e.f.Location = time.UTC
	}

	e.b.WriteString(resp.Code())
	resp.encode(e)

	if f.ErrorDetection {
		seq := f.SequenceNumber
		if seq < 0 {
			seq = 0
		}

		e.b.WriteString("AY")
		e.b.WriteString(strconv.Itoa(seq % 10))
		e.b.WriteString("AZ")
	}

	out, err := encode(f.Encoding, e.b.String())
	if err != nil {
		return "", err
	}

	if f.ErrorDetection {
		out = append(out, Checksum(out)...)
	}

	return string(out), nil
}

type encoder struct {
	b strings.Builder
	f Format
}

func (e *encoder) fixed(s string) {
	e.b.WriteString(s)
}

func (e *encoder) yn(v bool) {
	if v {
		e.b.WriteByte('Y')
	} else {
		e.b.WriteByte('N')
	}
}

func (e *encoder) bit(v bool) {
	if v {
		e.b.WriteByte('1')
	} else {
		e.b.WriteByte('0')
	}
}

func (e *encoder) tri(t Tristate) {
	if t == 0 {
		t = TristateUnknown
	}

	e.b.WriteByte(byte(t))
}

func (e *encoder) date(t time.Time) {
	if t.IsZero() {
		e.b.WriteString(strings.Repeat(" ", DateWidth))

		return
	}

	e.b.WriteString(FormatDate(t, e.f.Location))
}

func (e *encoder) count(n, width int) {
	if n < 0 {
		n = 0
	}

	limit := 1
	for i := 0; i < width; i++ {
		limit *= 10
	}

	if n >= limit {
		n = limit - 1
	}

	s := strconv.Itoa(n)
	e.b.WriteString(strings.Repeat("0", width-len(s)))
	e.b.WriteString(s)
}

func (e *encoder) language(l string) {
	if len(l) != 3 {
		l = defaultLanguage
	}

	e.b.WriteString(l)
}

func (e *encoder) field(id, v string) {
	e.b.WriteString(id)
	e.b.WriteString(v)
	e.b.WriteByte(e.f.Delimiter)
}

func (e *encoder) optional(id, v string) {
	if v != "" {
		e.field(id, v)
	}
}

func (e *encoder) optionalDate(id string, t time.Time) {
	if !t.IsZero() {
		e.field(id, FormatDate(t, e.f.Location))
	}
}

func (e *encoder) optionalBool(id string, v *bool) {
	if v == nil {
		return
	}

	if *v {
		e.field(id, "Y")
	} else {
		e.field(id, "N")
	}
}

func (e *encoder) optionalInt(id string, n *int, width int) {
	if n == nil {
		return
	}

	e.b.WriteString(id)
	e.count(*n, width)
	e.b.WriteByte(e.f.Delimiter)
}

func (e *encoder) repeated(id string, vs []string) {
	for _, v := range vs {
		e.field(id, v)
	}
}

func (e *encoder) messages(screen, printLines []string) {
	for _, m := range screen {
		e.field("AF", e.truncate(m))
	}

	for _, m := range printLines {
		e.field("AG", e.truncate(m))
	}
}

func (e *encoder) truncate(s string) string {
	if e.f.MaxPrintWidth <= 0 {
		return s
	}

	r := []rune(s)
	if len(r) <= e.f.MaxPrintWidth {
		return s
	}

	return string(r[:e.f.MaxPrintWidth])
}

func (r LoginResponse) encode(e *encoder) {
	e.bit(r.OK)
}

func (m SupportedMessages) field() string {
	flags := []bool{
		m.PatronStatusRequest, m.Checkout, m.Checkin, m.BlockPatron,
		m.SCACSStatus, m.RequestSCACSResend, m.Login, m.PatronInformation,
		m.EndPatronSession, m.FeePaid, m.ItemInformation, m.ItemStatusUpdate,
		m.PatronEnable, m.Hold, m.Renew, m.RenewAll,
	}

	b := make([]byte, len(flags))

	for i, f := range flags {
		if f {
			b[i] = 'Y'
		} else {
			b[i] = 'N'
		}
	}

	return string(b)
}

func (r ACSStatusResponse) encode(e *encoder) {
	e.yn(r.OnlineStatus)
	e.yn(r.CheckinOK)
	e.yn(r.CheckoutOK)
	e.yn(r.ACSRenewalPolicy)
	e.yn(r.StatusUpdateOK)
	e.yn(r.OfflineOK)
	e.count(r.TimeoutPeriod, 3)
	e.count(r.RetriesAllowed, 3)
	e.date(r.DateTimeSync)

	version := r.ProtocolVersion
	if len(version) != 4 {
		version = "2.00"
	}

	e.fixed(version)
	e.field("AO", r.InstitutionID)
	e.optional("AM", r.LibraryName)
	e.field("BX", r.SupportedMessages.field())
	e.optional("AN", r.TerminalLocation)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r CheckoutResponse) encode(e *encoder) {
	e.bit(r.OK)
	e.yn(r.RenewalOK)
	e.tri(r.MagneticMedia)
	e.tri(r.Desensitize)
	e.date(r.TransactionDate)
	e.field("AO", r.InstitutionID)
	e.field("AA", r.PatronIdentifier)
	e.field("AB", r.ItemIdentifier)
	e.field("AJ", r.TitleIdentifier)

	if r.DueDate.IsZero() {
		e.field("AH", "")
	} else {
		e.field("AH", FormatDate(r.DueDate, e.f.Location))
	}

	e.optional("FA", r.FeeAmount)
	e.optional("BT", r.FeeType)

	if r.SecurityInhibit {
		e.field("CI", "Y")
	}

	e.optional("BH", r.CurrencyType)
	e.optional("CK", r.MediaType)
	e.optional("CH", r.ItemProperties)
	e.optional("BK", r.TransactionID)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r CheckinResponse) encode(e *encoder) {
	e.bit(r.OK)
	e.yn(r.Resensitize)
	e.tri(r.MagneticMedia)
	e.yn(r.Alert)
	e.date(r.TransactionDate)
	e.field("AO", r.InstitutionID)
	e.field("AB", r.ItemIdentifier)
	e.field("AQ", r.PermanentLocation)
	e.optional("AJ", r.TitleIdentifier)
	e.optional("CL", r.SortBin)
	e.optional("AA", r.PatronIdentifier)
	e.optional("CK", r.MediaType)
	e.optional("CH", r.ItemProperties)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r PatronStatusResponse) encode(e *encoder) {
	e.fixed(r.PatronStatus.Field())
	e.language(r.Language)
	e.date(r.TransactionDate)
	e.field("AO", r.InstitutionID)
	e.field("AA", r.PatronIdentifier)
	e.field("AE", r.PersonalName)
	e.optionalBool("BL", r.ValidPatron)
	e.optionalBool("CQ", r.ValidPatronPassword)
	e.optional("BH", r.CurrencyType)
	e.optional("BV", r.FeeAmount)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r PatronInformationResponse) encode(e *encoder) {
	e.fixed(r.PatronStatus.Field())
	e.language(r.Language)
	e.date(r.TransactionDate)
	e.count(r.HoldItemsCount, 4)
	e.count(r.OverdueItemsCount, 4)
	e.count(r.ChargedItemsCount, 4)
	e.count(r.FineItemsCount, 4)
	e.count(r.RecallItemsCount, 4)
	e.count(r.UnavailableHoldsCount, 4)
	e.field("AO", r.InstitutionID)
	e.field("AA", r.PatronIdentifier)
	e.field("AE", r.PersonalName)
	e.optionalInt("BZ", r.HoldItemsLimit, 4)
	e.optionalInt("CA", r.OverdueItemsLimit, 4)
	e.optionalInt("CB", r.ChargedItemsLimit, 4)
	e.optionalBool("BL", r.ValidPatron)
	e.optionalBool("CQ", r.ValidPatronPassword)
	e.optional("BH", r.CurrencyType)
	e.optional("BV", r.FeeAmount)
	e.optional("CC", r.FeeLimit)
	e.repeated("AS", r.HoldItems)
	e.repeated("AT", r.OverdueItems)
	e.repeated("AU", r.ChargedItems)
	e.repeated("AV", r.FineItems)
	e.repeated("BU", r.RecallItems)
	e.repeated("CD", r.UnavailableHoldItems)
	e.optional("BD", r.HomeAddress)
	e.optional("BE", r.EmailAddress)
	e.optional("BF", r.HomePhoneNumber)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r FeePaidResponse) encode(e *encoder) {
	e.yn(r.PaymentAccepted)
	e.date(r.TransactionDate)
	e.field("AO", r.InstitutionID)
	e.field("AA", r.PatronIdentifier)
	e.optional("BK", r.TransactionID)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r ItemInformationResponse) encode(e *encoder) {
	status := r.CirculationStatus
	if len(status) != 2 {
		status = CirculationOther
	}

	e.fixed(string(status))
	e.fixed(twoChars(r.SecurityMarker, "00"))
	e.fixed(twoChars(r.FeeType, "01"))
	e.date(r.TransactionDate)

	if r.HoldQueueLength != nil {
		e.field("CF", strconv.Itoa(*r.HoldQueueLength))
	}

	e.optionalDate("AH", r.DueDate)
	e.optionalDate("CJ", r.RecallDate)
	e.optionalDate("CM", r.HoldPickupDate)
	e.field("AB", r.ItemIdentifier)
	e.field("AJ", r.TitleIdentifier)
	e.optional("BG", r.Owner)
	e.optional("BH", r.CurrencyType)
	e.optional("BV", r.FeeAmount)
	e.optional("CK", r.MediaType)
	e.optional("AQ", r.PermanentLocation)
	e.optional("AP", r.CurrentLocation)
	e.optional("CH", r.ItemProperties)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r RenewResponse) encode(e *encoder) {
	CheckoutResponse(r).encode(e)
}

func (r RenewAllResponse) encode(e *encoder) {
	e.bit(r.OK)
	e.count(r.RenewedCount, 4)
	e.count(r.UnrenewedCount, 4)
	e.date(r.TransactionDate)
	e.field("AO", r.InstitutionID)
	e.repeated("BM", r.RenewedItems)
	e.repeated("BN", r.UnrenewedItems)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (r EndSessionResponse) encode(e *encoder) {
	e.yn(r.EndSession)
	e.date(r.TransactionDate)
	e.field("AO", r.InstitutionID)
	e.field("AA", r.PatronIdentifier)
	e.messages(r.ScreenMessage, r.PrintLine)
}

func (SCResendResponse) encode(*encoder) {}

func twoChars(s, fallback string) string {
	if len(s) != 2 {
		return fallback
	}

	return s
}
