package sip2

import (
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
)

// Response is one of the SIP2 responses the gateway sends. The set is closed:
// only types in this package implement it.
type Response interface {
	Code() string
	encode(e *encoder)
}

// Tristate is a Y/N/U fixed field.
type Tristate byte

const (
	TristateYes     Tristate = 'Y'
	TristateNo      Tristate = 'N'
	TristateUnknown Tristate = 'U'
)

// CirculationStatus is the two-digit item circulation status.
type CirculationStatus string

const (
	CirculationOther              CirculationStatus = "01"
	CirculationOnOrder            CirculationStatus = "02"
	CirculationAvailable          CirculationStatus = "03"
	CirculationCharged            CirculationStatus = "04"
	CirculationChargedRecall      CirculationStatus = "05"
	CirculationInProcess          CirculationStatus = "06"
	CirculationRecalled           CirculationStatus = "07"
	CirculationWaitingOnHoldShelf CirculationStatus = "08"
	CirculationWaitingReshelving  CirculationStatus = "09"
	CirculationInTransit          CirculationStatus = "10"
	CirculationClaimedReturned    CirculationStatus = "11"
	CirculationLost               CirculationStatus = "12"
	CirculationMissing            CirculationStatus = "13"
)

// SupportedMessages is the BX field of the ACS status response, in protocol order.
type SupportedMessages struct {
	PatronStatusRequest bool
	Checkout            bool
	Checkin             bool
	BlockPatron         bool
	SCACSStatus         bool
	RequestSCACSResend  bool
	Login               bool
	PatronInformation   bool
	EndPatronSession    bool
	FeePaid             bool
	ItemInformation     bool
	ItemStatusUpdate    bool
	PatronEnable        bool
	Hold                bool
	Renew               bool
	RenewAll            bool
}

// LoginResponse -.
type LoginResponse struct {
	OK bool
}

// ACSStatusResponse -.
type ACSStatusResponse struct {
	OnlineStatus      bool
	CheckinOK         bool
	CheckoutOK        bool
	ACSRenewalPolicy  bool
	StatusUpdateOK    bool
	OfflineOK         bool
	TimeoutPeriod     int
	RetriesAllowed    int
	DateTimeSync      time.Time
	ProtocolVersion   string
	InstitutionID     string
	LibraryName       string
	SupportedMessages SupportedMessages
	TerminalLocation  string
	ScreenMessage     []string
	PrintLine         []string
}

// CheckoutResponse -.
type CheckoutResponse struct {
	OK               bool
	RenewalOK        bool
	MagneticMedia    Tristate
	Desensitize      Tristate
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string
	ItemIdentifier   string
	TitleIdentifier  string
	DueDate          time.Time
	FeeType          string
	SecurityInhibit  bool
	CurrencyType     string
	FeeAmount        string
	MediaType        string
	ItemProperties   string
	TransactionID    string
	ScreenMessage    []string
	PrintLine        []string
}

// CheckinResponse -.
type CheckinResponse struct {
	OK                bool
	Resensitize       bool
	MagneticMedia     Tristate
	Alert             bool
	TransactionDate   time.Time
	InstitutionID     string
	ItemIdentifier    string
	PermanentLocation string
	TitleIdentifier   string
	SortBin           string
	PatronIdentifier  string
	MediaType         string
	ItemProperties    string
	ScreenMessage     []string
	PrintLine         []string
}

// PatronStatusResponse -.
type PatronStatusResponse struct {
	PatronStatus        entity.PatronStatus
	Language            string
	TransactionDate     time.Time
	InstitutionID       string
	PatronIdentifier    string
	PersonalName        string
	ValidPatron         *bool
	ValidPatronPassword *bool
	CurrencyType        string
	FeeAmount           string
	ScreenMessage       []string
	PrintLine           []string
}

// PatronInformationResponse -.
type PatronInformationResponse struct {
	PatronStatus          entity.PatronStatus
	Language              string
	TransactionDate       time.Time
	HoldItemsCount        int
	OverdueItemsCount     int
	ChargedItemsCount     int
	FineItemsCount        int
	RecallItemsCount      int
	UnavailableHoldsCount int
	InstitutionID         string
	PatronIdentifier      string
	PersonalName          string
	HoldItemsLimit        *int
	OverdueItemsLimit     *int
	ChargedItemsLimit     *int
	ValidPatron           *bool
	ValidPatronPassword   *bool
	CurrencyType          string
	FeeAmount             string
	FeeLimit              string
	HoldItems             []string
	OverdueItems          []string
	ChargedItems          []string
	FineItems             []string
	RecallItems           []string
	UnavailableHoldItems  []string
	HomeAddress           string
	EmailAddress          string
	HomePhoneNumber       string
	ScreenMessage         []string
	PrintLine             []string
}

// FeePaidResponse -.
type FeePaidResponse struct {
	PaymentAccepted  bool
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string
	TransactionID    string
	ScreenMessage    []string
	PrintLine        []string
}

// ItemInformationResponse -.
type ItemInformationResponse struct {
	CirculationStatus CirculationStatus
	SecurityMarker    string
	FeeType           string
	TransactionDate   time.Time
	HoldQueueLength   *int
	DueDate           time.Time
	RecallDate        time.Time
	HoldPickupDate    time.Time
	ItemIdentifier    string
	TitleIdentifier   string
	Owner             string
	CurrencyType      string
	FeeAmount         string
	MediaType         string
	PermanentLocation string
	CurrentLocation   string
	ItemProperties    string
	ScreenMessage     []string
	PrintLine         []string
}

// RenewResponse -.
type RenewResponse struct {
	OK               bool
	RenewalOK        bool
	MagneticMedia    Tristate
	Desensitize      Tristate
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string
	ItemIdentifier   string
	TitleIdentifier  string
	DueDate          time.Time
	FeeType          string
	SecurityInhibit  bool
	CurrencyType     string
	FeeAmount        string
	MediaType        string
	ItemProperties   string
	TransactionID    string
	ScreenMessage    []string
	PrintLine        []string
}

// RenewAllResponse -.
type RenewAllResponse struct {
	OK              bool
	RenewedCount    int
	UnrenewedCount  int
	TransactionDate time.Time
	InstitutionID   string
	RenewedItems    []string
	UnrenewedItems  []string
	ScreenMessage   []string
	PrintLine       []string
}

// EndSessionResponse -.
type EndSessionResponse struct {
	EndSession       bool
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string
	ScreenMessage    []string
	PrintLine        []string
}

// SCResendResponse asks the terminal to send its last message again.
type SCResendResponse struct{}

func (LoginResponse) Code() string             { return "94" }
func (ACSStatusResponse) Code() string         { return "98" }
func (CheckoutResponse) Code() string          { return "12" }
func (CheckinResponse) Code() string           { return "10" }
func (PatronStatusResponse) Code() string      { return "24" }
func (PatronInformationResponse) Code() string { return "64" }
func (FeePaidResponse) Code() string           { return "38" }
func (ItemInformationResponse) Code() string   { return "18" }
func (RenewResponse) Code() string             { return "30" }
func (RenewAllResponse) Code() string          { return "66" }
func (EndSessionResponse) Code() string        { return "36" }
func (SCResendResponse) Code() string          { return "96" }

// Bool returns a pointer to b for the optional Y/N fields.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to n for the optional numeric fields.
func Int(n int) *int {
	return &n
}
