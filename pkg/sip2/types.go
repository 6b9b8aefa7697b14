// Package sip2 parses SIP2 request messages and renders SIP2 responses.
package sip2

import "time"

// CommandType is the two-character SIP2 message identifier.
type CommandType string

const (
	PatronStatusRequest CommandType = "23"
	Checkout            CommandType = "11"
	Checkin             CommandType = "09"
	BlockPatron         CommandType = "01"
	SCStatus            CommandType = "99"
	RequestACSResend    CommandType = "97"
	Login               CommandType = "93"
	PatronInformation   CommandType = "63"
	EndPatronSession    CommandType = "35"
	FeePaid             CommandType = "37"
	ItemInformation     CommandType = "17"
	ItemStatusUpdate    CommandType = "19"
	PatronEnable        CommandType = "25"
	Hold                CommandType = "15"
	Renew               CommandType = "29"
	RenewAll            CommandType = "65"
	Unknown             CommandType = ""
)

// NoSequenceNumber marks a command that carried no AY field.
const NoSequenceNumber = -1

// Command is a parsed request. Valid is false when the message could not be
// parsed or its checksum did not match; Payload is nil in that case.
type Command struct {
	Type           CommandType
	SequenceNumber int
	Checksum       string
	Valid          bool
	Raw            string
	Payload        interface{}
}

// Summary selects the single item category a patron information request wants itemized.
type Summary int

const (
	SummaryNone Summary = iota
	SummaryHoldItems
	SummaryOverdueItems
	SummaryChargedItems
	SummaryFineItems
	SummaryRecallItems
	SummaryUnavailableHolds
)

func (s Summary) String() string {
	switch s {
	case SummaryHoldItems:
		return "hold"
	case SummaryOverdueItems:
		return "overdue"
	case SummaryChargedItems:
		return "charged"
	case SummaryFineItems:
		return "fine"
	case SummaryRecallItems:
		return "recall"
	case SummaryUnavailableHolds:
		return "unavailable"
	case SummaryNone:
		return "none"
	default:
		return "none"
	}
}

// LoginRequest -.
type LoginRequest struct {
	UIDAlgorithm  byte
	PWDAlgorithm  byte
	LoginUserID   string `validate:"required"`
	LoginPassword string `validate:"required"`
	LocationCode  string
}

// SCStatusRequest -.
type SCStatusRequest struct {
	StatusCode      byte
	MaxPrintWidth   int
	ProtocolVersion string
}

// ACSResendRequest carries no fields.
type ACSResendRequest struct{}

// CheckoutRequest -.
type CheckoutRequest struct {
	SCRenewalPolicy  bool
	NoBlock          bool
	TransactionDate  time.Time
	NbDueDate        time.Time
	InstitutionID    string
	PatronIdentifier string `validate:"required"`
	ItemIdentifier   string `validate:"required"`
	TerminalPassword string
	ItemProperties   string
	PatronPassword   string
	FeeAcknowledged  bool
	Cancel           bool
}

// CheckinRequest -.
type CheckinRequest struct {
	NoBlock          bool
	TransactionDate  time.Time
	ReturnDate       time.Time
	CurrentLocation  string
	InstitutionID    string
	ItemIdentifier   string `validate:"required"`
	TerminalPassword string
	ItemProperties   string
	Cancel           bool
}

// PatronStatusRequestMessage -.
type PatronStatusRequestMessage struct {
	Language         string
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string `validate:"required"`
	TerminalPassword string
	PatronPassword   string
}

// PatronInformationRequest -.
type PatronInformationRequest struct {
	Language         string
	TransactionDate  time.Time
	Summary          Summary
	InstitutionID    string
	PatronIdentifier string `validate:"required"`
	TerminalPassword string
	PatronPassword   string
	StartItem        int
	EndItem          int
}

// FeePaidRequest -.
type FeePaidRequest struct {
	TransactionDate  time.Time
	FeeType          string
	PaymentType      string
	CurrencyType     string
	FeeAmount        string `validate:"required"`
	InstitutionID    string
	PatronIdentifier string `validate:"required"`
	TerminalPassword string
	PatronPassword   string
	FeeIdentifier    string
	TransactionID    string
}

// ItemInformationRequest -.
type ItemInformationRequest struct {
	TransactionDate  time.Time
	InstitutionID    string
	ItemIdentifier   string `validate:"required"`
	TerminalPassword string
}

// RenewRequest -.
type RenewRequest struct {
	ThirdPartyAllowed bool
	NoBlock           bool
	TransactionDate   time.Time
	NbDueDate         time.Time
	InstitutionID     string
	PatronIdentifier  string `validate:"required"`
	PatronPassword    string
	ItemIdentifier    string `validate:"required"`
	TitleIdentifier   string
	TerminalPassword  string
	ItemProperties    string
	FeeAcknowledged   bool
}

// RenewAllRequest -.
type RenewAllRequest struct {
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string `validate:"required"`
	PatronPassword   string
	TerminalPassword string
	FeeAcknowledged  bool
}

// EndPatronSessionRequest -.
type EndPatronSessionRequest struct {
	TransactionDate  time.Time
	InstitutionID    string
	PatronIdentifier string `validate:"required"`
	TerminalPassword string
	PatronPassword   string
}
