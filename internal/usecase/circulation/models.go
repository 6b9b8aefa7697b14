package circulation

import (
	"strings"
	"time"
)

// User is the subset of a backend user record the gateway reads.
type User struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	Barcode          string   `json:"barcode"`
	ExternalSystemID string   `json:"externalSystemId"`
	Active           bool     `json:"active"`
	PatronGroup      string   `json:"patronGroup"`
	Personal         Personal `json:"personal"`
}

// Personal -.
type Personal struct {
	LastName           string    `json:"lastName"`
	FirstName          string    `json:"firstName"`
	MiddleName         string    `json:"middleName"`
	PreferredFirstName string    `json:"preferredFirstName"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	MobilePhone        string    `json:"mobilePhone"`
	Addresses          []Address `json:"addresses"`
}

// Address -.
type Address struct {
	AddressLine1   string `json:"addressLine1"`
	AddressLine2   string `json:"addressLine2"`
	City           string `json:"city"`
	Region         string `json:"region"`
	PostalCode     string `json:"postalCode"`
	CountryID      string `json:"countryId"`
	PrimaryAddress bool   `json:"primaryAddress"`
}

// PersonalName renders "Last, First Middle", falling back to the username.
func (u *User) PersonalName() string {
	first := u.Personal.PreferredFirstName
	if first == "" {
		first = u.Personal.FirstName
	}

	given := strings.TrimSpace(strings.Join([]string{first, u.Personal.MiddleName}, " "))

	switch {
	case u.Personal.LastName != "" && given != "":
		return u.Personal.LastName + ", " + given
	case u.Personal.LastName != "":
		return u.Personal.LastName
	case given != "":
		return given
	default:
		return u.Username
	}
}

// HomeAddress renders the primary address (or the first one) on a single line.
func (u *User) HomeAddress() string {
	if len(u.Personal.Addresses) == 0 {
		return ""
	}

	a := u.Personal.Addresses[0]

	for _, candidate := range u.Personal.Addresses {
		if candidate.PrimaryAddress {
			a = candidate

			break
		}
	}

	parts := make([]string, 0, 5)

	for _, p := range []string{a.AddressLine1, a.AddressLine2, a.City, a.Region, a.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}

// Phone -.
func (u *User) Phone() string {
	if u.Personal.Phone != "" {
		return u.Personal.Phone
	}

	return u.Personal.MobilePhone
}

type userCollection struct {
	Users        []User `json:"users"`
	TotalRecords int    `json:"totalRecords"`
}

// Named is the {"name": ...} shape used for statuses, locations and types.
type Named struct {
	Name string `json:"name"`
}

// Item is the subset of an inventory item the gateway reads.
type Item struct {
	ID                string `json:"id"`
	Barcode           string `json:"barcode"`
	Title             string `json:"title"`
	Status            Named  `json:"status"`
	MaterialType      Named  `json:"materialType"`
	EffectiveLocation Named  `json:"effectiveLocation"`
	PermanentLocation Named  `json:"permanentLocation"`
	CallNumber        string `json:"callNumber"`
}

type itemCollection struct {
	Items        []Item `json:"items"`
	TotalRecords int    `json:"totalRecords"`
}

// LoanItem is the item summary embedded in a loan or request.
type LoanItem struct {
	Title   string `json:"title"`
	Barcode string `json:"barcode"`
	Status  Named  `json:"status"`
}

// Loan -.
type Loan struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ItemID       string    `json:"itemId"`
	DueDate      time.Time `json:"dueDate"`
	LoanDate     time.Time `json:"loanDate"`
	Status       Named     `json:"status"`
	Item         LoanItem  `json:"item"`
	RenewalCount int       `json:"renewalCount"`
}

// Title falls back to the barcode when the embedded item has no title.
func (l *Loan) Title() string {
	if l.Item.Title != "" {
		return l.Item.Title
	}

	return l.Item.Barcode
}

// LoanPage is one page of loans and the total across all pages.
type LoanPage struct {
	Loans        []Loan `json:"loans"`
	TotalRecords int    `json:"totalRecords"`
}

// Request types and statuses.
const (
	RequestTypeHold   = "Hold"
	RequestTypeRecall = "Recall"
	RequestTypePage   = "Page"

	RequestStatusAwaitingPickup = "Open - Awaiting pickup"
	RequestStatusNotYetFilled   = "Open - Not yet filled"
	RequestStatusInTransit      = "Open - In transit"
)

// Request is a hold, recall or page.
type Request struct {
	ID                      string    `json:"id"`
	RequestType             string    `json:"requestType"`
	Status                  string    `json:"status"`
	RequesterID             string    `json:"requesterId"`
	ItemID                  string    `json:"itemId"`
	RequestDate             time.Time `json:"requestDate"`
	HoldShelfExpirationDate time.Time `json:"holdShelfExpirationDate"`
	Position                int       `json:"position"`
	Item                    LoanItem  `json:"item"`
	Instance                struct {
		Title string `json:"title"`
	} `json:"instance"`
}

// Title prefers the instance title, then the item title.
func (r *Request) Title() string {
	switch {
	case r.Instance.Title != "":
		return r.Instance.Title
	case r.Item.Title != "":
		return r.Item.Title
	default:
		return r.Item.Barcode
	}
}

// RequestPage -.
type RequestPage struct {
	Requests     []Request `json:"requests"`
	TotalRecords int       `json:"totalRecords"`
}

// ManualBlock is an operator-imposed restriction.
type ManualBlock struct {
	ID             string    `json:"id"`
	Desc           string    `json:"desc"`
	PatronMessage  string    `json:"patronMessage"`
	Borrowing      bool      `json:"borrowing"`
	Renewals       bool      `json:"renewals"`
	Requests       bool      `json:"requests"`
	ExpirationDate time.Time `json:"expirationDate"`
}

type manualBlockCollection struct {
	ManualBlocks []ManualBlock `json:"manualblocks"`
	TotalRecords int           `json:"totalRecords"`
}

// AutomatedBlock is a block the backend derives from patron block limits.
type AutomatedBlock struct {
	Message        string `json:"message"`
	BlockBorrowing bool   `json:"blockBorrowing"`
	BlockRenewals  bool   `json:"blockRenewals"`
	BlockRequests  bool   `json:"blockRequests"`
}

type automatedBlockCollection struct {
	AutomatedPatronBlocks []AutomatedBlock `json:"automatedPatronBlocks"`
}

// Account is a fee or fine.
type Account struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Amount        float64 `json:"amount"`
	Remaining     float64 `json:"remaining"`
	FeeFineType   string  `json:"feeFineType"`
	Title         string  `json:"title"`
	Barcode       string  `json:"barcode"`
	Status        Named   `json:"status"`
	PaymentStatus Named   `json:"paymentStatus"`
	Metadata      struct {
		CreatedDate time.Time `json:"createdDate"`
	} `json:"metadata"`
}

// Description is the text shown in fine item lists.
func (a *Account) Description() string {
	desc := a.FeeFineType
	if a.Title != "" {
		desc += " " + a.Title
	}

	return strings.TrimSpace(desc)
}

type accountCollection struct {
	Accounts     []Account `json:"accounts"`
	TotalRecords int       `json:"totalRecords"`
}

type servicePointCollection struct {
	ServicePoints []struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	} `json:"servicepoints"`
}
