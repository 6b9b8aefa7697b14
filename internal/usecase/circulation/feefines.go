package circulation

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
)

const (
	resourceBlocks   = "blocks"
	resourceAccounts = "accounts"

	// BlockedPatronMessage is the single screen line shown for any block.
	BlockedPatronMessage = "Patron blocked from borrowing, renewing or requesting. Please see a staff member for assistance."

	maxAccounts = 1000
)

// FeeFinesResource covers blocks and fee/fine accounts.
type FeeFinesResource struct {
	client *Client
	now    func() time.Time
}

// NewFeeFinesResource -.
func NewFeeFinesResource(c *Client) *FeeFinesResource {
	return &FeeFinesResource{client: c, now: time.Now}
}

// GetManualBlocks returns the user's unexpired manual blocks.
func (r *FeeFinesResource) GetManualBlocks(ctx context.Context, tok auth.Token, userID string) ([]ManualBlock, error) {
	var blocks manualBlockCollection
	if err := r.client.Get(ctx, tok, resourceBlocks, "/manualblocks", pageQuery("(userId=="+cqlString(userID)+")", 0, maxAccounts), &blocks); err != nil {
		return nil, err
	}

	now := r.now()
	active := make([]ManualBlock, 0, len(blocks.ManualBlocks))

	for _, b := range blocks.ManualBlocks {
		if !b.ExpirationDate.IsZero() && b.ExpirationDate.Before(now) {
			continue
		}

		active = append(active, b)
	}

	return active, nil
}

// GetAutomatedBlocks returns the blocks the backend derives from patron limits.
func (r *FeeFinesResource) GetAutomatedBlocks(ctx context.Context, tok auth.Token, userID string) ([]AutomatedBlock, error) {
	var blocks automatedBlockCollection
	if err := r.client.Get(ctx, tok, resourceBlocks, "/automated-patron-blocks/"+url.PathEscape(userID), nil, &blocks); err != nil {
		return nil, err
	}

	return blocks.AutomatedPatronBlocks, nil
}

// GetOpenAccounts returns the user's open fees and fines, oldest first.
func (r *FeeFinesResource) GetOpenAccounts(ctx context.Context, tok auth.Token, userID string) ([]Account, error) {
	cql := "(userId==" + cqlString(userID) + ` and status.name=="Open") sortBy metadata.createdDate/sort.ascending`

	var accounts accountCollection
	if err := r.client.Get(ctx, tok, resourceAccounts, "/accounts", pageQuery(cql, 0, maxAccounts), &accounts); err != nil {
		return nil, err
	}

	sort.SliceStable(accounts.Accounts, func(i, j int) bool {
		return accounts.Accounts[i].Metadata.CreatedDate.Before(accounts.Accounts[j].Metadata.CreatedDate)
	})

	return accounts.Accounts, nil
}

// TotalRemaining sums the outstanding amount of accounts in cents.
func TotalRemaining(accounts []Account) int64 {
	var total int64

	for i := range accounts {
		total += toCents(accounts[i].Remaining)
	}

	return total
}

// Payment describes a fee paid at the terminal.
type Payment struct {
	UserID         string
	Amount         string
	PaymentMethod  string
	ServicePointID string
	UserName       string
	FeeID          string
	TransactionID  string
}

// PaymentResult reports the accounts a payment was applied to.
type PaymentResult struct {
	Paid     int64
	Accounts []string
}

type payRequest struct {
	Amount          string `json:"amount"`
	PaymentMethod   string `json:"paymentMethod"`
	NotifyPatron    bool   `json:"notifyPatron"`
	ServicePointID  string `json:"servicePointId"`
	UserName        string `json:"userName"`
	TransactionInfo string `json:"transactionInfo,omitempty"`
}

// Pay applies the amount to the referenced account, or across the open
// accounts oldest first. Amounts beyond what is owed are not applied.
func (r *FeeFinesResource) Pay(ctx context.Context, tok auth.Token, p Payment) (PaymentResult, error) {
	left, err := ParseCents(p.Amount)
	if err != nil {
		return PaymentResult{}, err
	}

	accounts, err := r.GetOpenAccounts(ctx, tok, p.UserID)
	if err != nil {
		return PaymentResult{}, err
	}

	if p.FeeID != "" {
		accounts = filterAccount(accounts, p.FeeID)
	}

	res := PaymentResult{Accounts: []string{}}

	for i := range accounts {
		if left <= 0 {
			break
		}

		owed := toCents(accounts[i].Remaining)
		if owed <= 0 {
			continue
		}

		pay := owed
		if left < owed {
			pay = left
		}

		body := payRequest{
			Amount:          FormatCents(pay),
			PaymentMethod:   p.PaymentMethod,
			ServicePointID:  p.ServicePointID,
			UserName:        p.UserName,
			TransactionInfo: p.TransactionID,
		}

		if err := r.client.Post(ctx, tok, resourceAccounts, "/accounts/"+url.PathEscape(accounts[i].ID)+"/pay", body, nil); err != nil {
			if res.Paid > 0 {
				// Earlier accounts are already paid; report what was applied.
				return res, nil
			}

			return PaymentResult{}, err
		}

		left -= pay
		res.Paid += pay
		res.Accounts = append(res.Accounts, accounts[i].ID)
	}

	if res.Paid == 0 {
		return res, ErrNothingToPay
	}

	return res, nil
}

func filterAccount(accounts []Account, id string) []Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return accounts[i : i+1]
		}
	}

	return nil
}

// BlocksToStatus maps blocks onto patron status flags. Borrowing blocks deny
// charging, renewal blocks deny renewing and request blocks deny holds and
// recalls. A patron blocked in all three ways gets every flag. Any block adds
// the single blocked-patron screen message.
func BlocksToStatus(manual []ManualBlock, automated []AutomatedBlock) (entity.PatronStatus, []string) {
	var borrowing, renewals, requests bool

	for _, b := range manual {
		borrowing = borrowing || b.Borrowing
		renewals = renewals || b.Renewals
		requests = requests || b.Requests
	}

	for _, b := range automated {
		borrowing = borrowing || b.BlockBorrowing
		renewals = renewals || b.BlockRenewals
		requests = requests || b.BlockRequests
	}

	if borrowing && renewals && requests {
		return entity.AllPatronStatus, []string{BlockedPatronMessage}
	}

	var status entity.PatronStatus

	if borrowing {
		status = status.With(entity.ChargePrivilegesDenied)
	}

	if renewals {
		status = status.With(entity.RenewalPrivilegesDenied)
	}

	if requests {
		status = status.With(entity.HoldPrivilegesDenied | entity.RecallPrivilegesDenied)
	}

	if status.IsEmpty() {
		return status, nil
	}

	return status, []string{BlockedPatronMessage}
}

// ParseCents reads a positive decimal amount such as "12.5" into cents.
func ParseCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return toCents(f), nil
}

// FormatCents renders cents as a decimal amount with two places.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}

	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func toCents(f float64) int64 {
	return int64(math.Round(f * 100))
}
