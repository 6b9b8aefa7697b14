package circulation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const (
	resourceLoans    = "loans"
	resourceRequests = "requests"
	resourceCheckout = "check-out"
	resourceCheckin  = "check-in"
	resourceRenew    = "renew"

	openRequests = `status="Open*"`
)

// RequestFilter narrows the requests of a user.
type RequestFilter int

const (
	// AllHolds is every open hold.
	AllHolds RequestFilter = iota
	// AvailableHolds are holds waiting on the hold shelf.
	AvailableHolds
	// UnavailableHolds are holds not yet filled or still in transit.
	UnavailableHolds
)

// CirculationResource covers loans, requests and the circulation actions.
type CirculationResource struct {
	client         *Client
	log            logger.Interface
	maxConcurrency int
	now            func() time.Time
}

// NewCirculationResource -.
func NewCirculationResource(c *Client, log logger.Interface, maxConcurrency int) *CirculationResource {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	return &CirculationResource{client: c, log: log, maxConcurrency: maxConcurrency, now: time.Now}
}

// GetOpenLoans returns a page of the user's open loans, earliest due first.
func (r *CirculationResource) GetOpenLoans(ctx context.Context, tok auth.Token, userID string, offset, limit int) (LoanPage, error) {
	cql := "(userId==" + cqlString(userID) + ` and status.name=="Open") sortBy dueDate/sort.ascending`

	return r.loans(ctx, tok, cql, offset, limit)
}

// GetOverdueLoans returns a page of the user's open loans already past due.
func (r *CirculationResource) GetOverdueLoans(ctx context.Context, tok auth.Token, userID string, offset, limit int) (LoanPage, error) {
	due := r.now().UTC().Format(time.RFC3339)
	cql := "(userId==" + cqlString(userID) + ` and status.name=="Open" and dueDate<` + cqlString(due) + ") sortBy dueDate/sort.ascending"

	return r.loans(ctx, tok, cql, offset, limit)
}

func (r *CirculationResource) loans(ctx context.Context, tok auth.Token, cql string, offset, limit int) (LoanPage, error) {
	var page LoanPage
	if err := r.client.Get(ctx, tok, resourceLoans, "/circulation/loans", pageQuery(cql, offset, limit), &page); err != nil {
		return LoanPage{}, err
	}

	return page, nil
}

// GetRequestsByUser returns a page of the user's open holds matching filter.
func (r *CirculationResource) GetRequestsByUser(ctx context.Context, tok auth.Token, userID string, filter RequestFilter, offset, limit int) (RequestPage, error) {
	status := openRequests

	switch filter {
	case AvailableHolds:
		status = "status==" + cqlString(RequestStatusAwaitingPickup)
	case UnavailableHolds:
		status = "(status==" + cqlString(RequestStatusNotYetFilled) + " or status==" + cqlString(RequestStatusInTransit) + ")"
	case AllHolds:
	}

	cql := "(requesterId==" + cqlString(userID) + " and requestType==" + cqlString(RequestTypeHold) + " and " + status + ") sortBy requestDate/sort.ascending"

	return r.requests(ctx, tok, cql, offset, limit)
}

// GetRecallsByItem returns the open recall requests on an item.
func (r *CirculationResource) GetRecallsByItem(ctx context.Context, tok auth.Token, itemID string) (RequestPage, error) {
	cql := "(itemId==" + cqlString(itemID) + " and requestType==" + cqlString(RequestTypeRecall) + " and " + openRequests + ")"

	return r.requests(ctx, tok, cql, 0, 1)
}

// GetOpenRequestCount returns how many open requests are queued on an item.
func (r *CirculationResource) GetOpenRequestCount(ctx context.Context, tok auth.Token, itemID string) (int, error) {
	cql := "(itemId==" + cqlString(itemID) + " and " + openRequests + ")"

	page, err := r.requests(ctx, tok, cql, 0, 0)
	if err != nil {
		return 0, err
	}

	return page.TotalRecords, nil
}

func (r *CirculationResource) requests(ctx context.Context, tok auth.Token, cql string, offset, limit int) (RequestPage, error) {
	var page RequestPage
	if err := r.client.Get(ctx, tok, resourceRequests, "/circulation/requests", pageQuery(cql, offset, limit), &page); err != nil {
		return RequestPage{}, err
	}

	return page, nil
}

// GetRecallsForLoans returns the loans whose item has an open recall. Recall
// state is only known per item, so this makes one call per loan; a failed
// lookup counts as "not recalled".
func (r *CirculationResource) GetRecallsForLoans(ctx context.Context, tok auth.Token, loans []Loan) []Loan {
	recalled := make([]bool, len(loans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i := range loans {
		g.Go(func() error {
			page, err := r.GetRecallsByItem(gctx, tok, loans[i].ItemID)
			if err != nil {
				degradedCalls.WithLabelValues(resourceRequests).Inc()
				r.log.Warn("recall lookup for item %s failed: %v", loans[i].ItemID, err)

				return nil
			}

			recalled[i] = page.TotalRecords > 0 || len(page.Requests) > 0

			return nil
		})
	}

	_ = g.Wait()

	out := make([]Loan, 0, len(loans))

	for i, loan := range loans {
		if recalled[i] {
			out = append(out, loan)
		}
	}

	return out
}

type checkOutRequest struct {
	ItemBarcode    string `json:"itemBarcode"`
	UserBarcode    string `json:"userBarcode"`
	ServicePointID string `json:"servicePointId"`
	LoanDate       string `json:"loanDate,omitempty"`
}

// CheckOut lends the item to the patron at the service point.
func (r *CirculationResource) CheckOut(ctx context.Context, tok auth.Token, itemBarcode, userBarcode, servicePointID string) (*Loan, error) {
	body := checkOutRequest{
		ItemBarcode:    itemBarcode,
		UserBarcode:    userBarcode,
		ServicePointID: servicePointID,
		LoanDate:       r.now().UTC().Format(time.RFC3339),
	}

	var loan Loan
	if err := r.client.Post(ctx, tok, resourceCheckout, "/circulation/check-out-by-barcode", body, &loan); err != nil {
		return nil, err
	}

	return &loan, nil
}

type checkInRequest struct {
	ItemBarcode    string `json:"itemBarcode"`
	ServicePointID string `json:"servicePointId"`
	CheckInDate    string `json:"checkInDate"`
}

// CheckInResult is what the backend reports after a check-in.
type CheckInResult struct {
	Loan *Loan `json:"loan"`
	Item struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Barcode     string `json:"barcode"`
		Status      Named  `json:"status"`
		Location    Named  `json:"location"`
		Destination Named  `json:"inTransitDestinationServicePoint"`
	} `json:"item"`
}

// CheckIn returns the item at the service point.
func (r *CirculationResource) CheckIn(ctx context.Context, tok auth.Token, itemBarcode, servicePointID string, returned time.Time) (*CheckInResult, error) {
	if returned.IsZero() {
		returned = r.now()
	}

	body := checkInRequest{
		ItemBarcode:    itemBarcode,
		ServicePointID: servicePointID,
		CheckInDate:    returned.UTC().Format(time.RFC3339),
	}

	var res CheckInResult
	if err := r.client.Post(ctx, tok, resourceCheckin, "/circulation/check-in-by-barcode", body, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

type renewRequest struct {
	ItemBarcode string `json:"itemBarcode"`
	UserBarcode string `json:"userBarcode"`
}

// Renew extends the patron's loan of the item.
func (r *CirculationResource) Renew(ctx context.Context, tok auth.Token, itemBarcode, userBarcode string) (*Loan, error) {
	var loan Loan
	if err := r.client.Post(ctx, tok, resourceRenew, "/circulation/renew-by-barcode",
		renewRequest{ItemBarcode: itemBarcode, UserBarcode: userBarcode}, &loan); err != nil {
		return nil, err
	}

	return &loan, nil
}

// RenewAllResult lists item barcodes by outcome.
type RenewAllResult struct {
	Renewed   []string
	Unrenewed []string
}

// RenewAll renews every open loan of the patron, up to limit loans. Renewals
// run concurrently; each failure only marks its item unrenewed.
func (r *CirculationResource) RenewAll(ctx context.Context, tok auth.Token, userID, userBarcode string, limit int) (RenewAllResult, error) {
	page, err := r.GetOpenLoans(ctx, tok, userID, 0, limit)
	if err != nil {
		return RenewAllResult{}, err
	}

	renewed := make([]bool, len(page.Loans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i := range page.Loans {
		g.Go(func() error {
			if _, err := r.Renew(gctx, tok, page.Loans[i].Item.Barcode, userBarcode); err != nil {
				r.log.Debug("renewal of %s failed: %v", page.Loans[i].Item.Barcode, err)

				return nil
			}

			renewed[i] = true

			return nil
		})
	}

	_ = g.Wait()

	res := RenewAllResult{Renewed: []string{}, Unrenewed: []string{}}

	for i, loan := range page.Loans {
		if renewed[i] {
			res.Renewed = append(res.Renewed, loan.Item.Barcode)
		} else {
			res.Unrenewed = append(res.Unrenewed, loan.Item.Barcode)
		}
	}

	return res, nil
}

// GetServicePointID resolves a service point code sent at login to its id.
func (r *CirculationResource) GetServicePointID(ctx context.Context, tok auth.Token, code string) (string, error) {
	var sps servicePointCollection
	if err := r.client.Get(ctx, tok, "service-points", "/service-points", pageQuery("code=="+cqlString(code), 0, 1), &sps); err != nil {
		return "", err
	}

	if len(sps.ServicePoints) == 0 {
		return "", nil
	}

	return sps.ServicePoints[0].ID, nil
}

// GetOpenLoanByItem returns the open loan on an item, or nil when it is not on loan.
func (r *CirculationResource) GetOpenLoanByItem(ctx context.Context, tok auth.Token, itemID string) (*Loan, error) {
	page, err := r.loans(ctx, tok, "(itemId=="+cqlString(itemID)+` and status.name=="Open")`, 0, 1)
	if err != nil {
		return nil, err
	}

	if len(page.Loans) == 0 {
		return nil, nil
	}

	return &page.Loans[0], nil
}
