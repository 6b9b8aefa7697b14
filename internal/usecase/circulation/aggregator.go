package circulation

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

const (
	// InvalidPatronMessage is shown when no usable patron record matches the identifier.
	InvalidPatronMessage = "Your library card number cannot be located. Please see a staff member for assistance."
	// InvalidPasswordMessage is shown when the patron password does not verify.
	InvalidPasswordMessage = "Your patron password is not valid. Please see a staff member for assistance."

	// DefaultMaxItems bounds an item list when no window is requested.
	DefaultMaxItems = 25

	// maxRecallScan bounds the loans checked for recalls.
	maxRecallScan = 100
)

// PatronQuery is what a patron status or information command asks for.
type PatronQuery struct {
	PatronIdentifier string
	PatronPassword   string
	Summary          sip2.Summary
	StartItem        int
	EndItem          int
}

// Category is one itemized patron category. Items is never nil.
type Category struct {
	Count int
	Items []string
}

// PatronInformation is the merged view of a patron across resources. It is
// built per command and never cached.
type PatronInformation struct {
	User                *User
	PatronIdentifier    string
	PersonalName        string
	ValidPatron         bool
	ValidPatronPassword *bool
	Status              entity.PatronStatus
	FeeAmount           int64

	Holds            Category
	Overdue          Category
	Charged          Category
	Fines            Category
	Recalls          Category
	UnavailableHolds Category

	HomeAddress   string
	Email         string
	Phone         string
	ScreenMessage []string
}

func newPatronInformation(id string) *PatronInformation {
	return &PatronInformation{
		PatronIdentifier: id,
		Holds:            emptyCategory(),
		Overdue:          emptyCategory(),
		Charged:          emptyCategory(),
		Fines:            emptyCategory(),
		Recalls:          emptyCategory(),
		UnavailableHolds: emptyCategory(),
		ScreenMessage:    []string{},
	}
}

func emptyCategory() Category {
	return Category{Items: []string{}}
}

// Window is the 1-based inclusive [Start, End] range of a requested item list.
type Window struct {
	Start int
	End   int
}

// NewWindow normalizes the requested range. A zero start means 1 and a zero
// end means maxItems entries from start. Ranges longer than maxItems are cut.
// The result is empty when end precedes start.
func NewWindow(start, end, maxItems int) Window {
	if maxItems < 1 {
		maxItems = DefaultMaxItems
	}

	if start <= 0 {
		start = 1
	}

	if end <= 0 {
		end = start + maxItems - 1
	}

	if end-start+1 > maxItems {
		end = start + maxItems - 1
	}

	return Window{Start: start, End: end}
}

// Empty reports whether the window selects nothing.
func (w Window) Empty() bool {
	return w.End < w.Start
}

// Offset is the 0-based offset of the first entry.
func (w Window) Offset() int {
	return w.Start - 1
}

// Limit is the number of entries in the window.
func (w Window) Limit() int {
	if w.Empty() {
		return 0
	}

	return w.End - w.Start + 1
}

// Slice applies the window to a complete list.
func Slice[T any](list []T, w Window) []T {
	if w.Empty() || w.Offset() >= len(list) {
		return nil
	}

	end := w.End
	if end > len(list) {
		end = len(list)
	}

	return list[w.Offset():end]
}

// Aggregator fans a patron command out to the backend resources and merges
// the results.
type Aggregator struct {
	tokens         TokenResolver
	profiles       *ProfileResource
	circulation    *CirculationResource
	feeFines       *FeeFinesResource
	log            logger.Interface
	maxItems       int
	maxConcurrency int
}

// NewAggregator -.
func NewAggregator(tokens TokenResolver, profiles *ProfileResource, circulation *CirculationResource,
	feeFines *FeeFinesResource, log logger.Interface, maxItems, maxConcurrency int,
) *Aggregator {
	if maxItems < 1 {
		maxItems = DefaultMaxItems
	}

	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	return &Aggregator{
		tokens:         tokens,
		profiles:       profiles,
		circulation:    circulation,
		feeFines:       feeFines,
		log:            log,
		maxItems:       maxItems,
		maxConcurrency: maxConcurrency,
	}
}

// MaxItems is the configured bound of item lists.
func (a *Aggregator) MaxItems() int {
	return a.maxItems
}

// PatronInformation builds the counts and the one itemized category the
// terminal asked for. Only a failure to obtain a token is returned as an
// error; everything else degrades into the result.
func (a *Aggregator) PatronInformation(ctx context.Context, s *entity.Session, q PatronQuery) (*PatronInformation, error) {
	tok, err := a.tokens.ResolveAccessToken(ctx, s)
	if err != nil {
		return nil, err
	}

	info, ok := a.identify(ctx, s, tok, q)
	if !ok {
		return info, nil
	}

	userID := info.User.ID
	window := NewWindow(q.StartItem, q.EndItem, a.maxItems)

	// Item lists are only fetched for the selected category; the others
	// ask for the total alone.
	pick := func(summary sip2.Summary) Window {
		if q.Summary == summary {
			return window
		}

		return Window{Start: 1, End: 0}
	}

	var (
		manual      []ManualBlock
		automated   []AutomatedBlock
		accounts    []Account
		charged     LoanPage
		overdue     LoanPage
		holds       RequestPage
		unavailable RequestPage
		recalls     []Loan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)

	a.degrade(g, resourceBlocks, func() (err error) {
		manual, err = a.feeFines.GetManualBlocks(gctx, tok, userID)

		return err
	})
	a.degrade(g, resourceBlocks, func() (err error) {
		automated, err = a.feeFines.GetAutomatedBlocks(gctx, tok, userID)

		return err
	})
	a.degrade(g, resourceAccounts, func() (err error) {
		accounts, err = a.feeFines.GetOpenAccounts(gctx, tok, userID)

		return err
	})
	a.degrade(g, resourceLoans, func() (err error) {
		w := pick(sip2.SummaryChargedItems)
		charged, err = a.circulation.GetOpenLoans(gctx, tok, userID, w.Offset(), w.Limit())

		return err
	})
	a.degrade(g, resourceLoans, func() (err error) {
		w := pick(sip2.SummaryOverdueItems)
		overdue, err = a.circulation.GetOverdueLoans(gctx, tok, userID, w.Offset(), w.Limit())

		return err
	})
	a.degrade(g, resourceRequests, func() (err error) {
		w := pick(sip2.SummaryHoldItems)
		holds, err = a.circulation.GetRequestsByUser(gctx, tok, userID, AllHolds, w.Offset(), w.Limit())

		return err
	})
	a.degrade(g, resourceRequests, func() (err error) {
		w := pick(sip2.SummaryUnavailableHolds)
		unavailable, err = a.circulation.GetRequestsByUser(gctx, tok, userID, UnavailableHolds, w.Offset(), w.Limit())

		return err
	})

	if q.Summary == sip2.SummaryRecallItems {
		a.degrade(g, resourceRequests, func() error {
			loans, err := a.circulation.GetOpenLoans(gctx, tok, userID, 0, maxRecallScan)
			if err != nil {
				return err
			}

			recalls = a.circulation.GetRecallsForLoans(gctx, tok, loans.Loans)

			return nil
		})
	}

	_ = g.Wait()

	status, messages := BlocksToStatus(manual, automated)
	info.Status = info.Status.With(status)
	info.ScreenMessage = append(info.ScreenMessage, messages...)
	info.FeeAmount = TotalRemaining(accounts)

	info.Charged = Category{Count: charged.TotalRecords, Items: loanTitles(charged.Loans)}
	info.Overdue = Category{Count: overdue.TotalRecords, Items: loanTitles(overdue.Loans)}
	info.Holds = Category{Count: holds.TotalRecords, Items: requestTitles(holds.Requests)}
	info.UnavailableHolds = Category{Count: unavailable.TotalRecords, Items: requestTitles(unavailable.Requests)}
	info.Fines = Category{Count: len(accounts), Items: []string{}}
	info.Recalls = Category{Count: len(recalls), Items: []string{}}

	switch q.Summary {
	case sip2.SummaryFineItems:
		for _, acc := range Slice(accounts, window) {
			info.Fines.Items = append(info.Fines.Items, FormatCents(toCents(acc.Remaining))+" "+acc.Description())
		}
	case sip2.SummaryRecallItems:
		info.Recalls.Items = loanTitles(Slice(recalls, window))
	case sip2.SummaryNone, sip2.SummaryHoldItems, sip2.SummaryOverdueItems,
		sip2.SummaryChargedItems, sip2.SummaryUnavailableHolds:
	}

	return info, nil
}

// PatronStatus is PatronInformation without item lists or counts.
func (a *Aggregator) PatronStatus(ctx context.Context, s *entity.Session, q PatronQuery) (*PatronInformation, error) {
	tok, err := a.tokens.ResolveAccessToken(ctx, s)
	if err != nil {
		return nil, err
	}

	info, ok := a.identify(ctx, s, tok, q)
	if !ok {
		return info, nil
	}

	userID := info.User.ID

	var (
		manual    []ManualBlock
		automated []AutomatedBlock
		accounts  []Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)

	a.degrade(g, resourceBlocks, func() (err error) {
		manual, err = a.feeFines.GetManualBlocks(gctx, tok, userID)

		return err
	})
	a.degrade(g, resourceBlocks, func() (err error) {
		automated, err = a.feeFines.GetAutomatedBlocks(gctx, tok, userID)

		return err
	})
	a.degrade(g, resourceAccounts, func() (err error) {
		accounts, err = a.feeFines.GetOpenAccounts(gctx, tok, userID)

		return err
	})

	_ = g.Wait()

	status, messages := BlocksToStatus(manual, automated)
	info.Status = info.Status.With(status)
	info.ScreenMessage = append(info.ScreenMessage, messages...)
	info.FeeAmount = TotalRemaining(accounts)

	return info, nil
}

// EndPatronSession acknowledges the end of a patron's transaction. The
// backend keeps no per-patron session, so this always succeeds.
func (a *Aggregator) EndPatronSession(_ context.Context, _ *entity.Session, patronIdentifier string) bool {
	a.log.Debug("patron session ended for %s", patronIdentifier)

	return true
}

// identify looks up the patron and checks the password. It returns false
// when the result is final: the patron is invalid or the password did not
// verify where verification is required.
func (a *Aggregator) identify(ctx context.Context, s *entity.Session, tok auth.Token, q PatronQuery) (*PatronInformation, bool) {
	info := newPatronInformation(q.PatronIdentifier)

	user, err := a.profiles.GetUserByIdentifier(ctx, tok, q.PatronIdentifier)
	if err != nil {
		if !errors.Is(err, ErrInvalidPatron) {
			a.log.Warn("patron lookup for %s failed: %v", q.PatronIdentifier, err)
		}

		info.Status = entity.AllPatronStatus
		info.PersonalName = q.PatronIdentifier
		info.ScreenMessage = []string{InvalidPatronMessage}

		return info, false
	}

	info.User = user
	info.ValidPatron = true
	info.PersonalName = user.PersonalName()
	info.HomeAddress = user.HomeAddress()
	info.Email = user.Personal.Email
	info.Phone = user.Phone()

	if q.PatronPassword == "" && !s.PatronPasswordVerificationRequired {
		return info, true
	}

	valid, err := a.profiles.VerifyPin(ctx, tok, user.ID, q.PatronPassword)
	if err != nil {
		a.log.Warn("pin verification for %s failed: %v", user.ID, err)
	}

	info.ValidPatronPassword = sip2.Bool(valid)

	if !valid && s.PatronPasswordVerificationRequired {
		info.Status = entity.AllPatronStatus
		info.ScreenMessage = []string{InvalidPasswordMessage}

		return info, false
	}

	return info, true
}

func (a *Aggregator) degrade(g *errgroup.Group, resource string, fn func() error) {
	g.Go(func() error {
		if err := fn(); err != nil {
			degradedCalls.WithLabelValues(resource).Inc()
			a.log.Warn("%s lookup failed, continuing without it: %v", resource, err)
		}

		return nil
	})
}

func loanTitles(loans []Loan) []string {
	out := make([]string, 0, len(loans))

	for i := range loans {
		out = append(out, loans[i].Title())
	}

	return out
}

func requestTitles(requests []Request) []string {
	out := make([]string, 0, len(requests))

	for i := range requests {
		out = append(out, requests[i].Title())
	}

	return out
}
