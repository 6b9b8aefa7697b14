package circulation_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

func assertAllListsEmpty(t *testing.T, info *circulation.PatronInformation) {
	t.Helper()

	for name, c := range map[string]circulation.Category{
		"hold":        info.Holds,
		"overdue":     info.Overdue,
		"charged":     info.Charged,
		"fine":        info.Fines,
		"recall":      info.Recalls,
		"unavailable": info.UnavailableHolds,
	} {
		assert.NotNil(t, c.Items, name)
		assert.Empty(t, c.Items, name)
	}
}

func TestPatronInformationInvalidPatron(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	r := newResources(t, f, &staticTokens{})

	info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{
		PatronIdentifier: "missing-patron",
		Summary:          sip2.SummaryChargedItems,
	})
	require.NoError(t, err)

	assert.False(t, info.ValidPatron)
	assert.Equal(t, entity.AllPatronStatus, info.Status)
	assert.Equal(t, "missing-patron", info.PersonalName)
	assert.Equal(t, []string{circulation.InvalidPatronMessage}, info.ScreenMessage)
	assertAllListsEmpty(t, info)

	// Only the profile lookup is made.
	assert.Equal(t, 1, f.count("users"))
	assert.Equal(t, 1, f.total())
}

func TestPatronInformationInactivePatron(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.users[0]["active"] = false
	r := newResources(t, f, &staticTokens{})

	info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{PatronIdentifier: "patron-1"})
	require.NoError(t, err)

	assert.False(t, info.ValidPatron)
	assert.Equal(t, 1, f.total())
}

func TestPatronInformationTokenFirst(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	tokens := &staticTokens{err: errors.New("login required")}
	r := newResources(t, f, tokens)

	info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{PatronIdentifier: "patron-1"})

	require.Error(t, err)
	assert.Nil(t, info)
	assert.Equal(t, int32(1), tokens.calls.Load())
	assert.Zero(t, f.total())
}

func TestPatronInformationBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                          string
		borrowing, renewals, requests bool
		status                        entity.PatronStatus
		blocked                       bool
	}{
		{
			name:      "all three",
			borrowing: true, renewals: true, requests: true,
			status:  entity.AllPatronStatus,
			blocked: true,
		},
		{
			name:     "renewals only",
			renewals: true,
			status:   entity.RenewalPrivilegesDenied,
			blocked:  true,
		},
		{
			name:     "requests only",
			requests: true,
			status:   entity.HoldPrivilegesDenied | entity.RecallPrivilegesDenied,
			blocked:  true,
		},
		{
			name: "none",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeBackend()
			f.manual = []object{{
				"id":        "block-1",
				"borrowing": tc.borrowing,
				"renewals":  tc.renewals,
				"requests":  tc.requests,
			}}
			r := newResources(t, f, &staticTokens{})

			info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{PatronIdentifier: "patron-1"})
			require.NoError(t, err)

			assert.True(t, info.ValidPatron)
			assert.Equal(t, tc.status, info.Status)

			if tc.blocked {
				assert.Equal(t, []string{circulation.BlockedPatronMessage}, info.ScreenMessage)
			} else {
				assert.Empty(t, info.ScreenMessage)
			}
		})
	}
}

func TestPatronInformationRecallSummary(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.holds = []object{
		{"id": "h-1", "requestType": "Hold", "instance": object{"title": "First Hold"}},
		{"id": "h-2", "requestType": "Hold", "instance": object{"title": "Second Hold"}},
	}
	f.openLoans = []object{
		{"id": "l-1", "itemId": "i-1", "item": object{"title": "Recalled Book", "barcode": "b-1"}},
		{"id": "l-2", "itemId": "i-2", "item": object{"title": "Quiet Book", "barcode": "b-2"}},
	}
	f.overdueLoans = []object{
		{"id": "l-2", "itemId": "i-2", "item": object{"title": "Quiet Book", "barcode": "b-2"}},
	}
	f.recalledItems["i-1"] = true
	r := newResources(t, f, &staticTokens{})

	info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{
		PatronIdentifier: "patron-1",
		Summary:          sip2.SummaryRecallItems,
		StartItem:        1,
		EndItem:          10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Doe, Jane", info.PersonalName)
	assert.Equal(t, 2, info.Holds.Count)
	assert.Equal(t, 1, info.Overdue.Count)
	assert.Equal(t, 2, info.Charged.Count)
	assert.Equal(t, 1, info.Recalls.Count)
	assert.Equal(t, []string{"Recalled Book"}, info.Recalls.Items)

	assert.Empty(t, info.Holds.Items)
	assert.Empty(t, info.Overdue.Items)
	assert.Empty(t, info.Charged.Items)
	assert.NotNil(t, info.Holds.Items)
}

func TestPatronInformationHoldWindow(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	for _, title := range []string{"A", "B", "C", "D"} {
		f.holds = append(f.holds, object{"requestType": "Hold", "instance": object{"title": title}})
	}

	r := newResources(t, f, &staticTokens{})

	info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{
		PatronIdentifier: "patron-1",
		Summary:          sip2.SummaryHoldItems,
		StartItem:        2,
		EndItem:          3,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, info.Holds.Count)
	assert.Equal(t, []string{"B", "C"}, info.Holds.Items)
	// Recalls are only computed when itemized.
	assert.Zero(t, info.Recalls.Count)
}

func TestPatronInformationDegradesFailedResources(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.failing["accounts"] = true
	f.failing["manualblocks"] = true
	f.openLoans = []object{{"id": "l-1", "itemId": "i-1", "item": object{"title": "Book"}}}
	r := newResources(t, f, &staticTokens{})

	info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{
		PatronIdentifier: "patron-1",
		Summary:          sip2.SummaryChargedItems,
	})
	require.NoError(t, err)

	assert.True(t, info.ValidPatron)
	assert.Zero(t, info.Fines.Count)
	assert.Zero(t, info.FeeAmount)
	assert.True(t, info.Status.IsEmpty())
	assert.Equal(t, []string{"Book"}, info.Charged.Items)
}

func TestPatronInformationPassword(t *testing.T) {
	t.Parallel()

	t.Run("verified", func(t *testing.T) {
		t.Parallel()

		r := newResources(t, newFakeBackend(), &staticTokens{})

		info, err := r.aggregator.PatronInformation(context.Background(), newSession(), circulation.PatronQuery{
			PatronIdentifier: "patron-1",
			PatronPassword:   "1234",
		})
		require.NoError(t, err)
		require.NotNil(t, info.ValidPatronPassword)
		assert.True(t, *info.ValidPatronPassword)
	})

	t.Run("required and wrong", func(t *testing.T) {
		t.Parallel()

		f := newFakeBackend()
		r := newResources(t, f, &staticTokens{})

		s := newSession()
		s.PatronPasswordVerificationRequired = true

		info, err := r.aggregator.PatronInformation(context.Background(), s, circulation.PatronQuery{
			PatronIdentifier: "patron-1",
			PatronPassword:   "0000",
		})
		require.NoError(t, err)
		require.NotNil(t, info.ValidPatronPassword)
		assert.False(t, *info.ValidPatronPassword)
		assert.Equal(t, entity.AllPatronStatus, info.Status)
		assert.Equal(t, []string{circulation.InvalidPasswordMessage}, info.ScreenMessage)
		assert.Zero(t, f.count("loans"))
	})
}

func TestPatronStatusFeeAmount(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.accounts = []object{
		{"id": "a-1", "remaining": 2.5},
		{"id": "a-2", "remaining": 1.25},
	}
	r := newResources(t, f, &staticTokens{})

	info, err := r.aggregator.PatronStatus(context.Background(), newSession(), circulation.PatronQuery{PatronIdentifier: "patron-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(375), info.FeeAmount)
	assert.Zero(t, f.count("loans"))
	assert.Zero(t, f.count("requests"))
}

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end int
		want       circulation.Window
		empty      bool
	}{
		{name: "defaults", want: circulation.Window{Start: 1, End: 10}},
		{name: "explicit", start: 1, end: 5, want: circulation.Window{Start: 1, End: 5}},
		{name: "start only", start: 3, want: circulation.Window{Start: 3, End: 12}},
		{name: "capped", start: 1, end: 50, want: circulation.Window{Start: 1, End: 10}},
		{name: "inverted", start: 5, end: 2, want: circulation.Window{Start: 5, End: 2}, empty: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := circulation.NewWindow(tc.start, tc.end, 10)

			assert.Equal(t, tc.want, w)
			assert.Equal(t, tc.empty, w.Empty())
		})
	}
}

func TestSlice(t *testing.T) {
	t.Parallel()

	list := []string{"a", "b", "c"}

	assert.Equal(t, []string{"b", "c"}, circulation.Slice(list, circulation.Window{Start: 2, End: 10}))
	assert.Empty(t, circulation.Slice(list, circulation.Window{Start: 4, End: 10}))
	assert.Empty(t, circulation.Slice(list, circulation.Window{Start: 3, End: 2}))
}

func TestClientSendsTenantHeadersAndQuery(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	r := newResources(t, f, &staticTokens{})

	_, err := r.circulation.GetOpenLoans(context.Background(), testToken, "u-1", 5, 10)
	require.NoError(t, err)

	q, err := url.ParseQuery(f.lastQuery("loans"))
	require.NoError(t, err)

	assert.Equal(t, "5", q.Get("offset"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Contains(t, q.Get("query"), `userId=="u-1"`)
}
