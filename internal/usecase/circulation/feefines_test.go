package circulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

func TestBlocksToStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		manual    []circulation.ManualBlock
		automated []circulation.AutomatedBlock
		want      entity.PatronStatus
		messages  int
	}{
		{
			name: "no blocks",
		},
		{
			name:     "manual borrowing",
			manual:   []circulation.ManualBlock{{Borrowing: true}},
			want:     entity.ChargePrivilegesDenied,
			messages: 1,
		},
		{
			name:      "automated requests",
			automated: []circulation.AutomatedBlock{{BlockRequests: true}},
			want:      entity.HoldPrivilegesDenied | entity.RecallPrivilegesDenied,
			messages:  1,
		},
		{
			name:      "combined across sources",
			manual:    []circulation.ManualBlock{{Borrowing: true}, {Renewals: true}},
			automated: []circulation.AutomatedBlock{{BlockRequests: true}},
			want:      entity.AllPatronStatus,
			messages:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, messages := circulation.BlocksToStatus(tc.manual, tc.automated)

			assert.Equal(t, tc.want, status)
			assert.Len(t, messages, tc.messages)
		})
	}
}

func TestGetManualBlocksSkipsExpired(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.manual = []object{
		{"id": "expired", "borrowing": true, "expirationDate": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)},
		{"id": "current", "renewals": true, "expirationDate": time.Now().Add(time.Hour).UTC().Format(time.RFC3339)},
		{"id": "open-ended", "requests": true},
	}
	r := newResources(t, f, &staticTokens{})

	blocks, err := r.feeFines.GetManualBlocks(context.Background(), testToken, "u-1")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "current", blocks[0].ID)
	assert.Equal(t, "open-ended", blocks[1].ID)
}

func TestPayOldestFirst(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.accounts = []object{
		{"id": "newer", "remaining": 3.0, "metadata": object{"createdDate": "2024-02-01T00:00:00Z"}},
		{"id": "older", "remaining": 5.0, "metadata": object{"createdDate": "2024-01-01T00:00:00Z"}},
	}
	r := newResources(t, f, &staticTokens{})

	res, err := r.feeFines.Pay(context.Background(), testToken, circulation.Payment{
		UserID:        "u-1",
		Amount:        "6.00",
		PaymentMethod: "Cash",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(600), res.Paid)
	assert.Equal(t, []string{"older", "newer"}, res.Accounts)
	assert.Equal(t, []payment{
		{AccountID: "older", Amount: "5.00"},
		{AccountID: "newer", Amount: "1.00"},
	}, f.paid)
}

func TestPayCapsAtAmountOwed(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.accounts = []object{{"id": "only", "remaining": 2.0}}
	r := newResources(t, f, &staticTokens{})

	res, err := r.feeFines.Pay(context.Background(), testToken, circulation.Payment{UserID: "u-1", Amount: "10"})
	require.NoError(t, err)

	assert.Equal(t, int64(200), res.Paid)
	assert.Equal(t, []payment{{AccountID: "only", Amount: "2.00"}}, f.paid)
}

func TestPayByFeeIdentifier(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.accounts = []object{
		{"id": "a-1", "remaining": 3.0},
		{"id": "a-2", "remaining": 4.0},
	}
	r := newResources(t, f, &staticTokens{})

	res, err := r.feeFines.Pay(context.Background(), testToken, circulation.Payment{UserID: "u-1", Amount: "4.00", FeeID: "a-2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a-2"}, res.Accounts)
	assert.Equal(t, []payment{{AccountID: "a-2", Amount: "4.00"}}, f.paid)
}

func TestPayErrors(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	r := newResources(t, f, &staticTokens{})

	_, err := r.feeFines.Pay(context.Background(), testToken, circulation.Payment{UserID: "u-1", Amount: "abc"})
	require.ErrorIs(t, err, circulation.ErrInvalidAmount)
	assert.Zero(t, f.total())

	_, err = r.feeFines.Pay(context.Background(), testToken, circulation.Payment{UserID: "u-1", Amount: "1.00"})
	require.ErrorIs(t, err, circulation.ErrNothingToPay)
}

func TestParseAndFormatCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "12.50", want: 1250, ok: true},
		{in: "0.1", want: 10, ok: true},
		{in: " 3 ", want: 300, ok: true},
		{in: "0", ok: false},
		{in: "-1.00", ok: false},
		{in: "", ok: false},
	}

	for _, tc := range tests {
		got, err := circulation.ParseCents(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, circulation.ErrInvalidAmount, tc.in)

			continue
		}

		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	assert.Equal(t, "12.05", circulation.FormatCents(1205))
	assert.Equal(t, "0.00", circulation.FormatCents(0))
	assert.Equal(t, "-1.50", circulation.FormatCents(-150))
}

func TestCirculationStatusOf(t *testing.T) {
	t.Parallel()

	tests := map[string]sip2.CirculationStatus{
		"Available":       sip2.CirculationAvailable,
		"Checked out":     sip2.CirculationCharged,
		"Awaiting pickup": sip2.CirculationWaitingOnHoldShelf,
		"In transit":      sip2.CirculationInTransit,
		"Declared lost":   sip2.CirculationLost,
		"Missing":         sip2.CirculationMissing,
		"Withdrawn":       sip2.CirculationOther,
		"":                sip2.CirculationOther,
	}

	for name, want := range tests {
		assert.Equal(t, want, circulation.CirculationStatusOf(name), name)
	}
}

func TestGetItemByBarcode(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.items = []object{{"id": "i-1", "barcode": "b-1", "title": "Book", "status": object{"name": "Available"}}}
	r := newResources(t, f, &staticTokens{})

	_, err := r.items.GetItemByBarcode(context.Background(), testToken, "nope")
	require.ErrorIs(t, err, circulation.ErrItemNotFound)

	item, err := r.items.GetItemByBarcode(context.Background(), testToken, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Book", item.Title)
	assert.Equal(t, "Available", item.Status.Name)
}
