package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatronStatusField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status PatronStatus
		want   string
	}{
		{name: "empty", status: 0, want: "              "},
		{name: "all", status: AllPatronStatus, want: "YYYYYYYYYYYYYY"},
		{name: "renewal only", status: RenewalPrivilegesDenied, want: " Y            "},
		{name: "last position", status: TooManyItemsBilled, want: "             Y"},
		{
			name:   "set order does not matter",
			status: HoldPrivilegesDenied | ChargePrivilegesDenied,
			want:   "Y  Y          ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.status.Field())
			assert.Len(t, tc.status.Field(), PatronStatusPositions)
		})
	}
}

func TestPatronStatusFlagsInWireOrder(t *testing.T) {
	t.Parallel()

	s := PatronStatus(0).With(TooManyItemsBilled).With(ChargePrivilegesDenied).With(CardReportedLost)

	assert.Equal(t, []PatronStatus{ChargePrivilegesDenied, CardReportedLost, TooManyItemsBilled}, s.Flags())
	assert.True(t, s.Has(CardReportedLost))
	assert.False(t, s.Has(RecallOverdue))
	assert.False(t, s.IsEmpty())
	assert.True(t, PatronStatus(0).IsEmpty())
	assert.Len(t, AllPatronStatus.Flags(), PatronStatusPositions)
}
