package entity

// PatronStatus is the 14-position SIP2 patron status field. Bit i is position i
// on the wire, so rendering order is fixed by the type itself.
type PatronStatus uint16

const (
	ChargePrivilegesDenied PatronStatus = 1 << iota
	RenewalPrivilegesDenied
	RecallPrivilegesDenied
	HoldPrivilegesDenied
	CardReportedLost
	TooManyItemsCharged
	TooManyItemsOverdue
	TooManyRenewals
	TooManyClaimsOfItemsReturned
	TooManyItemsLost
	ExcessiveOutstandingFines
	ExcessiveOutstandingFees
	RecallOverdue
	TooManyItemsBilled
)

// PatronStatusPositions is the number of positions in the wire field.
const PatronStatusPositions = 14

// AllPatronStatus has every denial flag set.
const AllPatronStatus PatronStatus = 1<<PatronStatusPositions - 1

// Has reports whether every flag in f is set.
func (s PatronStatus) Has(f PatronStatus) bool {
	return s&f == f
}

// With returns s with f set.
func (s PatronStatus) With(f PatronStatus) PatronStatus {
	return s | f
}

// IsEmpty -.
func (s PatronStatus) IsEmpty() bool {
	return s&AllPatronStatus == 0
}

// Flags lists the set flags in wire order.
func (s PatronStatus) Flags() []PatronStatus {
	flags := make([]PatronStatus, 0, PatronStatusPositions)

	for i := 0; i < PatronStatusPositions; i++ {
		f := PatronStatus(1) << i
		if s.Has(f) {
			flags = append(flags, f)
		}
	}

	return flags
}

// Field renders the status as the fixed-width field: 'Y' for set, ' ' otherwise.
func (s PatronStatus) Field() string {
	b := make([]byte, PatronStatusPositions)

	for i := range b {
		if s.Has(PatronStatus(1) << i) {
			b[i] = 'Y'
		} else {
			b[i] = ' '
		}
	}

	return string(b)
}

func (s PatronStatus) String() string {
	return s.Field()
}
