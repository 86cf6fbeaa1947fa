package entities

import "errors"

// Validation errors returned to callers of the inbound operations.
// No state is mutated when one of these is returned.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrContestNotFound     = errors.New("contest not found")
	ErrContestNotOpen      = errors.New("contest is not open")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidSource       = errors.New("invalid ledger source")
	ErrInvalidPicks        = errors.New("invalid picks")
	ErrInvalidProduct      = errors.New("invalid product key")
	ErrInvalidPurchase     = errors.New("invalid purchase event")
	ErrInvalidContest      = errors.New("invalid contest definition")
	ErrAlreadyClaimedToday = errors.New("daily bonus already claimed today")
	ErrMonthlyCapReached   = errors.New("daily bonus monthly cap reached")
)

// IsValidationError reports whether err belongs to the caller-facing validation class
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrAccountNotFound, ErrContestNotFound, ErrContestNotOpen, ErrInsufficientFunds,
		ErrInvalidAmount, ErrInvalidSource, ErrInvalidPicks, ErrInvalidProduct, ErrInvalidPurchase, ErrInvalidContest,
		ErrAlreadyClaimedToday, ErrMonthlyCapReached,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
