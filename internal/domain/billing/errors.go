package billing

import "github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"

// Fee ledger errors
var (
	ErrFeeNotFound     = shared.NewNotFoundError("FEE_NOT_FOUND", "Bill not found")
	ErrDuplicatePeriod = shared.NewConflictError("DUPLICATE_PERIOD", "A bill already exists for this resident for this month")
	ErrAlreadyPaid     = shared.NewConflictError("ALREADY_PAID", "This bill has already been paid")
	ErrNotPending      = shared.NewConflictError("NOT_PENDING", "This bill has no payment awaiting verification")
	ErrPaymentPending  = shared.NewConflictError("PAYMENT_PENDING", "A transfer payment for this bill is awaiting verification")
	ErrProofRequired   = shared.NewValidationError("PROOF_REQUIRED", "A payment proof image is required")
	ErrInvalidAmount   = shared.NewValidationError("INVALID_AMOUNT", "Amount must be greater than zero")
)
