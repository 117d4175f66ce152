package wastebank

import "github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"

// Waste bank ledger errors
var (
	ErrEntryNotFound     = shared.NewNotFoundError("DEPOSIT_NOT_FOUND", "Deposit not found")
	ErrNotEditable       = shared.NewConflictError("NOT_EDITABLE", "Only manual deposits can be edited or deleted")
	ErrInvalidWeight     = shared.NewValidationError("INVALID_WEIGHT", "Weight must be greater than zero")
	ErrInvalidPrice      = shared.NewValidationError("INVALID_PRICE", "Price per kg cannot be negative")
	ErrWeightOutOfRange  = shared.NewValidationError("WEIGHT_OUT_OF_RANGE", "Weight must be below 1,000,000,000 kg with at most 3 decimal places")
	ErrPriceOutOfRange   = shared.NewValidationError("PRICE_OUT_OF_RANGE", "Price per kg must be below Rp1,000,000,000,000 with at most 2 decimal places")
	ErrTotalOutOfRange   = shared.NewValidationError("TOTAL_OUT_OF_RANGE", "Weight times price per kg is larger than a balance can hold")
	ErrBalanceIntegrity  = shared.NewConflictError("BALANCE_INTEGRITY", "This change would make the waste bank balance negative; the ledger needs review")
	ErrBalanceBelowFloor = shared.NewConflictError("BALANCE_BELOW_FLOOR", "Balance adjustment would drop below the allowed floor")
)
