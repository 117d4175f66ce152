// Package report builds read-only monthly views over the fee and waste bank
// ledgers: the recap an admin reviews, its spreadsheet export and receipts.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatusTotal counts and sums the fees of one status
type StatusTotal struct {
	Status billing.FeeStatus `json:"status"`
	Count  int64             `json:"count"`
	Amount int64             `json:"amount"`
}

// FeeLine is one row of the recap detail
type FeeLine struct {
	FeeID        uuid.UUID         `json:"fee_id"`
	ResidentName string            `json:"resident_name"`
	HouseNumber  string            `json:"house_number"`
	Amount       int64             `json:"amount"`
	Status       billing.FeeStatus `json:"status"`
	Method       string            `json:"payment_method,omitempty"`
	PaidAt       *time.Time        `json:"payment_date,omitempty"`
}

// WasteTotals summarizes waste bank movement in a window
type WasteTotals struct {
	DepositCount       int64           `json:"deposit_count"`
	DepositWeight      decimal.Decimal `json:"deposit_weight_kg"`
	DepositValue       int64           `json:"deposit_value"`
	SettlementCount    int64           `json:"settlement_count"`
	SettlementValue    int64           `json:"settlement_value"`
	OutstandingBalance int64           `json:"outstanding_balance"`
}

// Reader queries the ledgers for reporting. Every query is scoped to one
// neighborhood.
type Reader interface {
	// FeeTotals groups the period's fees by status
	FeeTotals(ctx context.Context, hood shared.Neighborhood, period billing.Period) ([]StatusTotal, error)

	// FeeLines lists the period's fees with resident names, by name
	FeeLines(ctx context.Context, hood shared.Neighborhood, period billing.Period) ([]FeeLine, error)

	// WasteTotals sums deposits and settlements dated in [from, to) and the
	// current balances of the neighborhood's residents
	WasteTotals(ctx context.Context, hood shared.Neighborhood, from, to time.Time) (WasteTotals, error)
}

// FeeFinder returns a fee the principal may see
type FeeFinder interface {
	GetFee(ctx context.Context, p identity.Principal, feeID uuid.UUID) (*billing.Fee, error)
}

// Recap is the monthly fee and waste bank summary of a neighborhood
type Recap struct {
	Neighborhood shared.Neighborhood `json:"neighborhood"`
	Period       string              `json:"period"`
	Statuses     []StatusTotal       `json:"statuses"`
	FeeCount     int64               `json:"fee_count"`
	Billed       int64               `json:"billed"`
	Collected    int64               `json:"collected"`
	Pending      int64               `json:"pending"`
	Outstanding  int64               `json:"outstanding"`
	WasteBank    WasteTotals         `json:"waste_bank"`
}

// CollectionRate is the share of billed rupiah already collected, 0..1
func (r *Recap) CollectionRate() decimal.Decimal {
	if r.Billed == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(r.Collected).Div(decimal.NewFromInt(r.Billed)).Round(4)
}

// ErrNotPaid is returned for receipts of fees that are not settled
var ErrNotPaid = shared.NewConflictError("NOT_PAID", "A receipt is only available once the bill is paid")
