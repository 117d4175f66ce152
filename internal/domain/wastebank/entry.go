package wastebank

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryKind tags a ledger entry
type EntryKind string

const (
	EntryKindDeposit       EntryKind = "DEPOSIT"
	EntryKindFeeSettlement EntryKind = "FEE_SETTLEMENT"
)

// IsValid checks if the kind is a valid EntryKind
func (k EntryKind) IsValid() bool {
	return k == EntryKindDeposit || k == EntryKindFeeSettlement
}

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

const maxWasteTypeLength = 100

// Deposit measurements must fit weight DECIMAL(12,3) and price_per_kg
// DECIMAL(14,2) exactly, and their product must fit total_value BIGINT.
const (
	weightScale = 3
	priceScale  = 2
)

var (
	maxWeight     = decimal.New(1, 9)  // 999,999,999.999 kg
	maxPricePerKg = decimal.New(1, 12) // Rp999,999,999,999.99
	maxTotal      = decimal.NewFromInt(math.MaxInt64)
)

// Entry is one signed movement on a resident's waste bank balance.
//
// DEPOSIT entries credit round(Weight x PricePerKg). FEE_SETTLEMENT entries
// debit a fee amount, carry zero weight and price, and reference the fee.
type Entry struct {
	shared.BaseEntity
	ResidentID uuid.UUID
	Kind       EntryKind
	WasteType  string
	Weight     decimal.Decimal
	PricePerKg decimal.Decimal
	TotalValue int64
	FeeID      *uuid.UUID
	RecordedBy *uuid.UUID
	Date       time.Time
}

// ComputeTotal returns round(weight x price) in whole rupiah, half away from
// zero. Callers validate that the product fits in an int64 first.
func ComputeTotal(weight, pricePerKg decimal.Decimal) int64 {
	return weight.Mul(pricePerKg).Round(0).IntPart()
}

func validateDeposit(wasteType string, weight, pricePerKg decimal.Decimal) (string, error) {
	wasteType = strings.TrimSpace(wasteType)
	if wasteType == "" {
		return "", shared.NewValidationError("INVALID_WASTE_TYPE", "Waste type cannot be empty")
	}
	if len(wasteType) > maxWasteTypeLength {
		return "", shared.NewValidationError("INVALID_WASTE_TYPE", "Waste type cannot exceed 100 characters")
	}
	if !weight.IsPositive() {
		return "", ErrInvalidWeight
	}
	if !weight.Truncate(weightScale).Equal(weight) || weight.GreaterThanOrEqual(maxWeight) {
		return "", ErrWeightOutOfRange
	}
	if pricePerKg.IsNegative() {
		return "", ErrInvalidPrice
	}
	if !pricePerKg.Truncate(priceScale).Equal(pricePerKg) || pricePerKg.GreaterThanOrEqual(maxPricePerKg) {
		return "", ErrPriceOutOfRange
	}
	if weight.Mul(pricePerKg).Round(0).GreaterThan(maxTotal) {
		return "", ErrTotalOutOfRange
	}
	return wasteType, nil
}

// NewDeposit creates a deposit entry recorded by an admin
func NewDeposit(residentID uuid.UUID, wasteType string, weight, pricePerKg decimal.Decimal, recordedBy uuid.UUID, at time.Time) (*Entry, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RESIDENT", "Resident is required")
	}
	wasteType, err := validateDeposit(wasteType, weight, pricePerKg)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		BaseEntity: shared.NewBaseEntity(),
		ResidentID: residentID,
		Kind:       EntryKindDeposit,
		WasteType:  wasteType,
		Weight:     weight,
		PricePerKg: pricePerKg,
		TotalValue: ComputeTotal(weight, pricePerKg),
		RecordedBy: &recordedBy,
		Date:       at,
	}
	return entry, nil
}

// NewFeeSettlement creates the debit entry that pays a fee from the balance
func NewFeeSettlement(residentID, feeID uuid.UUID, label string, amount int64, at time.Time) (*Entry, error) {
	if amount <= 0 {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Settlement amount must be greater than zero")
	}
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		ResidentID: residentID,
		Kind:       EntryKindFeeSettlement,
		WasteType:  label,
		Weight:     decimal.Zero,
		PricePerKg: decimal.Zero,
		TotalValue: -amount,
		FeeID:      &feeID,
		Date:       at,
	}, nil
}

// IsDeposit reports whether the entry is a manual deposit
func (e *Entry) IsDeposit() bool {
	return e.Kind == EntryKindDeposit
}

// Revise changes a deposit's measurements and returns the balance delta
// (new total minus old total) the caller must apply.
func (e *Entry) Revise(wasteType string, weight, pricePerKg decimal.Decimal, at time.Time) (int64, error) {
	if !e.IsDeposit() {
		return 0, ErrNotEditable
	}
	wasteType, err := validateDeposit(wasteType, weight, pricePerKg)
	if err != nil {
		return 0, err
	}
	newTotal := ComputeTotal(weight, pricePerKg)
	delta := newTotal - e.TotalValue
	e.WasteType = wasteType
	e.Weight = weight
	e.PricePerKg = pricePerKg
	e.TotalValue = newTotal
	e.UpdatedAt = at
	return delta, nil
}
