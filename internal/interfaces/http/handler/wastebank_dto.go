package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
)

// RecordDepositRequest is the body of POST /waste-bank/deposits. Weight and
// price accept JSON numbers or decimal strings.
type RecordDepositRequest struct {
	ResidentID string          `json:"resident_id" binding:"required,uuid"`
	WasteType  string          `json:"waste_type" binding:"required,max=100"`
	Weight     decimal.Decimal `json:"weight"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
}

// EditDepositRequest is the body of PUT /waste-bank/deposits/:id
type EditDepositRequest struct {
	WasteType  string          `json:"waste_type" binding:"required,max=100"`
	Weight     decimal.Decimal `json:"weight"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
}

// ListEntriesQuery holds GET /waste-bank/deposits query parameters
type ListEntriesQuery struct {
	ResidentID string `form:"resident_id"`
	Kind       string `form:"kind"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EntryResponse is a waste bank ledger entry as returned by the API
type EntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	ResidentID uuid.UUID       `json:"resident_id"`
	Kind       string          `json:"kind"`
	WasteType  string          `json:"waste_type"`
	Weight     decimal.Decimal `json:"weight"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
	TotalValue int64           `json:"total_value"`
	FeeID      *uuid.UUID      `json:"fee_id,omitempty"`
	RecordedBy *uuid.UUID      `json:"recorded_by,omitempty"`
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToEntryResponse converts a domain entry
func ToEntryResponse(e *wastebank.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		ResidentID: e.ResidentID,
		Kind:       e.Kind.String(),
		WasteType:  e.WasteType,
		Weight:     e.Weight,
		PricePerKg: e.PricePerKg,
		TotalValue: e.TotalValue,
		FeeID:      e.FeeID,
		RecordedBy: e.RecordedBy,
		Date:       e.Date,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// DepositResponse is a changed deposit with the resident's new balance
type DepositResponse struct {
	Entry   EntryResponse `json:"entry"`
	Balance int64         `json:"balance"`
}

// BalanceResponse is a resident's current balance
type BalanceResponse struct {
	ResidentID uuid.UUID `json:"resident_id"`
	Balance    int64     `json:"balance"`
}
