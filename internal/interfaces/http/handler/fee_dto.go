package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
)

// CreateFeeRequest is the body of POST /fees
type CreateFeeRequest struct {
	ResidentID  string `json:"resident_id" binding:"required,uuid"`
	Amount      int64  `json:"amount"`
	Month       string `json:"month" binding:"required,month"`
	Year        int    `json:"year" binding:"required"`
	Description string `json:"description" binding:"max=500"`
}

// VerifyPaymentRequest is the body of POST /fees/:id/verify
type VerifyPaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Reason string `json:"reason" binding:"max=500"`
}

// ListFeesQuery holds GET /fees query parameters
type ListFeesQuery struct {
	ResidentID string `form:"resident_id"`
	Status     string `form:"status"`
	Month      string `form:"month" binding:"omitempty,month"`
	Year       int    `form:"year"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FeeResponse is a fee as returned by the API. The proof reference stays
// server side; clients fetch it through GET /fees/:id/proof.
type FeeResponse struct {
	ID            uuid.UUID  `json:"id"`
	ResidentID    uuid.UUID  `json:"resident_id"`
	RT            string     `json:"rt"`
	RW            string     `json:"rw"`
	Amount        int64      `json:"amount"`
	Month         string     `json:"month"`
	Year          int        `json:"year"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	HasProof      bool       `json:"has_proof"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToFeeResponse converts a domain fee
func ToFeeResponse(f *billing.Fee) FeeResponse {
	return FeeResponse{
		ID:            f.ID,
		ResidentID:    f.ResidentID,
		RT:            f.Neighborhood.RT,
		RW:            f.Neighborhood.RW,
		Amount:        f.Amount,
		Month:         string(f.Period.Month),
		Year:          f.Period.Year,
		Description:   f.Description,
		Status:        f.Status.String(),
		PaymentDate:   f.PaidAt,
		PaymentMethod: string(f.Method),
		HasProof:      f.ProofRef != "",
		Version:       f.Version,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ToFeeResponses converts a page of fees
func ToFeeResponses(fees []billing.Fee) []FeeResponse {
	out := make([]FeeResponse, len(fees))
	for i := range fees {
		out[i] = ToFeeResponse(&fees[i])
	}
	return out
}

// ProofURLResponse is a short-lived proof download link
type ProofURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SettlementResponse is the result of paying a fee from the waste bank
type SettlementResponse struct {
	Fee     FeeResponse `json:"fee"`
	Balance int64       `json:"balance"`
}
