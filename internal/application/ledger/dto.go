package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateFeeInput is an admin's request to bill a resident
type CreateFeeInput struct {
	ResidentID  uuid.UUID
	Amount      int64
	Month       string
	Year        int
	Description string
}

// ProofUpload is the raw transfer proof sent by a resident
type ProofUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// SubmitTransferInput is a resident's bank transfer submission
type SubmitTransferInput struct {
	FeeID  uuid.UUID
	Method string
	Proof  ProofUpload
}

// VerifyAction is the admin decision on a pending transfer
type VerifyAction string

const (
	VerifyApprove VerifyAction = "approve"
	VerifyReject  VerifyAction = "reject"
)

// VerifyPaymentInput is an admin's decision on a pending transfer
type VerifyPaymentInput struct {
	FeeID  uuid.UUID
	Action VerifyAction
	Reason string
}

// ListFeesInput filters the fee list. Status and Month are optional labels;
// Year 0 means any year.
type ListFeesInput struct {
	ResidentID *uuid.UUID
	Status     string
	Month      string
	Year       int
	Page       int
	PageSize   int
}

// RecordDepositInput is an admin's weighing of a resident's waste
type RecordDepositInput struct {
	ResidentID uuid.UUID
	WasteType  string
	Weight     decimal.Decimal
	PricePerKg decimal.Decimal
}

// EditDepositInput replaces a deposit's measurements
type EditDepositInput struct {
	WasteType  string
	Weight     decimal.Decimal
	PricePerKg decimal.Decimal
}

// ListEntriesInput filters ledger history
type ListEntriesInput struct {
	ResidentID *uuid.UUID
	Kind       string
	Page       int
	PageSize   int
}
