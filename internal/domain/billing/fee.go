package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// FeeStatus is the explicit payment state of a fee
type FeeStatus string

const (
	FeeStatusUnpaid              FeeStatus = "UNPAID"
	FeeStatusPendingVerification FeeStatus = "PENDING_VERIFICATION"
	FeeStatusPaid                FeeStatus = "PAID"
)

// IsValid checks if the status is a valid FeeStatus
func (s FeeStatus) IsValid() bool {
	switch s {
	case FeeStatusUnpaid, FeeStatusPendingVerification, FeeStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of FeeStatus
func (s FeeStatus) String() string {
	return string(s)
}

// PaymentMethod records how a fee was or is being paid
type PaymentMethod string

const (
	PaymentMethodBankTransfer     PaymentMethod = "Bank Transfer"
	PaymentMethodWasteBankBalance PaymentMethod = "Waste Bank Balance"
)

// ParseTransferMethod accepts the transfer method label, defaulting to bank transfer
func ParseTransferMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(PaymentMethodBankTransfer)) {
		return PaymentMethodBankTransfer, nil
	}
	return "", shared.NewValidationError("INVALID_PAYMENT_METHOD", "Only \"Bank Transfer\" can be submitted with a proof")
}

const maxDescriptionLength = 500

// Fee is one bill owed by one resident for one billing period.
//
// Status is an explicit tag. PaidAt, Method and ProofRef are set only while
// pending verification or once paid; a waste bank settlement never has a proof.
type Fee struct {
	shared.BaseAggregateRoot
	ResidentID   uuid.UUID
	Neighborhood shared.Neighborhood
	Amount       int64
	Period       Period
	Description  string
	Status       FeeStatus
	PaidAt       *time.Time
	Method       PaymentMethod
	ProofRef     string
}

// NewFee creates an unpaid fee for a resident
func NewFee(residentID uuid.UUID, hood shared.Neighborhood, amount int64, period Period, description string) (*Fee, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RESIDENT", "Resident is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !period.Month.IsValid() || period.Year < MinYear || period.Year > MaxYear {
		return nil, shared.NewValidationError("INVALID_PERIOD", "Billing period is not valid")
	}
	description = strings.TrimSpace(description)
	if len(description) > maxDescriptionLength {
		return nil, shared.NewValidationError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	fee := &Fee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ResidentID:        residentID,
		Neighborhood:      hood,
		Amount:            amount,
		Period:            period,
		Description:       description,
		Status:            FeeStatusUnpaid,
	}
	fee.AddDomainEvent(NewFeeCreatedEvent(fee))
	return fee, nil
}

// IsPending reports whether a transfer payment awaits verification
func (f *Fee) IsPending() bool {
	return f.Status == FeeStatusPendingVerification
}

// IsPaid reports whether the fee is settled
func (f *Fee) IsPaid() bool {
	return f.Status == FeeStatusPaid
}

// SubmitTransfer moves the fee to pending verification with the given proof.
// Submitting again while pending overwrites the earlier submission and returns
// the proof reference it replaced.
func (f *Fee) SubmitTransfer(method PaymentMethod, proofRef string, at time.Time) (string, error) {
	if f.IsPaid() {
		return "", ErrAlreadyPaid
	}
	if strings.TrimSpace(proofRef) == "" {
		return "", ErrProofRequired
	}
	if method != PaymentMethodBankTransfer {
		return "", shared.NewValidationError("INVALID_PAYMENT_METHOD", "Only bank transfers carry a payment proof")
	}

	replaced := ""
	if f.IsPending() {
		replaced = f.ProofRef
	}
	f.Status = FeeStatusPendingVerification
	f.PaidAt = &at
	f.Method = method
	f.ProofRef = proofRef
	f.touch(at)
	f.AddDomainEvent(NewFeePaymentSubmittedEvent(f, replaced != ""))
	return replaced, nil
}

// Approve confirms a pending transfer. Payment fields stay as the audit record.
func (f *Fee) Approve(adminID uuid.UUID, at time.Time) error {
	if !f.IsPending() {
		return ErrNotPending
	}
	f.Status = FeeStatusPaid
	f.touch(at)
	f.AddDomainEvent(NewFeePaymentVerifiedEvent(f, adminID, true, ""))
	return nil
}

// Reject returns a pending fee to unpaid and clears the submission. It returns
// the discarded proof reference so the caller can delete the blob.
func (f *Fee) Reject(adminID uuid.UUID, reason string, at time.Time) (string, error) {
	if !f.IsPending() {
		return "", ErrNotPending
	}
	discarded := f.ProofRef
	f.Status = FeeStatusUnpaid
	f.PaidAt = nil
	f.Method = ""
	f.ProofRef = ""
	f.touch(at)
	f.AddDomainEvent(NewFeePaymentVerifiedEvent(f, adminID, false, strings.TrimSpace(reason)))
	return discarded, nil
}

// SettleWithBalance marks an unpaid fee paid from the waste bank balance.
// The caller is responsible for debiting the balance in the same transaction.
func (f *Fee) SettleWithBalance(at time.Time, newBalance int64) error {
	if err := f.CheckSettleable(); err != nil {
		return err
	}
	f.Status = FeeStatusPaid
	f.PaidAt = &at
	f.Method = PaymentMethodWasteBankBalance
	f.ProofRef = ""
	f.touch(at)
	f.AddDomainEvent(NewFeeSettledEvent(f, newBalance))
	return nil
}

// CheckSettleable reports whether SettleWithBalance would be accepted
func (f *Fee) CheckSettleable() error {
	switch f.Status {
	case FeeStatusPaid:
		return ErrAlreadyPaid
	case FeeStatusPendingVerification:
		return ErrPaymentPending
	}
	return nil
}

// SettlementLabel describes the ledger entry that pays this fee
func (f *Fee) SettlementLabel() string {
	return "Pembayaran Iuran " + f.Period.String()
}

func (f *Fee) touch(at time.Time) {
	f.UpdatedAt = at
	f.IncrementVersion()
}
