package billing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHood = shared.Neighborhood{RT: "002", RW: "011"}

func newTestFee(t *testing.T) *billing.Fee {
	t.Helper()
	period, err := billing.NewPeriod("Januari", 2025)
	require.NoError(t, err)
	fee, err := billing.NewFee(uuid.New(), testHood, 50000, period, "Iuran kebersihan")
	require.NoError(t, err)
	fee.ClearDomainEvents()
	return fee
}

func TestNewFee(t *testing.T) {
	period := billing.Period{Month: billing.MonthMaret, Year: 2025}

	tests := []struct {
		name       string
		residentID uuid.UUID
		amount     int64
		period     billing.Period
		wantErr    error
	}{
		{name: "valid fee", residentID: uuid.New(), amount: 25000, period: period},
		{name: "zero amount", residentID: uuid.New(), amount: 0, period: period, wantErr: billing.ErrInvalidAmount},
		{name: "negative amount", residentID: uuid.New(), amount: -10, period: period, wantErr: billing.ErrInvalidAmount},
		{name: "nil resident", residentID: uuid.Nil, amount: 25000, period: period, wantErr: shared.ErrInvalidInput},
		{name: "bad period", residentID: uuid.New(), amount: 25000, period: billing.Period{Month: "March", Year: 2025}, wantErr: shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := billing.NewFee(tt.residentID, testHood, tt.amount, tt.period, "")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, shared.KindValidation, shared.KindOf(err))
				if tt.wantErr == billing.ErrInvalidAmount {
					assert.ErrorIs(t, err, billing.ErrInvalidAmount)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, billing.FeeStatusUnpaid, fee.Status)
			assert.Nil(t, fee.PaidAt)
			assert.Empty(t, fee.Method)
			assert.Equal(t, 1, fee.Version)
			require.Len(t, fee.DomainEvents(), 1)
			assert.Equal(t, billing.EventTypeFeeCreated, fee.DomainEvents()[0].EventType())
		})
	}
}

func TestFee_SubmitTransfer(t *testing.T) {
	fee := newTestFee(t)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	replaced, err := fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/a.jpg", now)
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.True(t, fee.IsPending())
	assert.Equal(t, now, *fee.PaidAt)
	assert.Equal(t, billing.PaymentMethodBankTransfer, fee.Method)
	assert.Equal(t, 2, fee.Version)

	t.Run("resubmission overwrites the pending proof", func(t *testing.T) {
		later := now.Add(time.Hour)
		replaced, err := fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/b.jpg", later)
		require.NoError(t, err)
		assert.Equal(t, "proofs/a.jpg", replaced)
		assert.Equal(t, "proofs/b.jpg", fee.ProofRef)
		assert.Equal(t, later, *fee.PaidAt)
	})

	t.Run("empty proof is rejected", func(t *testing.T) {
		_, err := newTestFee(t).SubmitTransfer(billing.PaymentMethodBankTransfer, " ", now)
		assert.ErrorIs(t, err, billing.ErrProofRequired)
	})

	t.Run("waste bank method cannot carry a proof", func(t *testing.T) {
		_, err := newTestFee(t).SubmitTransfer(billing.PaymentMethodWasteBankBalance, "proofs/x.jpg", now)
		assert.Error(t, err)
	})
}

func TestFee_ApproveIsTerminal(t *testing.T) {
	fee := newTestFee(t)
	now := time.Now().UTC()
	_, err := fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/a.jpg", now)
	require.NoError(t, err)

	require.NoError(t, fee.Approve(uuid.New(), now))
	assert.True(t, fee.IsPaid())
	assert.Equal(t, "proofs/a.jpg", fee.ProofRef)
	assert.NotNil(t, fee.PaidAt)

	assert.ErrorIs(t, fee.Approve(uuid.New(), now), billing.ErrNotPending)
	_, err = fee.Reject(uuid.New(), "", now)
	assert.ErrorIs(t, err, billing.ErrNotPending)
	_, err = fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/c.jpg", now)
	assert.ErrorIs(t, err, billing.ErrAlreadyPaid)
	assert.ErrorIs(t, fee.SettleWithBalance(now, 0), billing.ErrAlreadyPaid)
}

func TestFee_RejectClearsSubmission(t *testing.T) {
	fee := newTestFee(t)
	now := time.Now().UTC()
	_, err := fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/a.jpg", now)
	require.NoError(t, err)

	discarded, err := fee.Reject(uuid.New(), "Nominal tidak sesuai", now)
	require.NoError(t, err)
	assert.Equal(t, "proofs/a.jpg", discarded)
	assert.Equal(t, billing.FeeStatusUnpaid, fee.Status)
	assert.Nil(t, fee.PaidAt)
	assert.Empty(t, fee.Method)
	assert.Empty(t, fee.ProofRef)

	_, err = fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/b.jpg", now)
	assert.NoError(t, err)
}

func TestFee_VerifyUnpaidFails(t *testing.T) {
	fee := newTestFee(t)
	assert.ErrorIs(t, fee.Approve(uuid.New(), time.Now()), billing.ErrNotPending)
}

func TestFee_SettleWithBalance(t *testing.T) {
	now := time.Now().UTC()

	fee := newTestFee(t)
	require.NoError(t, fee.SettleWithBalance(now, 10000))
	assert.True(t, fee.IsPaid())
	assert.Equal(t, billing.PaymentMethodWasteBankBalance, fee.Method)
	assert.Empty(t, fee.ProofRef)
	assert.Equal(t, "Pembayaran Iuran Januari 2025", fee.SettlementLabel())

	pending := newTestFee(t)
	_, err := pending.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/a.jpg", now)
	require.NoError(t, err)
	assert.ErrorIs(t, pending.SettleWithBalance(now, 0), billing.ErrPaymentPending)
}
