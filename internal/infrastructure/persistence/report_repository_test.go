package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReportRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	fees := NewGormFeeRepository(db)
	ctx := context.Background()
	at := time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC)

	sari := seedResident(t, db, "Sari", testHood, 0)
	budi := seedResident(t, db, "Budi", testHood, 0)
	joko := seedResident(t, db, "Joko", otherHood, 0)

	paid := seedFee(t, db, budi, 50000, "Januari", 2025)
	seedFee(t, db, sari, 50000, "Januari", 2025)
	seedFee(t, db, sari, 50000, "Februari", 2025)
	seedFee(t, db, joko, 50000, "Januari", 2025)

	fee, err := fees.FindByID(ctx, paid.ID)
	require.NoError(t, err)
	_, err = fee.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/x.png", at)
	require.NoError(t, err)
	require.NoError(t, fees.SaveWithLock(ctx, fee))
	require.NoError(t, fee.Approve(uuid.New(), at))
	require.NoError(t, fees.SaveWithLock(ctx, fee))

	seedDeposit(t, db, budi, "2.5", "4000", at)
	seedDeposit(t, db, sari, "1", "3000", at)
	seedDeposit(t, db, sari, "1", "3000", at.AddDate(0, 1, 0))
	seedDeposit(t, db, joko, "10", "3000", at)
	settle, err := wastebank.NewFeeSettlement(sari.ID, uuid.New(), "Pembayaran Iuran Desember 2024", 2000, at)
	require.NoError(t, err)
	require.NoError(t, NewGormWasteEntryRepository(db).Create(ctx, settle))

	balances := NewGormBalanceStore(db)
	_, err = balances.AdjustBalance(ctx, budi.ID, 10000, 0)
	require.NoError(t, err)
	_, err = balances.AdjustBalance(ctx, sari.ID, 4000, 0)
	require.NoError(t, err)
	_, err = balances.AdjustBalance(ctx, joko.ID, 30000, 0)
	require.NoError(t, err)

	period, err := billing.NewPeriod("Januari", 2025)
	require.NoError(t, err)

	t.Run("fee totals by status", func(t *testing.T) {
		totals, err := repo.FeeTotals(ctx, testHood, period)
		require.NoError(t, err)

		byStatus := map[billing.FeeStatus]int64{}
		for _, tt := range totals {
			byStatus[tt.Status] = tt.Count
		}
		assert.Equal(t, int64(1), byStatus[billing.FeeStatusPaid])
		assert.Equal(t, int64(1), byStatus[billing.FeeStatusUnpaid])
		assert.Zero(t, byStatus[billing.FeeStatusPendingVerification])
	})

	t.Run("fee lines ordered by name", func(t *testing.T) {
		lines, err := repo.FeeLines(ctx, testHood, period)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Budi", lines[0].ResidentName)
		assert.Equal(t, billing.FeeStatusPaid, lines[0].Status)
		assert.Equal(t, string(billing.PaymentMethodBankTransfer), lines[0].Method)
		require.NotNil(t, lines[0].PaidAt)
		assert.Equal(t, "Sari", lines[1].ResidentName)
		assert.Empty(t, lines[1].Method)
		assert.Nil(t, lines[1].PaidAt)
	})

	t.Run("waste totals in window", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		totals, err := repo.WasteTotals(ctx, testHood, from, from.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(2), totals.DepositCount)
		assert.True(t, decimal.RequireFromString("3.5").Equal(totals.DepositWeight), totals.DepositWeight.String())
		assert.Equal(t, int64(13000), totals.DepositValue)
		assert.Equal(t, int64(1), totals.SettlementCount)
		assert.Equal(t, int64(2000), totals.SettlementValue)
		assert.Equal(t, int64(14000), totals.OutstandingBalance)
	})
}
