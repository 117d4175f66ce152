package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeposit(res *resident.Resident, weight, price string) *wastebank.Entry {
	e, err := wastebank.NewDeposit(res.ID, "Plastik", decimal.RequireFromString(weight), decimal.RequireFromString(price), uuid.New(), fixedNow)
	if err != nil {
		panic(err)
	}
	return e
}

func TestWasteBankService_RecordDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits rounded value", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		admin := adminOf(hood)

		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.entries.On("Create", mock.Anything, mock.AnythingOfType("*wastebank.Entry")).Return(nil)
		// 2.5 kg x 3001 = 7502.5, rounded half away from zero
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(7503), int64(0)).Return(int64(17503), nil)

		entry, balance, err := svc.RecordDeposit(ctx, admin, RecordDepositInput{
			ResidentID: res.ID,
			WasteType:  "Kardus",
			Weight:     decimal.RequireFromString("2.5"),
			PricePerKg: decimal.NewFromInt(3001),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7503), entry.TotalValue)
		assert.Equal(t, int64(17503), balance)
		assert.Equal(t, admin.UserID, *entry.RecordedBy)
		assert.Equal(t, fixedNow, entry.Date)
		assert.Equal(t, []string{wastebank.EventTypeDepositRecorded}, f.events.types())
	})

	t.Run("invalid measurements never touch storage", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)

		_, _, err := svc.RecordDeposit(ctx, adminOf(hood), RecordDepositInput{
			ResidentID: res.ID, WasteType: "Kardus", Weight: decimal.Zero, PricePerKg: decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, wastebank.ErrInvalidWeight)

		_, _, err = svc.RecordDeposit(ctx, adminOf(hood), RecordDepositInput{
			ResidentID: res.ID, WasteType: " ", Weight: decimal.NewFromInt(1), PricePerKg: decimal.NewFromInt(1000),
		})
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))

		f.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.balances.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other neighborhood", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Joko", otherHood)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)

		_, _, err := svc.RecordDeposit(ctx, adminOf(hood), RecordDepositInput{
			ResidentID: res.ID, WasteType: "Kardus", Weight: decimal.NewFromInt(1), PricePerKg: decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, resident.ErrResidentNotFound)
	})
}

func TestWasteBankService_SettleFeeWithBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("debits balance and marks the fee paid", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		fee := newUnpaidFee(res, 20000)

		f.fees.On("FindByIDForUpdate", mock.Anything, fee.ID).Return(fee, nil)
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(-20000), int64(0)).Return(int64(5000), nil)
		f.entries.On("Create", mock.Anything, mock.MatchedBy(func(e *wastebank.Entry) bool {
			return e.Kind == wastebank.EntryKindFeeSettlement && e.TotalValue == -20000 &&
				e.FeeID != nil && *e.FeeID == fee.ID && e.WasteType == "Pembayaran Iuran Januari 2025"
		})).Return(nil)
		f.fees.On("SaveWithLock", mock.Anything, fee).Return(nil)

		got, balance, err := svc.SettleFeeWithBalance(ctx, residentPrincipal(res), fee.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), balance)
		assert.True(t, got.IsPaid())
		assert.Equal(t, billing.PaymentMethodWasteBankBalance, got.Method)
		assert.Empty(t, got.ProofRef)
		assert.Equal(t, []string{billing.EventTypeFeeSettled}, f.events.types())
		f.entries.AssertExpectations(t)
	})

	t.Run("insufficient balance writes nothing", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		fee := newUnpaidFee(res, 20000)

		f.fees.On("FindByIDForUpdate", mock.Anything, fee.ID).Return(fee, nil)
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(-20000), int64(0)).Return(int64(0), wastebank.ErrBalanceBelowFloor)

		_, _, err := svc.SettleFeeWithBalance(ctx, residentPrincipal(res), fee.ID)
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		assert.Equal(t, shared.KindInsufficientBalance, shared.KindOf(err))
		assert.Equal(t, billing.FeeStatusUnpaid, fee.Status)
		f.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.fees.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.types())
	})

	t.Run("pending and paid fees cannot be settled", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)

		pending := newUnpaidFee(res, 20000)
		_, err := pending.SubmitTransfer(billing.PaymentMethodBankTransfer, "proofs/p.png", fixedNow)
		require.NoError(t, err)
		paid := newUnpaidFee(res, 20000)
		require.NoError(t, paid.SettleWithBalance(fixedNow, 0))

		f.fees.On("FindByIDForUpdate", mock.Anything, pending.ID).Return(pending, nil)
		f.fees.On("FindByIDForUpdate", mock.Anything, paid.ID).Return(paid, nil)

		_, _, err = svc.SettleFeeWithBalance(ctx, residentPrincipal(res), pending.ID)
		assert.ErrorIs(t, err, billing.ErrPaymentPending)
		_, _, err = svc.SettleFeeWithBalance(ctx, residentPrincipal(res), paid.ID)
		assert.ErrorIs(t, err, billing.ErrAlreadyPaid)
		f.balances.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost race is already paid", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		fee := newUnpaidFee(res, 20000)

		f.fees.On("FindByIDForUpdate", mock.Anything, fee.ID).Return(fee, nil)
		f.balances.On("AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(5000), nil)
		f.entries.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.fees.On("SaveWithLock", mock.Anything, fee).Return(shared.ErrConcurrencyConflict)

		_, _, err := svc.SettleFeeWithBalance(ctx, residentPrincipal(res), fee.ID)
		assert.ErrorIs(t, err, billing.ErrAlreadyPaid)
	})

	t.Run("admins and other residents", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		fee := newUnpaidFee(res, 20000)
		f.fees.On("FindByIDForUpdate", mock.Anything, fee.ID).Return(fee, nil)

		_, _, err := svc.SettleFeeWithBalance(ctx, adminOf(hood), fee.ID)
		assert.ErrorIs(t, err, identity.ErrResidentRequired)

		_, _, err = svc.SettleFeeWithBalance(ctx, residentPrincipal(newResident("Sari", hood)), fee.ID)
		assert.ErrorIs(t, err, billing.ErrFeeNotFound)
	})
}

func TestWasteBankService_EditDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the value difference", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		entry := newDeposit(res, "2", "3000")

		f.entries.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.entries.On("FindByIDForUpdate", mock.Anything, entry.ID).Return(entry, nil)
		f.entries.On("Update", mock.Anything, entry).Return(nil)
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(-1500), int64(0)).Return(int64(4500), nil)

		got, balance, err := svc.EditDeposit(ctx, adminOf(hood), entry.ID, EditDepositInput{
			WasteType: "Botol", Weight: decimal.RequireFromString("1.5"), PricePerKg: decimal.NewFromInt(3000),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4500), got.TotalValue)
		assert.Equal(t, "Botol", got.WasteType)
		assert.Equal(t, int64(4500), balance)
		assert.Equal(t, []string{wastebank.EventTypeDepositRevised}, f.events.types())
	})

	t.Run("spent deposits cannot shrink below zero balance", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		entry := newDeposit(res, "2", "3000")

		f.entries.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.entries.On("FindByIDForUpdate", mock.Anything, entry.ID).Return(entry, nil)
		f.entries.On("Update", mock.Anything, entry).Return(nil)
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(-5000), int64(0)).Return(int64(0), wastebank.ErrBalanceBelowFloor)

		_, _, err := svc.EditDeposit(ctx, adminOf(hood), entry.ID, EditDepositInput{
			WasteType: "Plastik", Weight: decimal.NewFromInt(1), PricePerKg: decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, wastebank.ErrBalanceIntegrity)
		assert.Empty(t, f.events.types())
	})

	t.Run("settlements are not editable", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		settlement, err := wastebank.NewFeeSettlement(res.ID, uuid.New(), "Pembayaran Iuran Januari 2025", 20000, fixedNow)
		require.NoError(t, err)

		f.entries.On("FindByID", mock.Anything, settlement.ID).Return(settlement, nil)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.entries.On("FindByIDForUpdate", mock.Anything, settlement.ID).Return(settlement, nil)

		_, _, err = svc.EditDeposit(ctx, adminOf(hood), settlement.ID, EditDepositInput{
			WasteType: "Plastik", Weight: decimal.NewFromInt(1), PricePerKg: decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, wastebank.ErrNotEditable)
		_, err = svc.DeleteDeposit(ctx, adminOf(hood), settlement.ID)
		assert.ErrorIs(t, err, wastebank.ErrNotEditable)
	})

	t.Run("entries of other neighborhoods look missing", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Joko", otherHood)
		entry := newDeposit(res, "1", "1000")
		f.entries.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)

		_, _, err := svc.EditDeposit(ctx, adminOf(hood), entry.ID, EditDepositInput{
			WasteType: "Plastik", Weight: decimal.NewFromInt(1), PricePerKg: decimal.NewFromInt(1000),
		})
		assert.ErrorIs(t, err, wastebank.ErrEntryNotFound)
	})
}

func TestWasteBankService_DeleteDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("removes value from the balance", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		entry := newDeposit(res, "2", "3000")

		f.entries.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.entries.On("FindByIDForUpdate", mock.Anything, entry.ID).Return(entry, nil)
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(-6000), int64(0)).Return(int64(1000), nil)
		f.entries.On("Delete", mock.Anything, entry.ID).Return(nil)

		balance, err := svc.DeleteDeposit(ctx, adminOf(hood), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), balance)
		assert.Equal(t, []string{wastebank.EventTypeDepositRemoved}, f.events.types())
	})

	t.Run("refuses when the value was already spent", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		entry := newDeposit(res, "2", "3000")

		f.entries.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.entries.On("FindByIDForUpdate", mock.Anything, entry.ID).Return(entry, nil)
		f.balances.On("AdjustBalance", mock.Anything, res.ID, int64(-6000), int64(0)).Return(int64(0), wastebank.ErrBalanceBelowFloor)

		_, err := svc.DeleteDeposit(ctx, adminOf(hood), entry.ID)
		assert.ErrorIs(t, err, wastebank.ErrBalanceIntegrity)
		f.entries.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestWasteBankService_ReadsAndReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("balance is private to the resident and their admins", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.balances.On("GetBalance", mock.Anything, res.ID).Return(int64(12000), nil)

		balance, err := svc.GetBalance(ctx, residentPrincipal(res), res.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12000), balance)

		balance, err = svc.GetBalance(ctx, adminOf(hood), res.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12000), balance)

		_, err = svc.GetBalance(ctx, residentPrincipal(newResident("Sari", hood)), res.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)

		_, err = svc.GetBalance(ctx, adminOf(otherHood), res.ID)
		assert.ErrorIs(t, err, resident.ErrResidentNotFound)
	})

	t.Run("list forces residents to their own entries", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		other := uuid.New()

		f.entries.On("List", mock.Anything, mock.MatchedBy(func(filter wastebank.EntryFilter) bool {
			return filter.ResidentID != nil && *filter.ResidentID == res.ID &&
				filter.Kind != nil && *filter.Kind == wastebank.EntryKindDeposit
		})).Return([]wastebank.Entry{}, int64(0), nil)

		_, _, err := svc.ListEntries(ctx, residentPrincipal(res), ListEntriesInput{ResidentID: &other, Kind: "deposit"})
		require.NoError(t, err)
		f.entries.AssertExpectations(t)

		_, _, err = svc.ListEntries(ctx, residentPrincipal(res), ListEntriesInput{Kind: "refund"})
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	})

	t.Run("reconcile reports drift without writing", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		f.residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)
		f.balances.On("GetBalance", mock.Anything, res.ID).Return(int64(15000), nil)
		f.entries.On("SumByResident", mock.Anything, res.ID).Return(int64(12000), nil)

		rec, err := svc.ReconcileBalance(ctx, adminOf(hood), res.ID)
		require.NoError(t, err)
		assert.False(t, rec.InSync())
		assert.Equal(t, int64(3000), rec.Drift)
		f.balances.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		_, err = svc.ReconcileBalance(ctx, residentPrincipal(res), res.ID)
		assert.ErrorIs(t, err, identity.ErrAdminRequired)
	})

	t.Run("storage errors pass through", func(t *testing.T) {
		f := newFixture()
		svc := NewWasteBankService(f.deps)
		res := newResident("Budi", hood)
		boom := shared.NewDependencyError("STORAGE_ERROR", errors.New("connection reset"))
		f.balances.On("GetBalance", mock.Anything, res.ID).Return(int64(0), boom)

		_, err := svc.GetBalance(ctx, residentPrincipal(res), res.ID)
		assert.Equal(t, shared.KindDependency, shared.KindOf(err))
	})
}
