package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	res := seedResident(t, db, "Budi", testHood, 0)

	newDeposit := func(t *testing.T) *wastebank.Entry {
		entry, err := wastebank.NewDeposit(res.ID, "Botol", decimal.NewFromInt(2), decimal.NewFromInt(1500), uuid.New(), time.Now().UTC())
		require.NoError(t, err)
		return entry
	}

	t.Run("commits entry and balance together", func(t *testing.T) {
		entry := newDeposit(t)
		err := scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
			if err := repos.Entries().Create(ctx, entry); err != nil {
				return err
			}
			_, err := repos.Balances().AdjustBalance(ctx, res.ID, entry.TotalValue, 0)
			return err
		})
		require.NoError(t, err)

		balance, err := NewGormBalanceStore(db).GetBalance(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), balance)
	})

	t.Run("rolls back every write on error", func(t *testing.T) {
		entry := newDeposit(t)
		boom := errors.New("boom")
		err := scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
			if err := repos.Entries().Create(ctx, entry); err != nil {
				return err
			}
			if _, err := repos.Balances().AdjustBalance(ctx, res.ID, entry.TotalValue, 0); err != nil {
				return err
			}
			return boom
		})
		require.Error(t, err)
		assert.Equal(t, shared.KindDependency, shared.KindOf(err))
		assert.ErrorIs(t, err, boom)

		_, err = NewGormWasteEntryRepository(db).FindByID(ctx, entry.ID)
		assert.ErrorIs(t, err, wastebank.ErrEntryNotFound)
		balance, err := NewGormBalanceStore(db).GetBalance(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), balance)
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
			_, err := repos.Balances().AdjustBalance(ctx, res.ID, -10000, 0)
			return err
		})
		assert.ErrorIs(t, err, wastebank.ErrBalanceBelowFloor)
	})
}
