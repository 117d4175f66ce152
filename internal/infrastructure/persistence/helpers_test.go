package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	testHood  = shared.Neighborhood{RT: "001", RW: "005"}
	otherHood = shared.Neighborhood{RT: "002", RW: "005"}
)

// setupTestDB opens an in-memory sqlite database with the full schema. A
// single connection keeps every statement on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newMockDB wires gorm's postgres dialector to sqlmock for SQL shape tests
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedResident(t *testing.T, db *gorm.DB, name string, hood shared.Neighborhood, balance int64) *resident.Resident {
	t.Helper()
	ctx := context.Background()

	res, err := resident.NewResident(name, "A-1", hood)
	require.NoError(t, err)
	res.LinkUser(uuid.New())
	require.NoError(t, NewGormResidentRepository(db).Save(ctx, res))

	if balance != 0 {
		_, err = NewGormBalanceStore(db).AdjustBalance(ctx, res.ID, balance, 0)
		require.NoError(t, err)
	}
	return res
}

func seedFee(t *testing.T, db *gorm.DB, res *resident.Resident, amount int64, month string, year int) *billing.Fee {
	t.Helper()

	period, err := billing.NewPeriod(month, year)
	require.NoError(t, err)
	fee, err := billing.NewFee(res.ID, res.Neighborhood, amount, period, "Iuran kebersihan")
	require.NoError(t, err)
	require.NoError(t, NewGormFeeRepository(db).Create(context.Background(), fee))
	fee.ClearDomainEvents()
	return fee
}

func seedDeposit(t *testing.T, db *gorm.DB, res *resident.Resident, weight, price string, at time.Time) *wastebank.Entry {
	t.Helper()

	entry, err := wastebank.NewDeposit(res.ID, "Plastik", decimal.RequireFromString(weight), decimal.RequireFromString(price), uuid.New(), at)
	require.NoError(t, err)
	require.NoError(t, NewGormWasteEntryRepository(db).Create(context.Background(), entry))
	return entry
}
