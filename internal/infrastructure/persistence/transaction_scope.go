package persistence

import (
	"context"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/ledger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"gorm.io/gorm"
)

// GormTransactionScope implements ledger.TransactionScope with GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn in one transaction: committed when fn returns nil, rolled
// back otherwise or when ctx is cancelled. Driver failures to begin or commit
// surface as dependency errors.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledger.TransactionalRepositories) error) error {
	return wrapDBError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	}))
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Fees returns the fee repository scoped to the current transaction
func (r *gormTransactionalRepositories) Fees() billing.FeeRepository {
	return NewGormFeeRepository(r.tx)
}

// Entries returns the ledger entry repository scoped to the current transaction
func (r *gormTransactionalRepositories) Entries() wastebank.EntryRepository {
	return NewGormWasteEntryRepository(r.tx)
}

// Balances returns the balance store scoped to the current transaction
func (r *gormTransactionalRepositories) Balances() wastebank.BalanceStore {
	return NewGormBalanceStore(r.tx)
}

var (
	_ ledger.TransactionScope          = (*GormTransactionScope)(nil)
	_ ledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
