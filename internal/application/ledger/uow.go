package ledger

import (
	"context"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
)

// TransactionalRepositories gives access to the ledger repositories bound to
// one database transaction.
type TransactionalRepositories interface {
	Fees() billing.FeeRepository
	Entries() wastebank.EntryRepository
	Balances() wastebank.BalanceStore
}

// TransactionScope runs fn inside a single transaction. Returning an error
// from fn rolls back every write made through repos.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
