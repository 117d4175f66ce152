package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// balanceFloor is the lowest balance any adjustment may leave behind
const balanceFloor int64 = 0

// WasteBankService owns deposits, fee settlements from the balance and the
// cached balance scalar
type WasteBankService struct {
	base
}

// NewWasteBankService creates a new WasteBankService
func NewWasteBankService(deps Dependencies) *WasteBankService {
	return &WasteBankService{base{deps: deps.withDefaults()}}
}

// RecordDeposit credits a weighed deposit to a resident of the admin's
// neighborhood and returns the entry and the new balance
func (s *WasteBankService) RecordDeposit(ctx context.Context, p identity.Principal, in RecordDepositInput) (entry *wastebank.Entry, newBalance int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "record_deposit")
	defer func() { s.finish(span, "record_deposit", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrResidentID, in.ResidentID)

	if err = p.RequireAdmin(); err != nil {
		return nil, 0, err
	}
	res, err := s.residentInScope(ctx, p, in.ResidentID)
	if err != nil {
		return nil, 0, err
	}
	entry, err = wastebank.NewDeposit(res.ID, in.WasteType, in.Weight, in.PricePerKg, p.UserID, s.deps.Now())
	if err != nil {
		return nil, 0, err
	}

	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Entries().Create(ctx, entry); err != nil {
			return err
		}
		balance, err := repos.Balances().AdjustBalance(ctx, res.ID, entry.TotalValue, balanceFloor)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.deps.Metrics.BalanceMoved(entry.TotalValue)
	telemetry.SetAttributes(span, telemetry.AttrAmount, entry.TotalValue, telemetry.AttrBalance, newBalance)
	s.log(ctx).Info("Waste deposit recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("resident_id", res.ID.String()),
		zap.String("weight", entry.Weight.String()),
		zap.Int64("total_value", entry.TotalValue),
		zap.Int64("new_balance", newBalance),
	)
	s.publish(ctx, wastebank.NewDepositEvent(wastebank.EventTypeDepositRecorded, entry, entry.TotalValue, newBalance))
	return entry, newBalance, nil
}

// SettleFeeWithBalance pays the resident's own unpaid fee from their waste
// bank balance. The debit, the settlement entry and the fee update commit
// together or not at all.
func (s *WasteBankService) SettleFeeWithBalance(ctx context.Context, p identity.Principal, feeID uuid.UUID) (fee *billing.Fee, newBalance int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "settle_fee")
	defer func() { s.finish(span, "settle_fee", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrFeeID, feeID)

	if err = p.RequireResident(); err != nil {
		return nil, 0, err
	}

	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		f, err := repos.Fees().FindByIDForUpdate(ctx, feeID)
		if err != nil {
			return err
		}
		if !p.OwnsResident(f.ResidentID) {
			return billing.ErrFeeNotFound
		}
		if err := f.CheckSettleable(); err != nil {
			return err
		}

		balance, err := repos.Balances().AdjustBalance(ctx, f.ResidentID, -f.Amount, balanceFloor)
		if err != nil {
			if errors.Is(err, wastebank.ErrBalanceBelowFloor) {
				return shared.ErrInsufficientBalance
			}
			return err
		}

		now := s.deps.Now()
		settlement, err := wastebank.NewFeeSettlement(f.ResidentID, f.ID, f.SettlementLabel(), f.Amount, now)
		if err != nil {
			return err
		}
		if err := repos.Entries().Create(ctx, settlement); err != nil {
			return err
		}
		if err := f.SettleWithBalance(now, balance); err != nil {
			return err
		}
		if err := repos.Fees().SaveWithLock(ctx, f); err != nil {
			if isConcurrencyConflict(err) {
				return billing.ErrAlreadyPaid
			}
			return err
		}
		fee = f
		newBalance = balance
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientBalance) {
			telemetry.AddEvent(span, "insufficient_balance")
		}
		return nil, 0, err
	}

	s.deps.Metrics.BalanceMoved(-fee.Amount)
	telemetry.SetAttributes(span, telemetry.AttrAmount, fee.Amount, telemetry.AttrBalance, newBalance)
	s.log(ctx).Info("Fee settled with waste bank balance",
		zap.String("fee_id", fee.ID.String()),
		zap.String("resident_id", fee.ResidentID.String()),
		zap.Int64("amount", fee.Amount),
		zap.Int64("new_balance", newBalance),
	)
	s.publish(ctx, fee.DomainEvents()...)
	fee.ClearDomainEvents()
	return fee, newBalance, nil
}

// EditDeposit corrects a deposit's measurements and moves the balance by the
// difference in value. Fee settlements cannot be edited.
func (s *WasteBankService) EditDeposit(ctx context.Context, p identity.Principal, entryID uuid.UUID, in EditDepositInput) (entry *wastebank.Entry, newBalance int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "edit_deposit")
	defer func() { s.finish(span, "edit_deposit", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrEntryID, entryID)

	if err = p.RequireAdmin(); err != nil {
		return nil, 0, err
	}
	if err = s.depositInScope(ctx, p, entryID); err != nil {
		return nil, 0, err
	}

	var delta int64
	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := lockDeposit(ctx, repos, entryID)
		if err != nil {
			return err
		}
		delta, err = e.Revise(in.WasteType, in.Weight, in.PricePerKg, s.deps.Now())
		if err != nil {
			return err
		}
		if err := repos.Entries().Update(ctx, e); err != nil {
			return err
		}
		balance, err := repos.Balances().AdjustBalance(ctx, e.ResidentID, delta, balanceFloor)
		if err != nil {
			return s.integrityError(ctx, err, e, delta)
		}
		entry = e
		newBalance = balance
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.deps.Metrics.BalanceMoved(delta)
	telemetry.SetAttributes(span, telemetry.AttrDelta, delta, telemetry.AttrBalance, newBalance)
	s.log(ctx).Info("Waste deposit edited",
		zap.String("entry_id", entry.ID.String()),
		zap.Int64("delta", delta),
		zap.Int64("new_balance", newBalance),
	)
	s.publish(ctx, wastebank.NewDepositEvent(wastebank.EventTypeDepositRevised, entry, delta, newBalance))
	return entry, newBalance, nil
}

// DeleteDeposit removes a deposit and takes its value back off the balance.
// A removal that would leave the balance negative is refused.
func (s *WasteBankService) DeleteDeposit(ctx context.Context, p identity.Principal, entryID uuid.UUID) (newBalance int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "delete_deposit")
	defer func() { s.finish(span, "delete_deposit", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrEntryID, entryID)

	if err = p.RequireAdmin(); err != nil {
		return 0, err
	}
	if err = s.depositInScope(ctx, p, entryID); err != nil {
		return 0, err
	}

	var removed *wastebank.Entry
	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := lockDeposit(ctx, repos, entryID)
		if err != nil {
			return err
		}
		balance, err := repos.Balances().AdjustBalance(ctx, e.ResidentID, -e.TotalValue, balanceFloor)
		if err != nil {
			return s.integrityError(ctx, err, e, -e.TotalValue)
		}
		if err := repos.Entries().Delete(ctx, e.ID); err != nil {
			return err
		}
		removed = e
		newBalance = balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.deps.Metrics.BalanceMoved(-removed.TotalValue)
	s.log(ctx).Info("Waste deposit deleted",
		zap.String("entry_id", removed.ID.String()),
		zap.String("resident_id", removed.ResidentID.String()),
		zap.Int64("total_value", removed.TotalValue),
		zap.Int64("new_balance", newBalance),
	)
	s.publish(ctx, wastebank.NewDepositEvent(wastebank.EventTypeDepositRemoved, removed, -removed.TotalValue, newBalance))
	return newBalance, nil
}

// GetBalance returns the cached balance of a resident
func (s *WasteBankService) GetBalance(ctx context.Context, p identity.Principal, residentID uuid.UUID) (balance int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "get_balance")
	defer func() { s.finish(span, "get_balance", start, err) }()

	if err = s.authorizeResidentRead(ctx, p, residentID); err != nil {
		return 0, err
	}
	return s.deps.Balances.GetBalance(ctx, residentID)
}

// ListEntries returns one page of ledger history, newest first. Residents
// only see their own entries.
func (s *WasteBankService) ListEntries(ctx context.Context, p identity.Principal, in ListEntriesInput) (entries []wastebank.Entry, total int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "list_entries")
	defer func() { s.finish(span, "list_entries", start, err) }()

	if err = p.Validate(); err != nil {
		return nil, 0, err
	}
	filter := wastebank.EntryFilter{
		Filter:       shared.Filter{Page: in.Page, PageSize: in.PageSize},
		Neighborhood: p.Neighborhood,
		ResidentID:   in.ResidentID,
	}
	if p.IsResident() {
		filter.ResidentID = p.ResidentID
	}
	if in.Kind != "" {
		kind := wastebank.EntryKind(strings.ToUpper(strings.TrimSpace(in.Kind)))
		if !kind.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_KIND", fmt.Sprintf("Unknown entry kind %q", in.Kind))
		}
		filter.Kind = &kind
	}
	return s.deps.Entries.List(ctx, filter)
}

// ReconcileBalance compares a resident's cached balance with the sum of
// their ledger entries. It never writes.
func (s *WasteBankService) ReconcileBalance(ctx context.Context, p identity.Principal, residentID uuid.UUID) (rec wastebank.Reconciliation, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "waste_bank", "reconcile")
	defer func() { s.finish(span, "reconcile_balance", start, err) }()

	if err = p.RequireAdmin(); err != nil {
		return wastebank.Reconciliation{}, err
	}
	if _, err = s.residentInScope(ctx, p, residentID); err != nil {
		return wastebank.Reconciliation{}, err
	}
	cached, err := s.deps.Balances.GetBalance(ctx, residentID)
	if err != nil {
		return wastebank.Reconciliation{}, err
	}
	sum, err := s.deps.Entries.SumByResident(ctx, residentID)
	if err != nil {
		return wastebank.Reconciliation{}, err
	}

	rec = wastebank.NewReconciliation(residentID, cached, sum)
	if !rec.InSync() {
		s.deps.Metrics.DriftDetected()
		s.log(ctx).Warn("Waste bank balance drift detected",
			zap.String("resident_id", residentID.String()),
			zap.Int64("cached", rec.Cached),
			zap.Int64("ledger", rec.Ledger),
			zap.Int64("drift", rec.Drift),
		)
	}
	return rec, nil
}

// depositInScope checks the entry belongs to a resident of the admin's
// neighborhood. It runs before the transaction opens; the owner of an entry
// never changes.
func (s *WasteBankService) depositInScope(ctx context.Context, p identity.Principal, entryID uuid.UUID) error {
	e, err := s.deps.Entries.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if _, err := s.residentInScope(ctx, p, e.ResidentID); err != nil {
		if errors.Is(err, resident.ErrResidentNotFound) {
			return wastebank.ErrEntryNotFound
		}
		return err
	}
	return nil
}

// lockDeposit reloads and locks an entry inside the transaction
func lockDeposit(ctx context.Context, repos TransactionalRepositories, entryID uuid.UUID) (*wastebank.Entry, error) {
	e, err := repos.Entries().FindByIDForUpdate(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !e.IsDeposit() {
		return nil, wastebank.ErrNotEditable
	}
	return e, nil
}

// integrityError maps a rejected balance adjustment during an edit or delete.
// Residents spend deposits, so taking value back can exceed what is left.
func (s *WasteBankService) integrityError(ctx context.Context, err error, e *wastebank.Entry, delta int64) error {
	if !errors.Is(err, wastebank.ErrBalanceBelowFloor) {
		return err
	}
	s.log(ctx).Error("Deposit change would make the waste bank balance negative",
		zap.String("entry_id", e.ID.String()),
		zap.String("resident_id", e.ResidentID.String()),
		zap.Int64("delta", delta),
	)
	return wastebank.ErrBalanceIntegrity
}
