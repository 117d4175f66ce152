// Package ledger implements the fee and waste bank ledgers: fee status
// transitions, the two payment methods and the balance bookkeeping around them.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/logger"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// cleanupTimeout bounds best-effort blob deletes that outlive the request
const cleanupTimeout = 30 * time.Second

// Dependencies are the collaborators shared by the ledger services.
// Metrics, Events and Now may be left nil.
type Dependencies struct {
	Fees      billing.FeeRepository
	Entries   wastebank.EntryRepository
	Balances  wastebank.BalanceStore
	Residents resident.Directory
	Scope     TransactionScope
	Proofs    ProofStorage
	Events    shared.EventPublisher
	Metrics   *metrics.Ledger
	Logger    *zap.Logger
	Policy    ProofPolicy
	Now       func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.Policy.MaxBytes == 0 {
		d.Policy = DefaultProofPolicy()
	}
	return d
}

// base carries the plumbing common to both services
type base struct {
	deps Dependencies
}

func (b *base) log(ctx context.Context) *zap.Logger {
	return logger.ForContext(ctx, b.deps.Logger)
}

// finish closes an operation's span and records its metrics
func (b *base) finish(span trace.Span, operation string, start time.Time, err error) {
	if err != nil {
		telemetry.RecordError(span, err)
	}
	span.End()
	b.deps.Metrics.Observe(operation, start, err)
}

// publish hands committed events to the publisher. Delivery failures are
// logged and never reach the caller.
func (b *base) publish(ctx context.Context, events ...shared.DomainEvent) {
	if b.deps.Events == nil || len(events) == 0 {
		return
	}
	if err := b.deps.Events.Publish(ctx, events...); err != nil {
		b.log(ctx).Warn("Failed to publish ledger events", zap.Error(err), zap.Int("count", len(events)))
	}
}

// residentInScope loads a resident the admin may act on. Residents of other
// neighborhoods are reported as not found.
func (b *base) residentInScope(ctx context.Context, p identity.Principal, residentID uuid.UUID) (*resident.Resident, error) {
	res, err := b.deps.Residents.FindByID(ctx, residentID)
	if err != nil {
		return nil, err
	}
	if !res.BelongsTo(p.Neighborhood) {
		return nil, resident.ErrResidentNotFound
	}
	return res, nil
}

// authorizeResidentRead checks read access to a resident's ledger data:
// admins of the resident's neighborhood, or the resident themself.
func (b *base) authorizeResidentRead(ctx context.Context, p identity.Principal, residentID uuid.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsResident() {
		if !p.OwnsResident(residentID) {
			return shared.ErrForbidden
		}
		return nil
	}
	_, err := b.residentInScope(ctx, p, residentID)
	return err
}

// detach returns a context for work that must finish after the request is gone
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

// discardProof deletes a proof blob best-effort
func (b *base) discardProof(ctx context.Context, key, reason string) {
	if key == "" || b.deps.Proofs == nil {
		return
	}
	cctx, cancel := detach(ctx)
	defer cancel()
	if err := b.deps.Proofs.Delete(cctx, key); err != nil {
		b.log(ctx).Warn("Failed to delete payment proof",
			zap.String("proof_ref", key),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
}

func isConcurrencyConflict(err error) bool {
	return errors.Is(err, shared.ErrConcurrencyConflict)
}
