package ledger

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// FeeService owns fee records and the bank transfer payment flow
type FeeService struct {
	base
}

// NewFeeService creates a new FeeService
func NewFeeService(deps Dependencies) *FeeService {
	return &FeeService{base{deps: deps.withDefaults()}}
}

// CreateFee bills a resident of the admin's neighborhood for one period
func (s *FeeService) CreateFee(ctx context.Context, p identity.Principal, in CreateFeeInput) (fee *billing.Fee, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fee", "create")
	defer func() { s.finish(span, "create_fee", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrResidentID, in.ResidentID, telemetry.AttrAmount, in.Amount)

	if err = p.RequireAdmin(); err != nil {
		return nil, err
	}
	res, err := s.residentInScope(ctx, p, in.ResidentID)
	if err != nil {
		return nil, err
	}
	period, err := billing.NewPeriod(in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	fee, err = billing.NewFee(res.ID, res.Neighborhood, in.Amount, period, in.Description)
	if err != nil {
		return nil, err
	}

	// Fast path for a friendly error; the unique index decides under races.
	exists, err := s.deps.Fees.ExistsForPeriod(ctx, res.ID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, billing.ErrDuplicatePeriod
	}
	if err = s.deps.Fees.Create(ctx, fee); err != nil {
		return nil, err
	}

	s.log(ctx).Info("Fee created",
		zap.String("fee_id", fee.ID.String()),
		zap.String("resident_id", res.ID.String()),
		zap.String("period", period.String()),
		zap.Int64("amount", fee.Amount),
	)
	s.publish(ctx, fee.DomainEvents()...)
	fee.ClearDomainEvents()
	return fee, nil
}

// SubmitTransferPayment stores a transfer proof and moves the resident's own
// fee to pending verification. Submitting again while pending replaces the
// earlier proof.
func (s *FeeService) SubmitTransferPayment(ctx context.Context, p identity.Principal, in SubmitTransferInput) (fee *billing.Fee, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fee", "submit_transfer")
	defer func() { s.finish(span, "submit_transfer", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrFeeID, in.FeeID)

	if err = p.RequireResident(); err != nil {
		return nil, err
	}
	current, err := s.deps.Fees.FindByID(ctx, in.FeeID)
	if err != nil {
		return nil, err
	}
	if !p.OwnsResident(current.ResidentID) {
		return nil, billing.ErrFeeNotFound
	}
	if current.IsPaid() {
		return nil, billing.ErrAlreadyPaid
	}
	method, err := billing.ParseTransferMethod(in.Method)
	if err != nil {
		return nil, err
	}
	contentType, ext, err := s.checkProof(in.Proof)
	if err != nil {
		return nil, err
	}

	key := proofKey(current.ID, ext)
	if err = s.deps.Proofs.Upload(ctx, key, in.Proof.Data, contentType); err != nil {
		return nil, shared.NewDependencyError("PROOF_STORAGE_UNAVAILABLE", err)
	}

	var replaced string
	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		f, err := repos.Fees().FindByIDForUpdate(ctx, in.FeeID)
		if err != nil {
			return err
		}
		replaced, err = f.SubmitTransfer(method, key, s.deps.Now())
		if err != nil {
			return err
		}
		if err := repos.Fees().SaveWithLock(ctx, f); err != nil {
			return err
		}
		fee = f
		return nil
	})
	if err != nil {
		s.discardProof(ctx, key, "submission not recorded")
		return nil, err
	}

	s.discardProof(ctx, replaced, "replaced by resubmission")
	s.log(ctx).Info("Transfer payment submitted",
		zap.String("fee_id", fee.ID.String()),
		zap.Bool("resubmitted", replaced != ""),
	)
	s.publish(ctx, fee.DomainEvents()...)
	fee.ClearDomainEvents()
	return fee, nil
}

// VerifyPayment approves or rejects a pending transfer of the admin's
// neighborhood. A fee that stopped being pending before the write lands
// fails with ErrNotPending.
func (s *FeeService) VerifyPayment(ctx context.Context, p identity.Principal, in VerifyPaymentInput) (fee *billing.Fee, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fee", "verify")
	defer func() { s.finish(span, "verify_payment", start, err) }()
	telemetry.SetAttributes(span, telemetry.AttrFeeID, in.FeeID, "action", string(in.Action))

	if err = p.RequireAdmin(); err != nil {
		return nil, err
	}
	if in.Action != VerifyApprove && in.Action != VerifyReject {
		return nil, shared.NewValidationError("INVALID_ACTION", "Action must be \"approve\" or \"reject\"")
	}

	var discarded string
	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		f, err := repos.Fees().FindByIDForUpdate(ctx, in.FeeID)
		if err != nil {
			return err
		}
		if !f.Neighborhood.Equals(p.Neighborhood) {
			return billing.ErrFeeNotFound
		}
		now := s.deps.Now()
		if in.Action == VerifyApprove {
			err = f.Approve(p.UserID, now)
		} else {
			discarded, err = f.Reject(p.UserID, in.Reason, now)
		}
		if err != nil {
			return err
		}
		if err := repos.Fees().SaveWithLock(ctx, f); err != nil {
			if isConcurrencyConflict(err) {
				return billing.ErrNotPending
			}
			return err
		}
		fee = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.discardProof(ctx, discarded, "payment rejected")
	s.log(ctx).Info("Transfer payment verified",
		zap.String("fee_id", fee.ID.String()),
		zap.String("action", string(in.Action)),
		zap.String("admin_id", p.UserID.String()),
	)
	telemetry.AddEvent(span, "payment_verified", "status", fee.Status.String())
	s.publish(ctx, fee.DomainEvents()...)
	fee.ClearDomainEvents()
	return fee, nil
}

// ListFees returns one page of fees visible to the principal. Residents only
// ever see their own fees whatever resident filter they pass.
func (s *FeeService) ListFees(ctx context.Context, p identity.Principal, in ListFeesInput) (fees []billing.Fee, total int64, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fee", "list")
	defer func() { s.finish(span, "list_fees", start, err) }()

	if err = p.Validate(); err != nil {
		return nil, 0, err
	}
	filter := billing.FeeFilter{
		Filter:       shared.Filter{Page: in.Page, PageSize: in.PageSize},
		Neighborhood: p.Neighborhood,
		ResidentID:   in.ResidentID,
	}
	if p.IsResident() {
		filter.ResidentID = p.ResidentID
	}
	if in.Status != "" {
		status := billing.FeeStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Unknown fee status %q", in.Status))
		}
		filter.Status = &status
	}
	if in.Month != "" {
		month, err := billing.ParseMonth(in.Month)
		if err != nil {
			return nil, 0, err
		}
		filter.Month = &month
	}
	if in.Year != 0 {
		if in.Year < billing.MinYear || in.Year > billing.MaxYear {
			return nil, 0, shared.NewValidationError("INVALID_YEAR", fmt.Sprintf("Year must be between %d and %d", billing.MinYear, billing.MaxYear))
		}
		year := in.Year
		filter.Year = &year
	}
	return s.deps.Fees.List(ctx, filter)
}

// GetFee returns a fee visible to the principal
func (s *FeeService) GetFee(ctx context.Context, p identity.Principal, feeID uuid.UUID) (fee *billing.Fee, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fee", "get")
	defer func() { s.finish(span, "get_fee", start, err) }()
	return s.visibleFee(ctx, p, feeID)
}

// ProofURL returns a short-lived download link for a fee's transfer proof
func (s *FeeService) ProofURL(ctx context.Context, p identity.Principal, feeID uuid.UUID) (url string, expiresAt time.Time, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fee", "proof_url")
	defer func() { s.finish(span, "proof_url", start, err) }()

	fee, err := s.visibleFee(ctx, p, feeID)
	if err != nil {
		return "", time.Time{}, err
	}
	if fee.ProofRef == "" {
		return "", time.Time{}, shared.NewNotFoundError("PROOF_NOT_FOUND", "This bill has no payment proof")
	}
	url, expiresAt, err = s.deps.Proofs.PresignGet(ctx, fee.ProofRef, s.deps.Policy.PresignExpiry)
	if err != nil {
		return "", time.Time{}, shared.NewDependencyError("PROOF_STORAGE_UNAVAILABLE", err)
	}
	return url, expiresAt, nil
}

func (s *FeeService) visibleFee(ctx context.Context, p identity.Principal, feeID uuid.UUID) (*billing.Fee, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	fee, err := s.deps.Fees.FindByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if p.IsResident() && !p.OwnsResident(fee.ResidentID) {
		return nil, billing.ErrFeeNotFound
	}
	if p.IsAdmin() && !fee.Neighborhood.Equals(p.Neighborhood) {
		return nil, billing.ErrFeeNotFound
	}
	return fee, nil
}

var proofExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// checkProof validates a proof upload and returns its sniffed content type
// and the file extension to store it under
func (s *FeeService) checkProof(proof ProofUpload) (string, string, error) {
	if len(proof.Data) == 0 {
		return "", "", billing.ErrProofRequired
	}
	if int64(len(proof.Data)) > s.deps.Policy.MaxBytes {
		return "", "", shared.NewValidationError("PROOF_TOO_LARGE",
			fmt.Sprintf("Payment proof cannot exceed %d bytes", s.deps.Policy.MaxBytes))
	}
	contentType := http.DetectContentType(proof.Data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !slices.Contains(s.deps.Policy.ContentTypes, contentType) {
		return "", "", shared.NewValidationError("INVALID_PROOF_TYPE", "Payment proof must be an image")
	}
	ext, ok := proofExtensions[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(proof.Filename))
	}
	return contentType, ext, nil
}

// proofKey is proofs/<fee_id>/<uuid><ext>
func proofKey(feeID uuid.UUID, ext string) string {
	return fmt.Sprintf("proofs/%s/%s%s", feeID, uuid.New(), ext)
}
