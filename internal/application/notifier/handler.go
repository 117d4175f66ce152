// Package notifier turns committed ledger events into inbox notices for
// residents and the admins of their neighborhood.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/notification"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// LedgerNoticeHandler delivers a notice for every fee and deposit event to
// the resident. Transfer submissions and balance settlements also notify every
// admin of the resident's neighborhood.
type LedgerNoticeHandler struct {
	residents resident.Directory
	sink      notification.Sink
	metrics   *metrics.Ledger
	logger    *zap.Logger
}

// NewLedgerNoticeHandler creates a new LedgerNoticeHandler
func NewLedgerNoticeHandler(residents resident.Directory, sink notification.Sink, logger *zap.Logger) *LedgerNoticeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerNoticeHandler{residents: residents, sink: sink, logger: logger}
}

// WithMetrics counts delivery attempts
func (h *LedgerNoticeHandler) WithMetrics(m *metrics.Ledger) *LedgerNoticeHandler {
	h.metrics = m
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerNoticeHandler) EventTypes() []string {
	return []string{
		billing.EventTypeFeeCreated,
		billing.EventTypeFeePaymentSubmitted,
		billing.EventTypeFeePaymentVerified,
		billing.EventTypeFeeSettled,
		wastebank.EventTypeDepositRecorded,
		wastebank.EventTypeDepositRevised,
		wastebank.EventTypeDepositRemoved,
	}
}

// Handle builds the notices for one event and sends each of them. A failed
// send does not stop the others; the joined error is returned for logging.
func (h *LedgerNoticeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	// notices built before a lookup failure are still delivered
	notices, err := h.noticesFor(ctx, event)
	errs := []error{err}
	for _, n := range notices {
		err := h.sink.Send(ctx, n)
		h.metrics.NoticeSent(err)
		if err != nil {
			h.logger.Warn("Failed to deliver notice",
				zap.String("event_type", event.EventType()),
				zap.String("user_id", n.UserID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *LedgerNoticeHandler) noticesFor(ctx context.Context, event shared.DomainEvent) ([]notification.Notice, error) {
	switch e := event.(type) {
	case *billing.FeeCreatedEvent:
		return h.toResident(ctx, e.ResidentID, notification.SeverityInfo,
			"Tagihan iuran baru",
			fmt.Sprintf("Tagihan iuran %s sebesar %s telah dibuat.", e.Period, printing.FormatRupiah(e.Amount)))

	case *billing.FeePaymentSubmittedEvent:
		res, err := h.residents.FindByID(ctx, e.ResidentID)
		if err != nil {
			return nil, err
		}
		ack := h.residentNotice(res, notification.SeverityInfo,
			"Bukti transfer terkirim",
			fmt.Sprintf("Bukti transfer iuran %s sebesar %s sedang menunggu verifikasi pengurus.", e.Period, printing.FormatRupiah(e.Amount)))
		admins, err := h.toAdmins(ctx, e.Neighborhood, notification.SeverityInfo,
			"Pembayaran menunggu verifikasi",
			fmt.Sprintf("%s (No. %s) mengunggah bukti transfer iuran %s sebesar %s.", res.Name, res.HouseNumber, e.Period, printing.FormatRupiah(e.Amount)))
		return append(ack, admins...), err

	case *billing.FeePaymentVerifiedEvent:
		if e.Approved {
			return h.toResident(ctx, e.ResidentID, notification.SeveritySuccess,
				"Pembayaran diterima",
				fmt.Sprintf("Pembayaran iuran %s sebesar %s telah diverifikasi.", e.Period, printing.FormatRupiah(e.Amount)))
		}
		msg := fmt.Sprintf("Pembayaran iuran %s ditolak. Silakan unggah ulang bukti transfer.", e.Period)
		if e.Reason != "" {
			msg = fmt.Sprintf("Pembayaran iuran %s ditolak: %s. Silakan unggah ulang bukti transfer.", e.Period, e.Reason)
		}
		return h.toResident(ctx, e.ResidentID, notification.SeverityWarning, "Pembayaran ditolak", msg)

	case *billing.FeeSettledEvent:
		res, err := h.residents.FindByID(ctx, e.ResidentID)
		if err != nil {
			return nil, err
		}
		paid := h.residentNotice(res, notification.SeveritySuccess,
			"Iuran dibayar dengan saldo bank sampah",
			fmt.Sprintf("Iuran %s sebesar %s telah dibayar. Sisa saldo %s.",
				e.Period, printing.FormatRupiah(e.Amount), printing.FormatRupiah(e.NewBalance)))
		admins, err := h.toAdmins(ctx, e.Neighborhood, notification.SeverityInfo,
			"Iuran lunas via bank sampah",
			fmt.Sprintf("%s (No. %s) membayar iuran %s sebesar %s dengan saldo bank sampah.", res.Name, res.HouseNumber, e.Period, printing.FormatRupiah(e.Amount)))
		return append(paid, admins...), err

	case *wastebank.DepositEvent:
		return h.depositNotice(ctx, e)
	}
	return nil, fmt.Errorf("unexpected event type: %s", event.EventType())
}

func (h *LedgerNoticeHandler) depositNotice(ctx context.Context, e *wastebank.DepositEvent) ([]notification.Notice, error) {
	balance := printing.FormatRupiah(e.NewBalance)
	switch e.EventType() {
	case wastebank.EventTypeDepositRecorded:
		return h.toResident(ctx, e.ResidentID, notification.SeveritySuccess,
			"Setoran bank sampah tercatat",
			fmt.Sprintf("Setoran %s %s kg senilai %s telah dicatat. Saldo Anda %s.",
				e.WasteType, e.Weight, printing.FormatRupiah(e.TotalValue), balance))
	case wastebank.EventTypeDepositRevised:
		return h.toResident(ctx, e.ResidentID, notification.SeverityInfo,
			"Setoran bank sampah diperbarui",
			fmt.Sprintf("Setoran %s diperbarui menjadi %s kg senilai %s. Saldo Anda %s.",
				e.WasteType, e.Weight, printing.FormatRupiah(e.TotalValue), balance))
	default:
		return h.toResident(ctx, e.ResidentID, notification.SeverityWarning,
			"Setoran bank sampah dihapus",
			fmt.Sprintf("Setoran %s senilai %s telah dihapus. Saldo Anda %s.",
				e.WasteType, printing.FormatRupiah(e.TotalValue), balance))
	}
}

func (h *LedgerNoticeHandler) toResident(ctx context.Context, residentID uuid.UUID, severity notification.Severity, title, message string) ([]notification.Notice, error) {
	res, err := h.residents.FindByID(ctx, residentID)
	if err != nil {
		return nil, err
	}
	return h.residentNotice(res, severity, title, message), nil
}

func (h *LedgerNoticeHandler) residentNotice(res *resident.Resident, severity notification.Severity, title, message string) []notification.Notice {
	if res.UserID == nil {
		h.logger.Debug("Resident has no login, skipping notice", zap.String("resident_id", res.ID.String()))
		return nil
	}
	return []notification.Notice{{UserID: *res.UserID, Title: title, Message: message, Severity: severity}}
}

// toAdmins notifies every admin of the resident's own neighborhood
func (h *LedgerNoticeHandler) toAdmins(ctx context.Context, hood shared.Neighborhood, severity notification.Severity, title, message string) ([]notification.Notice, error) {
	admins, err := h.residents.AdminUserIDs(ctx, hood)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		h.logger.Warn("Neighborhood has no admin to notify", zap.String("neighborhood", hood.String()))
		return nil, nil
	}

	notices := make([]notification.Notice, 0, len(admins))
	for _, id := range admins {
		notices = append(notices, notification.Notice{UserID: id, Title: title, Message: message, Severity: severity})
	}
	return notices, nil
}

var _ shared.EventHandler = (*LedgerNoticeHandler)(nil)
