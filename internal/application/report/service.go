package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/printing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// wib is Western Indonesia Time; billing months are calendar months there
var wib = time.FixedZone("WIB", 7*60*60)

// Service builds recaps, exports and receipts
type Service struct {
	reader    Reader
	fees      FeeFinder
	residents resident.Directory
	metrics   *metrics.Ledger
	logger    *zap.Logger
}

// NewService creates a new report Service
func NewService(reader Reader, fees FeeFinder, residents resident.Directory, m *metrics.Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, fees: fees, residents: residents, metrics: m, logger: logger}
}

// MonthlyRecap summarizes one billing month of the admin's neighborhood
func (s *Service) MonthlyRecap(ctx context.Context, p identity.Principal, month string, year int) (recap *Recap, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "monthly_recap")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.Observe("monthly_recap", start, err)
	}()

	if err = p.RequireAdmin(); err != nil {
		return nil, err
	}
	period, err := billing.NewPeriod(month, year)
	if err != nil {
		return nil, err
	}
	return s.buildRecap(ctx, p, period)
}

func (s *Service) buildRecap(ctx context.Context, p identity.Principal, period billing.Period) (*Recap, error) {
	totals, err := s.reader.FeeTotals(ctx, p.Neighborhood, period)
	if err != nil {
		return nil, err
	}
	from, to := monthWindow(period)
	waste, err := s.reader.WasteTotals(ctx, p.Neighborhood, from, to)
	if err != nil {
		return nil, err
	}

	recap := &Recap{
		Neighborhood: p.Neighborhood,
		Period:       period.String(),
		Statuses:     fillStatuses(totals),
		WasteBank:    waste,
	}
	for _, t := range recap.Statuses {
		recap.FeeCount += t.Count
		recap.Billed += t.Amount
		switch t.Status {
		case billing.FeeStatusPaid:
			recap.Collected += t.Amount
		case billing.FeeStatusPendingVerification:
			recap.Pending += t.Amount
		case billing.FeeStatusUnpaid:
			recap.Outstanding += t.Amount
		}
	}
	return recap, nil
}

// ExportRecapXLSX renders the recap and its fee lines as a spreadsheet and
// returns it with a download file name
func (s *Service) ExportRecapXLSX(ctx context.Context, p identity.Principal, month string, year int) (data []byte, filename string, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export_recap")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.Observe("export_recap", start, err)
	}()

	if err = p.RequireAdmin(); err != nil {
		return nil, "", err
	}
	period, err := billing.NewPeriod(month, year)
	if err != nil {
		return nil, "", err
	}
	recap, err := s.buildRecap(ctx, p, period)
	if err != nil {
		return nil, "", err
	}
	lines, err := s.reader.FeeLines(ctx, p.Neighborhood, period)
	if err != nil {
		return nil, "", err
	}

	wb := printing.Workbook{
		Title: fmt.Sprintf("Rekap Iuran %s %s", p.Neighborhood, period),
		Summary: [][2]any{
			{"Jumlah Tagihan", recap.FeeCount},
			{"Total Tagihan (Rp)", recap.Billed},
			{"Terkumpul (Rp)", recap.Collected},
			{"Menunggu Verifikasi (Rp)", recap.Pending},
			{"Belum Dibayar (Rp)", recap.Outstanding},
			{"Tingkat Penagihan", recap.CollectionRate().InexactFloat64()},
			{"Setoran Bank Sampah", recap.WasteBank.DepositCount},
			{"Berat Sampah (kg)", recap.WasteBank.DepositWeight.InexactFloat64()},
			{"Nilai Setoran (Rp)", recap.WasteBank.DepositValue},
			{"Iuran Dibayar dari Saldo (Rp)", recap.WasteBank.SettlementValue},
			{"Total Saldo Warga (Rp)", recap.WasteBank.OutstandingBalance},
		},
		Header: []string{"Nama", "No. Rumah", "Jumlah (Rp)", "Status", "Metode", "Tanggal Bayar"},
	}
	for _, l := range lines {
		paid := ""
		if l.PaidAt != nil {
			paid = l.PaidAt.In(wib).Format("02-01-2006")
		}
		wb.Rows = append(wb.Rows, []any{l.ResidentName, l.HouseNumber, l.Amount, statusLabel(l.Status), l.Method, paid})
	}

	data, err = printing.BuildXLSX(wb)
	if err != nil {
		s.logger.Error("Failed to render recap workbook", zap.Error(err))
		return nil, "", err
	}
	filename = fmt.Sprintf("rekap-iuran-rt%s-rw%s-%d-%02d.xlsx", p.Neighborhood.RT, p.Neighborhood.RW, period.Year, period.Month.Number())
	return data, filename, nil
}

// FeeReceiptPDF renders a receipt for a paid fee the principal may see
func (s *Service) FeeReceiptPDF(ctx context.Context, p identity.Principal, feeID uuid.UUID) (data []byte, filename string, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "fee_receipt")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
		s.metrics.Observe("fee_receipt", start, err)
	}()

	fee, err := s.fees.GetFee(ctx, p, feeID)
	if err != nil {
		return nil, "", err
	}
	if !fee.IsPaid() {
		return nil, "", ErrNotPaid
	}
	res, err := s.residents.FindByID(ctx, fee.ResidentID)
	if err != nil {
		return nil, "", err
	}

	paidAt := fee.UpdatedAt
	if fee.PaidAt != nil {
		paidAt = *fee.PaidAt
	}
	number := strings.ToUpper(strings.ReplaceAll(fee.ID.String(), "-", "")[:12])
	lines := [][2]string{
		{"Nama", res.Name},
		{"No. Rumah", res.HouseNumber},
		{"Wilayah", fee.Neighborhood.String()},
		{"Periode", fee.Period.String()},
		{"Metode", string(fee.Method)},
		{"Tanggal Bayar", paidAt.In(wib).Format("02-01-2006 15:04")},
	}
	if fee.Description != "" {
		lines = append(lines, [2]string{"Keterangan", fee.Description})
	}
	data, err = printing.BuildReceiptPDF(printing.Receipt{
		Title:    "Kuitansi Pembayaran Iuran",
		Number:   number,
		IssuedAt: time.Now().In(wib),
		Lines:    lines,
		Total:    fee.Amount,
		Footer:   "Dokumen ini dibuat otomatis dan sah tanpa tanda tangan.",
	})
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("kuitansi-%s.pdf", strings.ToLower(number)), nil
}

// monthWindow returns the UTC bounds of the period's calendar month in WIB
func monthWindow(period billing.Period) (time.Time, time.Time) {
	from := time.Date(period.Year, time.Month(period.Month.Number()), 1, 0, 0, 0, 0, wib)
	return from.UTC(), from.AddDate(0, 1, 0).UTC()
}

// fillStatuses returns one total per status in a fixed order, zero-filled
func fillStatuses(totals []StatusTotal) []StatusTotal {
	out := []StatusTotal{
		{Status: billing.FeeStatusUnpaid},
		{Status: billing.FeeStatusPendingVerification},
		{Status: billing.FeeStatusPaid},
	}
	for _, t := range totals {
		for i := range out {
			if out[i].Status == t.Status {
				out[i].Count += t.Count
				out[i].Amount += t.Amount
			}
		}
	}
	return out
}

func statusLabel(s billing.FeeStatus) string {
	switch s {
	case billing.FeeStatusPaid:
		return "Lunas"
	case billing.FeeStatusPendingVerification:
		return "Menunggu Verifikasi"
	default:
		return "Belum Dibayar"
	}
}
