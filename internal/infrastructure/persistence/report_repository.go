package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/application/report"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Reader with aggregate queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FeeTotals groups the period's fees by status
func (r *GormReportRepository) FeeTotals(ctx context.Context, hood shared.Neighborhood, period billing.Period) ([]report.StatusTotal, error) {
	var rows []struct {
		Status string
		Count  int64
		Amount int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.FeeModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("rt = ? AND rw = ? AND month = ? AND year = ?", hood.RT, hood.RW, string(period.Month), period.Year).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	totals := make([]report.StatusTotal, len(rows))
	for i, row := range rows {
		totals[i] = report.StatusTotal{Status: billing.FeeStatus(row.Status), Count: row.Count, Amount: row.Amount}
	}
	return totals, nil
}

// FeeLines lists the period's fees with resident names
func (r *GormReportRepository) FeeLines(ctx context.Context, hood shared.Neighborhood, period billing.Period) ([]report.FeeLine, error) {
	var rows []struct {
		ID            uuid.UUID
		Name          string
		HouseNumber   string
		Amount        int64
		Status        string
		PaymentMethod *string
		PaymentDate   *time.Time
	}
	err := r.db.WithContext(ctx).
		Table("fee_payments AS f").
		Select("f.id, r.name, r.house_number, f.amount, f.status, f.payment_method, f.payment_date").
		Joins("JOIN residents AS r ON r.id = f.resident_id").
		Where("f.rt = ? AND f.rw = ? AND f.month = ? AND f.year = ?", hood.RT, hood.RW, string(period.Month), period.Year).
		Order("r.name ASC").
		Order("f.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	lines := make([]report.FeeLine, len(rows))
	for i, row := range rows {
		lines[i] = report.FeeLine{
			FeeID:        row.ID,
			ResidentName: row.Name,
			HouseNumber:  row.HouseNumber,
			Amount:       row.Amount,
			Status:       billing.FeeStatus(row.Status),
			PaidAt:       row.PaymentDate,
		}
		if row.PaymentMethod != nil {
			lines[i].Method = *row.PaymentMethod
		}
	}
	return lines, nil
}

// WasteTotals sums ledger movement dated in [from, to) and the current
// balances of the neighborhood's residents
func (r *GormReportRepository) WasteTotals(ctx context.Context, hood shared.Neighborhood, from, to time.Time) (report.WasteTotals, error) {
	var totals report.WasteTotals
	db := r.db.WithContext(ctx)

	window := func(kind wastebank.EntryKind) *gorm.DB {
		return db.Table("waste_deposits AS w").
			Joins("JOIN residents AS r ON r.id = w.resident_id").
			Where("r.rt = ? AND r.rw = ?", hood.RT, hood.RW).
			Where("w.entry_kind = ? AND w.date >= ? AND w.date < ?", string(kind), from, to)
	}

	var weight decimal.Decimal
	err := window(wastebank.EntryKindDeposit).
		Select("COUNT(*), COALESCE(SUM(w.weight), 0), COALESCE(SUM(w.total_value), 0)").
		Row().Scan(&totals.DepositCount, &weight, &totals.DepositValue)
	if err != nil {
		return report.WasteTotals{}, wrapDBError(err)
	}
	totals.DepositWeight = weight

	var settled int64
	err = window(wastebank.EntryKindFeeSettlement).
		Select("COUNT(*), COALESCE(SUM(w.total_value), 0)").
		Row().Scan(&totals.SettlementCount, &settled)
	if err != nil {
		return report.WasteTotals{}, wrapDBError(err)
	}
	totals.SettlementValue = -settled

	err = db.Model(&models.ResidentModel{}).
		Select("COALESCE(SUM(waste_bank_balance), 0)").
		Where("rt = ? AND rw = ?", hood.RT, hood.RW).
		Row().Scan(&totals.OutstandingBalance)
	if err != nil {
		return report.WasteTotals{}, wrapDBError(err)
	}
	return totals, nil
}

// Ensure GormReportRepository implements report.Reader
var _ report.Reader = (*GormReportRepository)(nil)
