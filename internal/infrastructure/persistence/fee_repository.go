package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeeRepository implements billing.FeeRepository using GORM
type GormFeeRepository struct {
	db *gorm.DB
}

// NewGormFeeRepository creates a new GormFeeRepository
func NewGormFeeRepository(db *gorm.DB) *GormFeeRepository {
	return &GormFeeRepository{db: db}
}

// FindByID finds a fee by ID
func (r *GormFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a fee and locks its row (SELECT ... FOR UPDATE)
func (r *GormFeeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormFeeRepository) find(db *gorm.DB, id uuid.UUID) (*billing.Fee, error) {
	var model models.FeeModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrFeeNotFound
		}
		return nil, wrapDBError(err)
	}
	return model.ToDomain(), nil
}

// ExistsForPeriod reports whether the resident already has a fee for the period
func (r *GormFeeRepository) ExistsForPeriod(ctx context.Context, residentID uuid.UUID, period billing.Period) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeeModel{}).
		Where("resident_id = ? AND month = ? AND year = ?", residentID, string(period.Month), period.Year).
		Count(&count).Error
	if err != nil {
		return false, wrapDBError(err)
	}
	return count > 0, nil
}

// List returns one page of fees in the filter's neighborhood, newest first
func (r *GormFeeRepository) List(ctx context.Context, filter billing.FeeFilter) ([]billing.Fee, int64, error) {
	page := filter.Filter.Normalize()

	var total int64
	if err := r.applyFilter(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	var rows []models.FeeModel
	err := r.applyFilter(ctx, filter).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, wrapDBError(err)
	}

	fees := make([]billing.Fee, len(rows))
	for i := range rows {
		fees[i] = *rows[i].ToDomain()
	}
	return fees, total, nil
}

func (r *GormFeeRepository) applyFilter(ctx context.Context, filter billing.FeeFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.FeeModel{}).
		Where("rt = ? AND rw = ?", filter.Neighborhood.RT, filter.Neighborhood.RW)
	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Month != nil {
		query = query.Where("month = ?", string(*filter.Month))
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	return query
}

// Create inserts a new fee; the idx_fee_period unique index is authoritative
func (r *GormFeeRepository) Create(ctx context.Context, fee *billing.Fee) error {
	model := models.FeeModelFromDomain(fee)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return billing.ErrDuplicatePeriod
		}
		return wrapDBError(err)
	}
	return nil
}

// SaveWithLock saves payment state with optimistic locking. Columns are
// selected explicitly so clearing a rejected payment writes NULLs.
func (r *GormFeeRepository) SaveWithLock(ctx context.Context, fee *billing.Fee) error {
	model := models.FeeModelFromDomain(fee)
	result := r.db.WithContext(ctx).
		Model(&models.FeeModel{}).
		Where("id = ? AND version = ?", fee.ID, fee.Version-1).
		Select("status", "payment_date", "payment_method", "payment_proof_ref", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormFeeRepository implements billing.FeeRepository
var _ billing.FeeRepository = (*GormFeeRepository)(nil)
