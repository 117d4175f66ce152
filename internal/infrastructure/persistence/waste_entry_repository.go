package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWasteEntryRepository implements wastebank.EntryRepository using GORM
type GormWasteEntryRepository struct {
	db *gorm.DB
}

// NewGormWasteEntryRepository creates a new GormWasteEntryRepository
func NewGormWasteEntryRepository(db *gorm.DB) *GormWasteEntryRepository {
	return &GormWasteEntryRepository{db: db}
}

// FindByID finds an entry by ID
func (r *GormWasteEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*wastebank.Entry, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds an entry and locks its row
func (r *GormWasteEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*wastebank.Entry, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormWasteEntryRepository) find(db *gorm.DB, id uuid.UUID) (*wastebank.Entry, error) {
	var model models.WasteEntryModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wastebank.ErrEntryNotFound
		}
		return nil, wrapDBError(err)
	}
	return model.ToDomain(), nil
}

// List returns one page of ledger entries in the filter's neighborhood, newest first
func (r *GormWasteEntryRepository) List(ctx context.Context, filter wastebank.EntryFilter) ([]wastebank.Entry, int64, error) {
	page := filter.Filter.Normalize()

	var total int64
	if err := r.applyFilter(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	var rows []models.WasteEntryModel
	err := r.applyFilter(ctx, filter).
		Order("waste_deposits.date DESC").
		Order("waste_deposits.id DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, wrapDBError(err)
	}

	entries := make([]wastebank.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, total, nil
}

func (r *GormWasteEntryRepository) applyFilter(ctx context.Context, filter wastebank.EntryFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.WasteEntryModel{}).
		Joins("JOIN residents ON residents.id = waste_deposits.resident_id").
		Where("residents.rt = ? AND residents.rw = ?", filter.Neighborhood.RT, filter.Neighborhood.RW)
	if filter.ResidentID != nil {
		query = query.Where("waste_deposits.resident_id = ?", *filter.ResidentID)
	}
	if filter.Kind != nil {
		query = query.Where("waste_deposits.entry_kind = ?", string(*filter.Kind))
	}
	return query
}

// Create inserts a new entry
func (r *GormWasteEntryRepository) Create(ctx context.Context, entry *wastebank.Entry) error {
	err := r.db.WithContext(ctx).Create(models.WasteEntryModelFromDomain(entry)).Error
	if isUniqueViolation(err) {
		return shared.NewConflictError("ALREADY_SETTLED", "This bill was already settled from the waste bank balance")
	}
	return wrapDBError(err)
}

// Update rewrites a deposit's measurements
func (r *GormWasteEntryRepository) Update(ctx context.Context, entry *wastebank.Entry) error {
	model := models.WasteEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&models.WasteEntryModel{}).
		Where("id = ? AND entry_kind = ?", entry.ID, string(wastebank.EntryKindDeposit)).
		Select("waste_type", "weight", "price_per_kg", "total_value", "updated_at").
		Updates(model)
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return wastebank.ErrEntryNotFound
	}
	return nil
}

// Delete removes an entry
func (r *GormWasteEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WasteEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return wastebank.ErrEntryNotFound
	}
	return nil
}

// SumByResident re-derives a resident's balance from the ledger
func (r *GormWasteEntryRepository) SumByResident(ctx context.Context, residentID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.WasteEntryModel{}).
		Select("COALESCE(SUM(total_value), 0)").
		Where("resident_id = ?", residentID).
		Row().Scan(&sum)
	if err != nil {
		return 0, wrapDBError(err)
	}
	return sum, nil
}

// Ensure GormWasteEntryRepository implements wastebank.EntryRepository
var _ wastebank.EntryRepository = (*GormWasteEntryRepository)(nil)
