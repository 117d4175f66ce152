package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormResidentRepository implements resident.Repository using GORM
type GormResidentRepository struct {
	db *gorm.DB
}

// NewGormResidentRepository creates a new GormResidentRepository
func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// FindByID finds a resident by ID
func (r *GormResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*resident.Resident, error) {
	var model models.ResidentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resident.ErrResidentNotFound
		}
		return nil, wrapDBError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the resident linked to a login
func (r *GormResidentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*resident.Resident, error) {
	var model models.ResidentModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resident.ErrResidentNotFound
		}
		return nil, wrapDBError(err)
	}
	return model.ToDomain(), nil
}

// AdminUserIDs returns the admins of a neighborhood
func (r *GormResidentRepository) AdminUserIDs(ctx context.Context, hood shared.Neighborhood) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.NeighborhoodAdminModel{}).
		Where("rt = ? AND rw = ?", hood.RT, hood.RW).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return ids, nil
}

// Save creates or updates a resident's profile. The balance column is only
// written on insert, where it starts at zero.
func (r *GormResidentRepository) Save(ctx context.Context, res *resident.Resident) error {
	model := models.ResidentModelFromDomain(res)
	model.WasteBankBalance = 0
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "name", "house_number", "phone", "rt", "rw", "updated_at"}),
	}).Create(model).Error
	if isUniqueViolation(err) {
		return shared.NewConflictError("USER_ALREADY_LINKED", "This login is already linked to another resident")
	}
	return wrapDBError(err)
}

// AssignAdmin registers a user as admin of a neighborhood
func (r *GormResidentRepository) AssignAdmin(ctx context.Context, hood shared.Neighborhood, userID uuid.UUID) error {
	model := &models.NeighborhoodAdminModel{RT: hood.RT, RW: hood.RW, UserID: userID}
	return wrapDBError(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error)
}

// Ensure GormResidentRepository implements resident.Repository
var _ resident.Repository = (*GormResidentRepository)(nil)
