package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBalanceStore implements wastebank.BalanceStore on residents.waste_bank_balance
type GormBalanceStore struct {
	db *gorm.DB
}

// NewGormBalanceStore creates a new GormBalanceStore
func NewGormBalanceStore(db *gorm.DB) *GormBalanceStore {
	return &GormBalanceStore{db: db}
}

// AdjustBalance applies delta with a single conditional increment:
//
//	UPDATE residents SET waste_bank_balance = waste_bank_balance + delta
//	WHERE id = ? AND waste_bank_balance + delta >= floor
//
// so concurrent adjustments of the same resident never lose an update and a
// rejected debit writes nothing.
func (s *GormBalanceStore) AdjustBalance(ctx context.Context, residentID uuid.UUID, delta, floor int64) (int64, error) {
	db := s.db.WithContext(ctx)
	result := db.Model(&models.ResidentModel{}).
		Where("id = ? AND waste_bank_balance + ? >= ?", residentID, delta, floor).
		Updates(map[string]any{
			"waste_bank_balance": gorm.Expr("waste_bank_balance + ?", delta),
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.ResidentModel{}).Where("id = ?", residentID).Count(&count).Error; err != nil {
			return 0, wrapDBError(err)
		}
		if count == 0 {
			return 0, resident.ErrResidentNotFound
		}
		return 0, wastebank.ErrBalanceBelowFloor
	}
	return s.GetBalance(ctx, residentID)
}

// GetBalance reads the cached balance
func (s *GormBalanceStore) GetBalance(ctx context.Context, residentID uuid.UUID) (int64, error) {
	var balance int64
	err := s.db.WithContext(ctx).
		Model(&models.ResidentModel{}).
		Select("waste_bank_balance").
		Where("id = ?", residentID).
		Row().Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, resident.ErrResidentNotFound
		}
		return 0, wrapDBError(err)
	}
	return balance, nil
}

// Ensure GormBalanceStore implements wastebank.BalanceStore
var _ wastebank.BalanceStore = (*GormBalanceStore)(nil)
