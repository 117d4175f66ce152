package models

import (
	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// ResidentModel is the persistence model for the resident registry.
// WasteBankBalance is only written through the balance store.
type ResidentModel struct {
	BaseModel
	UserID           *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name             string     `gorm:"type:varchar(200);not null"`
	HouseNumber      string     `gorm:"type:varchar(50)"`
	Phone            string     `gorm:"type:varchar(30)"`
	RT               string     `gorm:"column:rt;type:varchar(10);not null;index:idx_resident_hood,priority:1"`
	RW               string     `gorm:"column:rw;type:varchar(10);not null;index:idx_resident_hood,priority:2"`
	WasteBankBalance int64      `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ResidentModel) TableName() string {
	return "residents"
}

// ToDomain converts the persistence model to a domain Resident
func (m *ResidentModel) ToDomain() *resident.Resident {
	return &resident.Resident{
		BaseEntity:       m.BaseModel.ToDomain(),
		UserID:           m.UserID,
		Name:             m.Name,
		HouseNumber:      m.HouseNumber,
		Phone:            m.Phone,
		Neighborhood:     shared.Neighborhood{RT: m.RT, RW: m.RW},
		WasteBankBalance: m.WasteBankBalance,
	}
}

// ResidentModelFromDomain creates a persistence model from a domain Resident
func ResidentModelFromDomain(r *resident.Resident) *ResidentModel {
	m := &ResidentModel{
		UserID:           r.UserID,
		Name:             r.Name,
		HouseNumber:      r.HouseNumber,
		Phone:            r.Phone,
		RT:               r.Neighborhood.RT,
		RW:               r.Neighborhood.RW,
		WasteBankBalance: r.WasteBankBalance,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// NeighborhoodAdminModel maps an admin login to the neighborhood it manages
type NeighborhoodAdminModel struct {
	RT     string    `gorm:"column:rt;type:varchar(10);primaryKey"`
	RW     string    `gorm:"column:rw;type:varchar(10);primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (NeighborhoodAdminModel) TableName() string {
	return "neighborhood_admins"
}
