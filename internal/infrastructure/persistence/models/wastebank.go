package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
)

// WasteEntryModel is the persistence model for waste bank ledger entries.
// FeeID is unique so a fee can be settled from the balance at most once.
type WasteEntryModel struct {
	BaseModel
	ResidentID uuid.UUID           `gorm:"type:uuid;not null;index:idx_waste_resident_date,priority:1"`
	Kind       wastebank.EntryKind `gorm:"column:entry_kind;type:varchar(20);not null;default:'DEPOSIT'"`
	WasteType  string              `gorm:"type:varchar(200);not null"`
	Weight     decimal.Decimal     `gorm:"type:decimal(12,3);not null"`
	PricePerKg decimal.Decimal     `gorm:"type:decimal(14,2);not null"`
	TotalValue int64               `gorm:"not null"`
	FeeID      *uuid.UUID          `gorm:"type:uuid;uniqueIndex"`
	RecordedBy *uuid.UUID          `gorm:"type:uuid"`
	Date       time.Time           `gorm:"not null;index:idx_waste_resident_date,priority:2"`
}

// TableName returns the table name for GORM
func (WasteEntryModel) TableName() string {
	return "waste_deposits"
}

// ToDomain converts the persistence model to a domain Entry
func (m *WasteEntryModel) ToDomain() *wastebank.Entry {
	return &wastebank.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		ResidentID: m.ResidentID,
		Kind:       m.Kind,
		WasteType:  m.WasteType,
		Weight:     m.Weight,
		PricePerKg: m.PricePerKg,
		TotalValue: m.TotalValue,
		FeeID:      m.FeeID,
		RecordedBy: m.RecordedBy,
		Date:       m.Date,
	}
}

// WasteEntryModelFromDomain creates a persistence model from a domain Entry
func WasteEntryModelFromDomain(e *wastebank.Entry) *WasteEntryModel {
	m := &WasteEntryModel{
		ResidentID: e.ResidentID,
		Kind:       e.Kind,
		WasteType:  e.WasteType,
		Weight:     e.Weight,
		PricePerKg: e.PricePerKg,
		TotalValue: e.TotalValue,
		FeeID:      e.FeeID,
		RecordedBy: e.RecordedBy,
		Date:       e.Date,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
