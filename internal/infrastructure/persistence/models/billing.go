package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// FeeModel is the persistence model for the Fee aggregate root.
// Payment columns are NULL while the fee is unpaid.
type FeeModel struct {
	AggregateModel
	ResidentID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_fee_period,priority:1"`
	Month           string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_fee_period,priority:2"`
	Year            int               `gorm:"not null;uniqueIndex:idx_fee_period,priority:3"`
	RT              string            `gorm:"column:rt;type:varchar(10);not null;index:idx_fee_hood,priority:1"`
	RW              string            `gorm:"column:rw;type:varchar(10);not null;index:idx_fee_hood,priority:2"`
	Amount          int64             `gorm:"not null"`
	Description     *string           `gorm:"type:varchar(500)"`
	Status          billing.FeeStatus `gorm:"type:varchar(30);not null;default:'UNPAID';index"`
	PaymentDate     *time.Time
	PaymentMethod   *string `gorm:"type:varchar(50)"`
	PaymentProofRef *string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (FeeModel) TableName() string {
	return "fee_payments"
}

// ToDomain converts the persistence model to a domain Fee
func (m *FeeModel) ToDomain() *billing.Fee {
	return &billing.Fee{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		ResidentID:   m.ResidentID,
		Neighborhood: shared.Neighborhood{RT: m.RT, RW: m.RW},
		Amount:       m.Amount,
		Period:       billing.Period{Month: billing.Month(m.Month), Year: m.Year},
		Description:  derefString(m.Description),
		Status:       m.Status,
		PaidAt:       m.PaymentDate,
		Method:       billing.PaymentMethod(derefString(m.PaymentMethod)),
		ProofRef:     derefString(m.PaymentProofRef),
	}
}

// FeeModelFromDomain creates a persistence model from a domain Fee
func FeeModelFromDomain(f *billing.Fee) *FeeModel {
	m := &FeeModel{
		ResidentID:      f.ResidentID,
		Month:           string(f.Period.Month),
		Year:            f.Period.Year,
		RT:              f.Neighborhood.RT,
		RW:              f.Neighborhood.RW,
		Amount:          f.Amount,
		Description:     nullableString(f.Description),
		Status:          f.Status,
		PaymentDate:     f.PaidAt,
		PaymentMethod:   nullableString(string(f.Method)),
		PaymentProofRef: nullableString(f.ProofRef),
	}
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	return m
}
