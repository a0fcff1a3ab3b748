package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Refund struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference       string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	PaymentId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerId      uuid.UUID       `gorm:"type:uuid;not null"`
	ProcessedBy     *uuid.UUID      `gorm:"type:uuid"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	RefundType      string          `gorm:"type:varchar(10);not null;default:'partial'"`
	Reason          string          `gorm:"type:text"`
	Gateway         string          `gorm:"type:varchar(50)"`
	GatewayRefundId string          `gorm:"type:varchar(100)"`
	ProcessedAt     *time.Time      ``
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	Payment         Payment         `gorm:"foreignKey:PaymentId"`
	Invoice         Invoice         `gorm:"foreignKey:InvoiceId"`
}

func (Refund) TableName() string {
	return "refunds"
}
