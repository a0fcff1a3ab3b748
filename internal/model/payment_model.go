package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	Id                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference            string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	InvoiceId            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerId           uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethod        string          `gorm:"type:varchar(50)"`
	Amount               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status               string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentType          string          `gorm:"type:varchar(10);not null;default:'full'"`
	Gateway              string          `gorm:"type:varchar(50)"`
	GatewayTransactionId string          `gorm:"type:varchar(100)"`
	ProcessedAt          *time.Time      ``
	Notes                string          `gorm:"type:text"`
	CreatedAt            time.Time       `gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime"`
	Invoice              Invoice         `gorm:"foreignKey:InvoiceId"`
}

func (Payment) TableName() string {
	return "payments"
}
