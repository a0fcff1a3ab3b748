package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Invoice struct {
	Id            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string            `gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProviderId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	TaxAmount     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Status        string            `gorm:"type:varchar(20);not null;default:'pending';index"`
	IssueDate     time.Time         `gorm:"not null"`
	DueDate       time.Time         `gorm:"not null;index"`
	PaidDate      *time.Time        ``
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt    `gorm:"index"`
	Customer      Customer          `gorm:"foreignKey:CustomerId"`
	Provider      ServiceProvider   `gorm:"foreignKey:ProviderId"`
}

func (Invoice) TableName() string {
	return "invoices"
}
