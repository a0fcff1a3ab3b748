package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName  string         `gorm:"type:varchar(255);not null"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone     string         `gorm:"type:varchar(50)"`
	Status    string         `gorm:"type:varchar(20);default:'active'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Customer) TableName() string {
	return "customers"
}

type ServiceProvider struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyName string         `gorm:"type:varchar(255);not null"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone       string         `gorm:"type:varchar(50)"`
	Status      string         `gorm:"type:varchar(20);default:'active'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ServiceProvider) TableName() string {
	return "service_providers"
}
