package entity

import (
	"time"

	"github.com/google/uuid"
)

// ServiceProvider issues invoices and owns zero or more webhook
// subscriptions.
type ServiceProvider struct {
	Id          uuid.UUID
	CompanyName string
	Email       string
	Phone       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
