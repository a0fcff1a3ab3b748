package entity

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	Id        uuid.UUID
	FullName  string
	Email     string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
