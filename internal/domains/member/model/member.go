package model

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	ID         uuid.UUID `json:"id" db:"id"`
	NationalID string    `json:"national_id" db:"national_id"`
	Name       string    `json:"name" db:"name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
