package model

import (
	"time"

	"github.com/google/uuid"
)

// Copy is one lendable item of an edition. Available is false exactly
// while an active loan references the copy.
type Copy struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EditionID uuid.UUID `json:"edition_id" db:"edition_id"`
	Number    int       `json:"number" db:"number"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LoanCounts splits the loans referencing a copy
type LoanCounts struct {
	Active   int `db:"active"`
	Returned int `db:"returned"`
}
