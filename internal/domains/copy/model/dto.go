package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/shared/utils"
)

type CreateCopyRequest struct {
	EditionID uuid.UUID `json:"edition_id" binding:"required"`
}

func (r CreateCopyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EditionID, validation.By(utils.NotNilUUID("edition id"))),
	)
}

// UpdateCopyRequest moves a copy, renumbers it or corrects its availability.
// Moving without a number assigns the target edition's next number.
type UpdateCopyRequest struct {
	Number    *int       `json:"number"`
	EditionID *uuid.UUID `json:"edition_id"`
	Available *bool      `json:"available"`
}

func (r UpdateCopyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Number, validation.By(func(value interface{}) error {
			if n, ok := utils.IntValue(value); ok && n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		})),
		validation.Field(&r.EditionID, validation.By(utils.NotNilUUID("edition id"))),
	)
}

type CopyFilter struct {
	EditionID uuid.UUID
	Available *bool
	Limit     int
	Offset    int
}
