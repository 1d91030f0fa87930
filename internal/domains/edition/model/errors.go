package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

var (
	ErrEditionNotFound = apperror.NotFound("edition not found")

	// ErrDuplicateISBN is returned when another edition already uses the ISBN
	ErrDuplicateISBN = apperror.Conflict("isbn already registered")

	// ErrEditionHasCopies is returned when deleting an edition that still has copies
	ErrEditionHasCopies = apperror.Conflict("edition has copies")
)

func NewEditionNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrEditionNotFound, id)
}

func NewDuplicateISBNError(isbn string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateISBN, isbn)
}

// NewEditionHasCopiesError reports how many copies block the delete
func NewEditionHasCopiesError(count int) error {
	return fmt.Errorf("%w: %d copy(ies)", ErrEditionHasCopies, count)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEditionNotFound)
}

func IsDuplicateISBNError(err error) bool {
	return errors.Is(err, ErrDuplicateISBN)
}
