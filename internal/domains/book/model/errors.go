package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

var (
	// ErrBookNotFound is returned when the book does not exist
	ErrBookNotFound = apperror.NotFound("book not found")

	// ErrBookHasEditions is returned when deleting a book that still has editions
	ErrBookHasEditions = apperror.Conflict("book has editions")
)

func NewBookNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrBookNotFound, id)
}

// NewBookHasEditionsError reports how many editions block the delete
func NewBookHasEditionsError(count int) error {
	return fmt.Errorf("%w: %d edition(s)", ErrBookHasEditions, count)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookNotFound)
}
