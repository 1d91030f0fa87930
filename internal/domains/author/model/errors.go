package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

// ===================================
// DOMAIN ERRORS
// ===================================

var (
	// ErrAuthorNotFound is returned when the author does not exist
	ErrAuthorNotFound = apperror.NotFound("author not found")

	// ErrAuthorHasBooks is returned when deleting an author still referenced by books
	ErrAuthorHasBooks = apperror.Conflict("author is referenced by books")
)

// NewAuthorNotFoundError adds the missing id
func NewAuthorNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrAuthorNotFound, id)
}

// NewAuthorHasBooksError reports how many books still reference the author
func NewAuthorHasBooksError(count int) error {
	return fmt.Errorf("%w: %d book(s)", ErrAuthorHasBooks, count)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAuthorNotFound)
}
