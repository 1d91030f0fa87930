package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

var (
	ErrLoanNotFound = apperror.NotFound("loan not found")

	// ErrLoanAlreadyReturned is returned on a second return of the same loan
	ErrLoanAlreadyReturned = apperror.Conflict("loan already returned")

	ErrDueDateInPast = apperror.InvalidInput("due date is in the past")
)

func NewLoanNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrLoanNotFound, id)
}

func NewLoanAlreadyReturnedError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrLoanAlreadyReturned, id)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrLoanNotFound)
}

func IsAlreadyReturnedError(err error) bool {
	return errors.Is(err, ErrLoanAlreadyReturned)
}
