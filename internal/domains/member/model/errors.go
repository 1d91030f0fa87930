package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

var (
	ErrMemberNotFound = apperror.NotFound("member not found")

	// ErrDuplicateNationalID is returned when another member holds the national id
	ErrDuplicateNationalID = apperror.Conflict("national id already registered")

	// ErrMemberHasActiveLoans is returned when deleting a member with unreturned loans
	ErrMemberHasActiveLoans = apperror.Conflict("member has active loans")
)

func NewMemberNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrMemberNotFound, id)
}

func NewDuplicateNationalIDError(nationalID string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateNationalID, nationalID)
}

// NewMemberHasActiveLoansError reports how many active loans block the delete
func NewMemberHasActiveLoansError(count int) error {
	return fmt.Errorf("%w: %d active loan(s)", ErrMemberHasActiveLoans, count)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrMemberNotFound)
}

func IsDuplicateNationalIDError(err error) bool {
	return errors.Is(err, ErrDuplicateNationalID)
}
