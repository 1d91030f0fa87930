package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-backend/internal/shared/apperror"
)

var (
	ErrCopyNotFound = apperror.NotFound("copy not found")

	// ErrDuplicateCopyNumber is returned when the number is taken within the edition
	ErrDuplicateCopyNumber = apperror.Conflict("copy number already used in edition")

	// ErrCopyOnLoan is returned when an active loan blocks the operation
	ErrCopyOnLoan = apperror.Conflict("copy is on loan")

	// ErrCopyHasLoanHistory is returned when deleting a copy with returned loans without force
	ErrCopyHasLoanHistory = apperror.Conflict("copy has loan history, confirm with force")

	// ErrCopyNotOnLoan is returned when marking a copy unavailable without an active loan
	ErrCopyNotOnLoan = apperror.Conflict("copy has no active loan, availability follows loans")
)

func NewCopyNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrCopyNotFound, id)
}

func NewDuplicateCopyNumberError(editionID uuid.UUID, number int) error {
	return fmt.Errorf("%w: edition=%s number=%d", ErrDuplicateCopyNumber, editionID, number)
}

func NewCopyOnLoanError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrCopyOnLoan, id)
}

// NewCopyHasLoanHistoryError reports how many returned loans reference the copy
func NewCopyHasLoanHistoryError(count int) error {
	return fmt.Errorf("%w: %d loan(s)", ErrCopyHasLoanHistory, count)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrCopyNotFound)
}

func IsDuplicateNumberError(err error) bool {
	return errors.Is(err, ErrDuplicateCopyNumber)
}

func IsOnLoanError(err error) bool {
	return errors.Is(err, ErrCopyOnLoan)
}
