package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/copy/model"
)

// RepositoryInterface defines data access for copies
type RepositoryInterface interface {
	// Create inserts the copy.
	// Returns ErrDuplicateCopyNumber if (edition_id, number) is taken
	Create(ctx context.Context, c *model.Copy) error

	// GetByID returns ErrCopyNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Copy, error)

	List(ctx context.Context, filter model.CopyFilter) ([]model.Copy, int64, error)

	// Update writes edition_id and number; available is left alone.
	// Returns ErrCopyNotFound or ErrDuplicateCopyNumber
	Update(ctx context.Context, c *model.Copy) error

	// SetAvailability applies the flag only when the copy's loans agree with it:
	// true needs no active loan (else ErrCopyOnLoan), false needs one (else ErrCopyNotOnLoan)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool, at time.Time) error

	// Delete removes the copy unless an active loan references it (ErrCopyOnLoan).
	// Loan history is kept
	Delete(ctx context.Context, id uuid.UUID) error

	// NextNumber returns max(number)+1 within the edition, or 1
	NextNumber(ctx context.Context, editionID uuid.UUID) (int, error)

	// NumberTaken reports whether a copy other than excludeID holds number in the edition
	NumberTaken(ctx context.Context, editionID uuid.UUID, number int, excludeID uuid.UUID) (bool, error)

	LoanCounts(ctx context.Context, id uuid.UUID) (model.LoanCounts, error)
}
