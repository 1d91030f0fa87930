package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

// RepositoryInterface defines data access for loans and the copy flag they drive
type RepositoryInterface interface {
	// Checkout flips the copy to unavailable with a compare-and-set update and
	// inserts l in the same transaction. Returns ErrCopyNotFound when the copy
	// does not exist and ErrCopyOnLoan when it is not available
	Checkout(ctx context.Context, l *model.Loan) error

	// Return stamps return_date on an active loan and frees its copy atomically.
	// Returns ErrLoanNotFound or ErrLoanAlreadyReturned
	Return(ctx context.Context, id uuid.UUID, at time.Time) (*model.Loan, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)

	List(ctx context.Context, filter model.LoanFilter, now time.Time) ([]model.Loan, int64, error)

	// ListByMember returns every loan of the member, newest first
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Loan, error)

	// ListOverdue returns active loans due before now, oldest due first
	ListOverdue(ctx context.Context, now time.Time) ([]model.Loan, error)

	// FindMismatches lists copies whose available flag disagrees with their loans
	FindMismatches(ctx context.Context) ([]model.Mismatch, error)

	// FixAvailability sets the flag to what the loans imply, conditionally on
	// the mismatch still existing. Reports whether a row changed
	FixAvailability(ctx context.Context, copyID uuid.UUID, available bool, at time.Time) (bool, error)
}
