package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

// ServiceInterface defines the loan lifecycle and the availability repair pass
type ServiceInterface interface {
	// Checkout lends a copy to a member. At most one of concurrent checkouts
	// of the same copy succeeds; the others get ErrCopyOnLoan
	Checkout(ctx context.Context, req model.CheckoutRequest) (*model.Loan, error)

	// Return closes an active loan and frees its copy.
	// A second return gets ErrLoanAlreadyReturned
	Return(ctx context.Context, id uuid.UUID) (*model.Loan, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)

	List(ctx context.Context, filter model.LoanFilter) ([]model.Loan, int64, error)

	// MemberLoans returns ErrMemberNotFound for an unknown member
	MemberLoans(ctx context.Context, memberID uuid.UUID) (*model.MemberLoans, error)

	// Reconcile finds copies whose flag disagrees with their loans and, unless
	// dryRun, sets each flag to the value the loans imply
	Reconcile(ctx context.Context, dryRun bool) (*model.ReconcileResult, error)

	OverdueSummary(ctx context.Context, now time.Time) (*model.OverdueSummary, error)
}
