package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/member/model"
)

// RepositoryInterface defines data access for members
type RepositoryInterface interface {
	// Create returns ErrDuplicateNationalID if the unique constraint rejects it
	Create(ctx context.Context, m *model.Member) error

	// GetByID returns ErrMemberNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error)

	// GetByNationalID is an exact lookup.
	// Returns ErrMemberNotFound if not exists
	GetByNationalID(ctx context.Context, nationalID string) (*model.Member, error)

	List(ctx context.Context, filter model.MemberFilter) ([]model.Member, int64, error)

	// Update returns ErrMemberNotFound or ErrDuplicateNationalID
	Update(ctx context.Context, m *model.Member) error

	// Delete removes the member unless an active loan references it
	// (ErrMemberHasActiveLoans). Returned loans are kept
	Delete(ctx context.Context, id uuid.UUID) error

	NationalIDTaken(ctx context.Context, nationalID string, excludeID uuid.UUID) (bool, error)

	CountActiveLoans(ctx context.Context, id uuid.UUID) (int, error)
}
