package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/edition/model"
)

// RepositoryInterface defines data access for editions
type RepositoryInterface interface {
	// Create returns ErrDuplicateISBN if the unique constraint rejects the ISBN
	Create(ctx context.Context, e *model.Edition) error

	// GetByID reads through the cache.
	// Returns ErrEditionNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Edition, error)

	List(ctx context.Context, filter model.EditionFilter) ([]model.Edition, int64, error)

	// Update returns ErrEditionNotFound or ErrDuplicateISBN
	Update(ctx context.Context, e *model.Edition) error

	// Delete returns ErrEditionHasCopies if a copy still references it
	Delete(ctx context.Context, id uuid.UUID) error

	// ISBNTaken reports whether an edition other than excludeID uses isbn.
	// Pass uuid.Nil to check every edition
	ISBNTaken(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error)

	CountCopies(ctx context.Context, id uuid.UUID) (int, error)
}
