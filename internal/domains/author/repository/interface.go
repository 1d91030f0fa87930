package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
)

// RepositoryInterface defines data access for authors
type RepositoryInterface interface {
	// Create inserts an author whose ID and timestamps are already set
	Create(ctx context.Context, a *model.Author) error

	// GetByID reads through the cache.
	// Returns ErrAuthorNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List returns one page plus the total number of matches, ordered by name
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)

	// Update writes name and updated_at.
	// Book author snapshots are not touched.
	// Returns ErrAuthorNotFound if not exists
	Update(ctx context.Context, a *model.Author) error

	// Delete removes the author.
	// Returns ErrAuthorNotFound if not exists, ErrAuthorHasBooks if a book references it
	Delete(ctx context.Context, id uuid.UUID) error

	// CountBooks counts books whose author snapshot references the author
	CountBooks(ctx context.Context, id uuid.UUID) (int, error)
}
