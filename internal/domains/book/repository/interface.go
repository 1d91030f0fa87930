package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface defines data access for books and their author snapshots
type RepositoryInterface interface {
	// Create inserts the book and its book_authors rows in one transaction
	Create(ctx context.Context, b *model.Book) error

	// GetByID loads the book with its author snapshot (cached).
	// Returns ErrBookNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// List returns one page ordered by title plus the total match count
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error)

	// Update writes the scalar fields; when replaceAuthors is true the
	// snapshot rows are replaced with b.Authors in the same transaction.
	// Returns ErrBookNotFound if not exists
	Update(ctx context.Context, b *model.Book, replaceAuthors bool) error

	// Delete removes the book (its snapshot rows cascade).
	// Returns ErrBookHasEditions if an edition still references it
	Delete(ctx context.Context, id uuid.UUID) error

	// CountEditions counts editions referencing the book
	CountEditions(ctx context.Context, id uuid.UUID) (int, error)
}
