package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// ServiceInterface defines the business logic for books
type ServiceInterface interface {
	// Create snapshots the names of req.AuthorIDs in the given order.
	// Returns ErrAuthorNotFound if any author does not exist
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)

	// GetByID returns ErrBookNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error)

	// Update applies non-nil fields; a non-nil AuthorIDs re-snapshots author names
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)

	// Delete refuses while editions reference the book (ErrBookHasEditions with the count)
	Delete(ctx context.Context, id uuid.UUID) error
}
