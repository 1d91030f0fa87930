package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
)

// ServiceInterface defines the business logic for authors
type ServiceInterface interface {
	// Create validates the request and stores a new author
	// Returns an invalid-input error if the name is blank or too long
	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)

	// GetByID returns ErrAuthorNotFound if not exists
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List returns one page of authors and the total match count
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)

	// Update applies the non-nil fields of req
	// Existing book snapshots keep the old name
	Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error)

	// Delete refuses while any book references the author (ErrAuthorHasBooks with the count)
	Delete(ctx context.Context, id uuid.UUID) error
}
