package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/edition/model"
)

// ServiceInterface defines the business logic for editions
type ServiceInterface interface {
	// Create returns ErrBookNotFound for an unknown book and ErrDuplicateISBN
	// when the ISBN is already registered
	Create(ctx context.Context, req model.CreateEditionRequest) (*model.Edition, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Edition, error)

	List(ctx context.Context, filter model.EditionFilter) ([]model.Edition, int64, error)

	// Update checks ISBN uniqueness excluding the edition itself
	Update(ctx context.Context, id uuid.UUID, req model.UpdateEditionRequest) (*model.Edition, error)

	// Delete refuses while copies reference the edition (ErrEditionHasCopies with the count)
	Delete(ctx context.Context, id uuid.UUID) error
}
