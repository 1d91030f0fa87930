package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/copy/model"
)

// ServiceInterface defines the business logic for copies
type ServiceInterface interface {
	// Create assigns the edition's next sequential number and starts available
	Create(ctx context.Context, req model.CreateCopyRequest) (*model.Copy, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Copy, error)

	List(ctx context.Context, filter model.CopyFilter) ([]model.Copy, int64, error)

	// Update renumbers or moves the copy. Available may only be set to the
	// value its loans imply (ErrCopyOnLoan / ErrCopyNotOnLoan otherwise)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCopyRequest) (*model.Copy, error)

	// Delete refuses while a loan is active. Returned loans block the delete
	// unless force is set; the loan history is kept either way
	Delete(ctx context.Context, id uuid.UUID, force bool) error
}
