package repository

import (
	"context"

	"library-backend/internal/domains/staff/model"
)

type RepositoryInterface interface {
	// Create returns ErrDuplicateUsername if the username is taken
	Create(ctx context.Context, s *model.Staff) error

	// FindByUsername returns ErrStaffNotFound if not exists
	FindByUsername(ctx context.Context, username string) (*model.Staff, error)
}
