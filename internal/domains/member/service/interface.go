package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/member/model"
)

// ServiceInterface defines the business logic for members
type ServiceInterface interface {
	// Create returns ErrDuplicateNationalID when the national id is registered
	Create(ctx context.Context, req model.CreateMemberRequest) (*model.Member, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error)

	List(ctx context.Context, filter model.MemberFilter) ([]model.Member, int64, error)

	// Update checks national id uniqueness excluding the member itself
	Update(ctx context.Context, id uuid.UUID, req model.UpdateMemberRequest) (*model.Member, error)

	// Delete refuses while the member has active loans (count reported)
	Delete(ctx context.Context, id uuid.UUID) error
}
