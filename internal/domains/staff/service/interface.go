package service

import (
	"context"

	"library-backend/internal/domains/staff/model"
)

type ServiceInterface interface {
	// Create hashes the password with bcrypt. Role defaults to librarian
	Create(ctx context.Context, req model.CreateStaffRequest) (*model.Staff, error)

	// Login returns ErrInvalidCredentials for an unknown user or a wrong password
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}
