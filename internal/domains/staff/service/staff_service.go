package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/staff/model"
	"library-backend/internal/domains/staff/repository"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

const passwordCost = 12

type staffService struct {
	repo   repository.RepositoryInterface
	tokens *jwt.Manager
}

func NewStaffService(repo repository.RepositoryInterface, tokens *jwt.Manager) ServiceInterface {
	return &staffService{repo: repo, tokens: tokens}
}

func (s *staffService) Create(ctx context.Context, req model.CreateStaffRequest) (*model.Staff, error) {
	// 1. NORMALISE + VALIDATE
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Role == "" {
		req.Role = model.RoleLibrarian
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	// 2. HASH PASSWORD
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. PERSIST (unique constraint decides duplicates)
	now := utils.Now()
	staff := &model.Staff{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}

	logger.Info("Staff account created", map[string]interface{}{
		"username": staff.Username,
		"role":     staff.Role,
	})
	return staff, nil
}

func (s *staffService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	staff, err := s.repo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(staff.ID.String(), staff.Username, string(staff.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Staff:       staff,
	}, nil
}
