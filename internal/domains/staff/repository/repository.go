package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"library-backend/internal/domains/staff/model"
	"library-backend/internal/infrastructure/database"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) RepositoryInterface {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *model.Staff) error {
	query := r.db.Rebind(`
		INSERT INTO staff (id, username, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Username, s.PasswordHash, s.Role, s.CreatedAt, s.UpdatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateUsernameError(s.Username)
		}
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*model.Staff, error) {
	var s model.Staff
	query := r.db.Rebind(`
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM staff
		WHERE username = ?
	`)

	if err := r.db.GetContext(ctx, &s, query, username); err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("%w: username=%s", model.ErrStaffNotFound, username)
		}
		return nil, fmt.Errorf("failed to find staff by username: %w", err)
	}
	return &s, nil
}
