package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/utils"
)

const memberColumns = `id, national_id, name, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) RepositoryInterface {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *model.Member) error {
	query := r.db.Rebind(`
		INSERT INTO members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(ctx, query, m.ID, m.NationalID, m.Name, m.CreatedAt, m.UpdatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateNationalIDError(m.NationalID)
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var m model.Member
	query := r.db.Rebind(`SELECT ` + memberColumns + ` FROM members WHERE id = ?`)
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, model.NewMemberNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get member by id: %w", err)
	}
	return &m, nil
}

func (r *repository) GetByNationalID(ctx context.Context, nationalID string) (*model.Member, error) {
	var m model.Member
	query := r.db.Rebind(`SELECT ` + memberColumns + ` FROM members WHERE national_id = ?`)
	if err := r.db.GetContext(ctx, &m, query, nationalID); err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("%w: national_id=%s", model.ErrMemberNotFound, nationalID)
		}
		return nil, fmt.Errorf("failed to get member by national id: %w", err)
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, filter model.MemberFilter) ([]model.Member, int64, error) {
	where := ""
	args := []interface{}{}
	if filter.Search != "" {
		pattern := utils.LikePattern(filter.Search)
		where = ` WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(national_id) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM members`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := r.db.Rebind(`
		SELECT ` + memberColumns + `
		FROM members` + where + `
		ORDER BY name ASC, id ASC
		LIMIT ? OFFSET ?
	`)

	members := []model.Member{}
	if err := r.db.SelectContext(ctx, &members, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}

	return members, total, nil
}

func (r *repository) Update(ctx context.Context, m *model.Member) error {
	query := r.db.Rebind(`
		UPDATE members
		SET national_id = ?, name = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, m.NationalID, m.Name, m.UpdatedAt, m.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateNationalIDError(m.NationalID)
		}
		return fmt.Errorf("failed to update member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewMemberNotFoundError(m.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`
		DELETE FROM members
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM loans WHERE member_id = ? AND return_date IS NULL)
	`)

	result, err := r.db.ExecContext(ctx, query, id, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 1 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return model.ErrMemberHasActiveLoans
}

func (r *repository) NationalIDTaken(ctx context.Context, nationalID string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM members WHERE national_id = ? AND id <> ?)`)
	if err := r.db.GetContext(ctx, &exists, query, nationalID, excludeID); err != nil {
		return false, fmt.Errorf("failed to check national id: %w", err)
	}
	return exists, nil
}

func (r *repository) CountActiveLoans(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM loans WHERE member_id = ? AND return_date IS NULL`)
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count active loans of member: %w", err)
	}
	return count, nil
}
