package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"library-backend/internal/domains/copy/model"
	"library-backend/internal/infrastructure/database"
)

const copyColumns = `id, edition_id, number, available, created_at, updated_at`

// Copies are not cached: availability flips on every checkout and return.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) RepositoryInterface {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *model.Copy) error {
	query := r.db.Rebind(`
		INSERT INTO copies (` + copyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.EditionID, c.Number, c.Available, c.CreatedAt, c.UpdatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateCopyNumberError(c.EditionID, c.Number)
		}
		return fmt.Errorf("failed to create copy: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Copy, error) {
	var c model.Copy
	query := r.db.Rebind(`SELECT ` + copyColumns + ` FROM copies WHERE id = ?`)
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, model.NewCopyNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get copy by id: %w", err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, filter model.CopyFilter) ([]model.Copy, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.EditionID != uuid.Nil {
		where += " AND edition_id = ?"
		args = append(args, filter.EditionID)
	}
	if filter.Available != nil {
		where += " AND available = ?"
		args = append(args, *filter.Available)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM copies`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count copies: %w", err)
	}

	query := r.db.Rebind(`
		SELECT ` + copyColumns + `
		FROM copies` + where + `
		ORDER BY edition_id ASC, number ASC
		LIMIT ? OFFSET ?
	`)

	copies := []model.Copy{}
	if err := r.db.SelectContext(ctx, &copies, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list copies: %w", err)
	}

	return copies, total, nil
}

func (r *repository) Update(ctx context.Context, c *model.Copy) error {
	query := r.db.Rebind(`
		UPDATE copies
		SET edition_id = ?, number = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, c.EditionID, c.Number, c.UpdatedAt, c.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateCopyNumberError(c.EditionID, c.Number)
		}
		return fmt.Errorf("failed to update copy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewCopyNotFoundError(c.ID)
	}
	return nil
}

func (r *repository) SetAvailability(ctx context.Context, id uuid.UUID, available bool, at time.Time) error {
	// The loan state is checked by the statement itself, never from an earlier read
	query := `
		UPDATE copies
		SET available = ?, updated_at = ?
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM loans WHERE copy_id = ? AND return_date IS NULL)`
	if !available {
		query = `
		UPDATE copies
		SET available = ?, updated_at = ?
		WHERE id = ?
		  AND EXISTS (SELECT 1 FROM loans WHERE copy_id = ? AND return_date IS NULL)`
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), available, at, id, id)
	if err != nil {
		return fmt.Errorf("failed to set copy availability: %w", err)
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
	if available {
		return model.NewCopyOnLoanError(id)
	}
	return model.ErrCopyNotOnLoan
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`
		DELETE FROM copies
		WHERE id = ?
		  AND NOT EXISTS (SELECT 1 FROM loans WHERE copy_id = ? AND return_date IS NULL)
	`)

	result, err := r.db.ExecContext(ctx, query, id, id)
	if err != nil {
		return fmt.Errorf("failed to delete copy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 1 {
		return nil
	}

	// Nothing deleted: either the copy is gone or a checkout won the race
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return model.NewCopyOnLoanError(id)
}

func (r *repository) NextNumber(ctx context.Context, editionID uuid.UUID) (int, error) {
	var next int
	query := r.db.Rebind(`SELECT COALESCE(MAX(number), 0) + 1 FROM copies WHERE edition_id = ?`)
	if err := r.db.GetContext(ctx, &next, query, editionID); err != nil {
		return 0, fmt.Errorf("failed to compute next copy number: %w", err)
	}
	return next, nil
}

func (r *repository) NumberTaken(ctx context.Context, editionID uuid.UUID, number int, excludeID uuid.UUID) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM copies WHERE edition_id = ? AND number = ? AND id <> ?)`)
	if err := r.db.GetContext(ctx, &exists, query, editionID, number, excludeID); err != nil {
		return false, fmt.Errorf("failed to check copy number: %w", err)
	}
	return exists, nil
}

func (r *repository) LoanCounts(ctx context.Context, id uuid.UUID) (model.LoanCounts, error) {
	var counts model.LoanCounts
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN return_date IS NULL THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN return_date IS NOT NULL THEN 1 ELSE 0 END), 0) AS returned
		FROM loans
		WHERE copy_id = ?
	`)
	if err := r.db.GetContext(ctx, &counts, query, id); err != nil {
		return counts, fmt.Errorf("failed to count loans of copy: %w", err)
	}
	return counts, nil
}
