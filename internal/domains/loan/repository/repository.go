package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	copyModel "library-backend/internal/domains/copy/model"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/infrastructure/database"
	pkgdb "library-backend/pkg/database"
)

const loanColumns = `id, member_id, copy_id, loan_date, due_date, return_date`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) RepositoryInterface {
	return &repository{db: db}
}

// ════════════════════════════════════════════════════════════════
// LOAN TRANSITIONS
// ════════════════════════════════════════════════════════════════

func (r *repository) Checkout(ctx context.Context, l *model.Loan) error {
	return pkgdb.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		// Compare-and-set: of concurrent checkouts only one sees a row change
		flip := tx.Rebind(`
			UPDATE copies
			SET available = ?, updated_at = ?
			WHERE id = ? AND available = ?
		`)
		result, err := tx.ExecContext(ctx, flip, false, l.LoanDate, l.CopyID, true)
		if err != nil {
			return fmt.Errorf("failed to reserve copy: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if rows == 0 {
			return copyUnavailableError(ctx, tx, l.CopyID)
		}

		insert := tx.Rebind(`
			INSERT INTO loans (` + loanColumns + `)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if _, err := tx.ExecContext(ctx, insert, l.ID, l.MemberID, l.CopyID, l.LoanDate, l.DueDate, l.ReturnDate); err != nil {
			// idx_loans_active_copy: the copy was flagged available while lent out
			if database.IsUniqueViolation(err) {
				return copyModel.NewCopyOnLoanError(l.CopyID)
			}
			return fmt.Errorf("failed to create loan: %w", err)
		}

		return nil
	})
}

// copyUnavailableError tells a missing copy apart from one already on loan
func copyUnavailableError(ctx context.Context, tx *sqlx.Tx, copyID uuid.UUID) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS (SELECT 1 FROM copies WHERE id = ?)`), copyID); err != nil {
		return fmt.Errorf("failed to check copy: %w", err)
	}
	if !exists {
		return copyModel.NewCopyNotFoundError(copyID)
	}
	return copyModel.NewCopyOnLoanError(copyID)
}

func (r *repository) Return(ctx context.Context, id uuid.UUID, at time.Time) (*model.Loan, error) {
	return pkgdb.WithTransactionResult(ctx, r.db, func(tx *sqlx.Tx) (*model.Loan, error) {
		stamp := tx.Rebind(`UPDATE loans SET return_date = ? WHERE id = ? AND return_date IS NULL`)
		result, err := tx.ExecContext(ctx, stamp, at, id)
		if err != nil {
			return nil, fmt.Errorf("failed to return loan: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read affected rows: %w", err)
		}

		var l model.Loan
		if err := tx.GetContext(ctx, &l, tx.Rebind(`SELECT `+loanColumns+` FROM loans WHERE id = ?`), id); err != nil {
			if database.IsNoRows(err) {
				return nil, model.NewLoanNotFoundError(id)
			}
			return nil, fmt.Errorf("failed to get loan by id: %w", err)
		}
		if rows == 0 {
			return nil, model.NewLoanAlreadyReturnedError(id)
		}

		release := tx.Rebind(`UPDATE copies SET available = ?, updated_at = ? WHERE id = ?`)
		if _, err := tx.ExecContext(ctx, release, true, at, l.CopyID); err != nil {
			return nil, fmt.Errorf("failed to release copy: %w", err)
		}

		return &l, nil
	})
}

// ════════════════════════════════════════════════════════════════
// QUERIES
// ════════════════════════════════════════════════════════════════

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	var l model.Loan
	if err := r.db.GetContext(ctx, &l, r.db.Rebind(`SELECT `+loanColumns+` FROM loans WHERE id = ?`), id); err != nil {
		if database.IsNoRows(err) {
			return nil, model.NewLoanNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get loan by id: %w", err)
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, filter model.LoanFilter, now time.Time) ([]model.Loan, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	switch model.Status(filter.Status) {
	case model.StatusActive:
		where += " AND return_date IS NULL"
	case model.StatusReturned:
		where += " AND return_date IS NOT NULL"
	case model.StatusOverdue:
		where += " AND return_date IS NULL AND due_date < ?"
		args = append(args, now)
	}
	if filter.MemberID != uuid.Nil {
		where += " AND member_id = ?"
		args = append(args, filter.MemberID)
	}
	if filter.CopyID != uuid.Nil {
		where += " AND copy_id = ?"
		args = append(args, filter.CopyID)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM loans`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	query := r.db.Rebind(`
		SELECT ` + loanColumns + `
		FROM loans` + where + `
		ORDER BY loan_date DESC, id ASC
		LIMIT ? OFFSET ?
	`)

	loans := []model.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}

	return loans, total, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.Loan, error) {
	query := r.db.Rebind(`
		SELECT ` + loanColumns + `
		FROM loans
		WHERE member_id = ?
		ORDER BY loan_date DESC, id ASC
	`)

	loans := []model.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, memberID); err != nil {
		return nil, fmt.Errorf("failed to list member loans: %w", err)
	}
	return loans, nil
}

func (r *repository) ListOverdue(ctx context.Context, now time.Time) ([]model.Loan, error) {
	query := r.db.Rebind(`
		SELECT ` + loanColumns + `
		FROM loans
		WHERE return_date IS NULL AND due_date < ?
		ORDER BY due_date ASC, id ASC
	`)

	loans := []model.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, now); err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	return loans, nil
}

// ════════════════════════════════════════════════════════════════
// AVAILABILITY REPAIR
// ════════════════════════════════════════════════════════════════

func (r *repository) FindMismatches(ctx context.Context) ([]model.Mismatch, error) {
	query := r.db.Rebind(`
		SELECT c.id AS copy_id, c.available, COUNT(l.id) AS active_loans
		FROM copies c
		LEFT JOIN loans l ON l.copy_id = c.id AND l.return_date IS NULL
		GROUP BY c.id, c.available
		HAVING (c.available = ? AND COUNT(l.id) > 0)
		    OR (c.available = ? AND COUNT(l.id) = 0)
		ORDER BY c.id
	`)

	mismatches := []model.Mismatch{}
	if err := r.db.SelectContext(ctx, &mismatches, query, true, false); err != nil {
		return nil, fmt.Errorf("failed to scan availability: %w", err)
	}
	return mismatches, nil
}

func (r *repository) FixAvailability(ctx context.Context, copyID uuid.UUID, available bool, at time.Time) (bool, error) {
	// The loan condition is evaluated again by the statement itself; a checkout
	// or return since the scan leaves the row untouched
	query := `
		UPDATE copies
		SET available = ?, updated_at = ?
		WHERE id = ? AND available = ?
		  AND NOT EXISTS (SELECT 1 FROM loans WHERE copy_id = ? AND return_date IS NULL)`
	if !available {
		query = `
		UPDATE copies
		SET available = ?, updated_at = ?
		WHERE id = ? AND available = ?
		  AND EXISTS (SELECT 1 FROM loans WHERE copy_id = ? AND return_date IS NULL)`
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), available, at, copyID, !available, copyID)
	if err != nil {
		return false, fmt.Errorf("failed to fix copy availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows == 1, nil
}
