package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"library-backend/internal/domains/edition/model"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

const (
	editionCacheKeyPrefix = "edition:"
	cacheTTL              = 15 * time.Minute
)

const editionColumns = `id, isbn, year, language, book_id, publisher, format, page_count, created_at, updated_at`

type repository struct {
	db    *sqlx.DB
	cache cache.Cache
}

func NewRepository(db *sqlx.DB, c cache.Cache) RepositoryInterface {
	return &repository{db: db, cache: c}
}

func (r *repository) Create(ctx context.Context, e *model.Edition) error {
	query := r.db.Rebind(`
		INSERT INTO editions (` + editionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.ISBN, e.Year, e.Language, e.BookID, e.Publisher, e.Format, e.PageCount, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateISBNError(e.ISBN)
		}
		return fmt.Errorf("failed to create edition: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Edition, error) {
	cacheKey := editionCacheKeyPrefix + id.String()

	var e model.Edition
	if found, err := r.cache.Get(ctx, cacheKey, &e); err == nil && found {
		return &e, nil
	}

	query := r.db.Rebind(`SELECT ` + editionColumns + ` FROM editions WHERE id = ?`)
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, model.NewEditionNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get edition by id: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, e, cacheTTL)
	return &e, nil
}

func (r *repository) List(ctx context.Context, filter model.EditionFilter) ([]model.Edition, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.BookID != uuid.Nil {
		where += " AND book_id = ?"
		args = append(args, filter.BookID)
	}
	if filter.ISBN != "" {
		where += ` AND LOWER(isbn) LIKE ? ESCAPE '\'`
		args = append(args, utils.LikePattern(filter.ISBN))
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM editions`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count editions: %w", err)
	}

	query := r.db.Rebind(`
		SELECT ` + editionColumns + `
		FROM editions` + where + `
		ORDER BY year DESC, isbn ASC
		LIMIT ? OFFSET ?
	`)

	editions := []model.Edition{}
	if err := r.db.SelectContext(ctx, &editions, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list editions: %w", err)
	}

	return editions, total, nil
}

func (r *repository) Update(ctx context.Context, e *model.Edition) error {
	query := r.db.Rebind(`
		UPDATE editions
		SET isbn = ?, year = ?, language = ?, book_id = ?, publisher = ?, format = ?, page_count = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		e.ISBN, e.Year, e.Language, e.BookID, e.Publisher, e.Format, e.PageCount, e.UpdatedAt, e.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewDuplicateISBNError(e.ISBN)
		}
		return fmt.Errorf("failed to update edition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewEditionNotFoundError(e.ID)
	}

	_ = r.cache.Delete(ctx, editionCacheKeyPrefix+e.ID.String())
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM editions WHERE id = ?`), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrEditionHasCopies
		}
		return fmt.Errorf("failed to delete edition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewEditionNotFoundError(id)
	}

	_ = r.cache.Delete(ctx, editionCacheKeyPrefix+id.String())
	return nil
}

func (r *repository) ISBNTaken(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM editions WHERE isbn = ? AND id <> ?)`)
	if err := r.db.GetContext(ctx, &exists, query, isbn, excludeID); err != nil {
		return false, fmt.Errorf("failed to check isbn: %w", err)
	}
	return exists, nil
}

func (r *repository) CountCopies(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM copies WHERE edition_id = ?`), id); err != nil {
		return 0, fmt.Errorf("failed to count copies of edition: %w", err)
	}
	return count, nil
}
