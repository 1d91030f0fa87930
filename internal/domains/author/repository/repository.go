package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
)

const (
	authorCacheKeyPrefix = "author:"
	cacheTTL             = 15 * time.Minute
)

type repository struct {
	db    *sqlx.DB
	cache cache.Cache
}

// NewRepository creates the sqlx-backed author repository
func NewRepository(db *sqlx.DB, c cache.Cache) RepositoryInterface {
	return &repository{db: db, cache: c}
}

func (r *repository) Create(ctx context.Context, a *model.Author) error {
	query := r.db.Rebind(`
		INSERT INTO authors (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.CreatedAt, a.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	cacheKey := authorCacheKeyPrefix + id.String()

	var a model.Author
	if found, err := r.cache.Get(ctx, cacheKey, &a); err == nil && found {
		return &a, nil
	}

	query := r.db.Rebind(`
		SELECT id, name, created_at, updated_at
		FROM authors
		WHERE id = ?
	`)

	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, model.NewAuthorNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, a, cacheTTL)
	return &a, nil
}

func (r *repository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	where := ""
	args := []interface{}{}
	if filter.Search != "" {
		where = ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, utils.LikePattern(filter.Search))
	}

	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM authors` + where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := r.db.Rebind(`
		SELECT id, name, created_at, updated_at
		FROM authors` + where + `
		ORDER BY name ASC, id ASC
		LIMIT ? OFFSET ?
	`)

	authors := []model.Author{}
	if err := r.db.SelectContext(ctx, &authors, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}

	return authors, total, nil
}

func (r *repository) Update(ctx context.Context, a *model.Author) error {
	query := r.db.Rebind(`
		UPDATE authors
		SET name = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, a.Name, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewAuthorNotFoundError(a.ID)
	}

	r.invalidate(ctx, a.ID)
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM authors WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrAuthorHasBooks
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewAuthorNotFoundError(id)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *repository) CountBooks(ctx context.Context, id uuid.UUID) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM book_authors WHERE author_id = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count books of author: %w", err)
	}
	return count, nil
}

func (r *repository) invalidate(ctx context.Context, id uuid.UUID) {
	_ = r.cache.Delete(ctx, authorCacheKeyPrefix+id.String())
}
