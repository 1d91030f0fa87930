package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
	pkgdb "library-backend/pkg/database"
)

const (
	bookCacheKeyPrefix = "book:"
	cacheTTL           = 15 * time.Minute
)

type repository struct {
	db    *sqlx.DB
	cache cache.Cache
}

// NewRepository creates the sqlx-backed book repository
func NewRepository(db *sqlx.DB, c cache.Cache) RepositoryInterface {
	return &repository{db: db, cache: c}
}

func (r *repository) Create(ctx context.Context, b *model.Book) error {
	return pkgdb.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO books (id, title, publication_year, genre, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if _, err := tx.ExecContext(ctx, query, b.ID, b.Title, b.PublicationYear, b.Genre, b.CreatedAt, b.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create book: %w", err)
		}

		return insertAuthors(ctx, tx, b.ID, b.Authors)
	})
}

func insertAuthors(ctx context.Context, tx *sqlx.Tx, bookID uuid.UUID, authors []model.AuthorRef) error {
	query := tx.Rebind(`
		INSERT INTO book_authors (book_id, author_id, author_name, position)
		VALUES (?, ?, ?, ?)
	`)
	for i, a := range authors {
		if _, err := tx.ExecContext(ctx, query, bookID, a.AuthorID, a.Name, i); err != nil {
			return fmt.Errorf("failed to attach author %s: %w", a.AuthorID, err)
		}
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCacheKeyPrefix + id.String()

	var b model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &b); err == nil && found {
		return &b, nil
	}

	query := r.db.Rebind(`
		SELECT id, title, publication_year, genre, created_at, updated_at
		FROM books
		WHERE id = ?
	`)
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, model.NewBookNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	books := []model.Book{b}
	if err := r.loadAuthors(ctx, books); err != nil {
		return nil, err
	}
	b = books[0]

	_ = r.cache.Set(ctx, cacheKey, b, cacheTTL)
	return &b, nil
}

func (r *repository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Title != "" {
		where += ` AND LOWER(b.title) LIKE ? ESCAPE '\'`
		args = append(args, utils.LikePattern(filter.Title))
	}
	if filter.AuthorID != uuid.Nil {
		where += ` AND EXISTS (SELECT 1 FROM book_authors ba WHERE ba.book_id = b.id AND ba.author_id = ?)`
		args = append(args, filter.AuthorID)
	}

	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM books b` + where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := r.db.Rebind(`
		SELECT b.id, b.title, b.publication_year, b.genre, b.created_at, b.updated_at
		FROM books b` + where + `
		ORDER BY b.title ASC, b.id ASC
		LIMIT ? OFFSET ?
	`)

	books := []model.Book{}
	if err := r.db.SelectContext(ctx, &books, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	if err := r.loadAuthors(ctx, books); err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// loadAuthors fills the snapshot of every book with one IN query
func (r *repository) loadAuthors(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID.String())
	}

	query, args, err := sqlx.In(`
		SELECT book_id, author_id, author_name
		FROM book_authors
		WHERE book_id IN (?)
		ORDER BY book_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build author query: %w", err)
	}

	var rows []model.BookAuthorRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load book authors: %w", err)
	}

	model.AttachAuthors(books, rows)
	return nil
}

func (r *repository) Update(ctx context.Context, b *model.Book, replaceAuthors bool) error {
	err := pkgdb.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			UPDATE books
			SET title = ?, publication_year = ?, genre = ?, updated_at = ?
			WHERE id = ?
		`)
		result, err := tx.ExecContext(ctx, query, b.Title, b.PublicationYear, b.Genre, b.UpdatedAt, b.ID)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		if rows, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		} else if rows == 0 {
			return model.NewBookNotFoundError(b.ID)
		}

		if !replaceAuthors {
			return nil
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM book_authors WHERE book_id = ?`), b.ID); err != nil {
			return fmt.Errorf("failed to clear book authors: %w", err)
		}
		return insertAuthors(ctx, tx, b.ID, b.Authors)
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, b.ID)
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM books WHERE id = ?`), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrBookHasEditions
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return model.NewBookNotFoundError(id)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *repository) CountEditions(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM editions WHERE book_id = ?`), id); err != nil {
		return 0, fmt.Errorf("failed to count editions of book: %w", err)
	}
	return count, nil
}

func (r *repository) invalidate(ctx context.Context, id uuid.UUID) {
	_ = r.cache.Delete(ctx, bookCacheKeyPrefix+id.String())
}
