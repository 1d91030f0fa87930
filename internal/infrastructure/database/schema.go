package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// postgresSchema and sqliteSchema describe the same tables.
// Loans carry no foreign keys so history survives member and forced copy deletes.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id         UUID PRIMARY KEY,
		name       VARCHAR(200) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               UUID PRIMARY KEY,
		title            VARCHAR(500) NOT NULL,
		publication_year INTEGER,
		genre            VARCHAR(100),
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id     UUID NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		author_id   UUID NOT NULL REFERENCES authors(id),
		author_name VARCHAR(200) NOT NULL,
		position    INTEGER NOT NULL,
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS editions (
		id         UUID PRIMARY KEY,
		isbn       VARCHAR(32) NOT NULL,
		year       INTEGER NOT NULL,
		language   VARCHAR(50) NOT NULL,
		book_id    UUID NOT NULL REFERENCES books(id),
		publisher  VARCHAR(200),
		format     VARCHAR(20) NOT NULL CHECK (format IN ('hardcover', 'paperback', 'ebook', 'audiobook')),
		page_count INTEGER NOT NULL CHECK (page_count > 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT editions_isbn_key UNIQUE (isbn)
	)`,
	`CREATE TABLE IF NOT EXISTS copies (
		id         UUID PRIMARY KEY,
		edition_id UUID NOT NULL REFERENCES editions(id),
		number     INTEGER NOT NULL CHECK (number > 0),
		available  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT copies_edition_number_key UNIQUE (edition_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id          UUID PRIMARY KEY,
		national_id VARCHAR(32) NOT NULL,
		name        VARCHAR(200) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT members_national_id_key UNIQUE (national_id)
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id          UUID PRIMARY KEY,
		member_id   UUID NOT NULL,
		copy_id     UUID NOT NULL,
		loan_date   TIMESTAMPTZ NOT NULL,
		due_date    TIMESTAMPTZ NOT NULL,
		return_date TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		id            UUID PRIMARY KEY,
		username      VARCHAR(100) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(20) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT staff_username_key UNIQUE (username)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		publication_year INTEGER,
		genre            TEXT,
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id     TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		author_id   TEXT NOT NULL REFERENCES authors(id),
		author_name TEXT NOT NULL,
		position    INTEGER NOT NULL,
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS editions (
		id         TEXT PRIMARY KEY,
		isbn       TEXT NOT NULL UNIQUE,
		year       INTEGER NOT NULL,
		language   TEXT NOT NULL,
		book_id    TEXT NOT NULL REFERENCES books(id),
		publisher  TEXT,
		format     TEXT NOT NULL CHECK (format IN ('hardcover', 'paperback', 'ebook', 'audiobook')),
		page_count INTEGER NOT NULL CHECK (page_count > 0),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS copies (
		id         TEXT PRIMARY KEY,
		edition_id TEXT NOT NULL REFERENCES editions(id),
		number     INTEGER NOT NULL CHECK (number > 0),
		available  BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (edition_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		id          TEXT PRIMARY KEY,
		national_id TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id          TEXT PRIMARY KEY,
		member_id   TEXT NOT NULL,
		copy_id     TEXT NOT NULL,
		loan_date   TIMESTAMP NOT NULL,
		due_date    TIMESTAMP NOT NULL,
		return_date TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
}

// Indexes use syntax both engines accept, including the partial unique
// index that allows at most one active loan per copy.
var sharedIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_book_authors_author_id ON book_authors (author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_editions_book_id ON editions (book_id)`,
	`CREATE INDEX IF NOT EXISTS idx_copies_edition_id ON copies (edition_id)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_member_id ON loans (member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_copy_id ON loans (copy_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_loans_active_copy ON loans (copy_id) WHERE return_date IS NULL`,
}

// EnsureSchema creates all tables and indexes if they are missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	tables := sqliteSchema
	if s.IsPostgres() {
		tables = postgresSchema
	}

	statements := append(append([]string{}, tables...), sharedIndexes...)
	for _, stmt := range statements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	log.Info().Str("dialect", s.Dialect).Int("statements", len(statements)).Msg("[DATABASE] Schema ensured")
	return nil
}
