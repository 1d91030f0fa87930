package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Goqu dialect names for the supported engines
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Store is the process-scoped handle every repository receives.
// DB speaks database/sql for both engines; Dialect tells query builders
// which SQL flavour to render.
type Store struct {
	DB      *sqlx.DB
	Dialect string

	pg *PostgresDB
}

// Open connects to the engine selected by cfg.Driver
func Open(ctx context.Context, cfg *DBConfig) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		pg := NewPostgresDB(cfg)
		if err := pg.Connect(ctx); err != nil {
			return nil, err
		}
		return &Store{DB: pg.SQLX(), Dialect: DialectPostgres, pg: pg}, nil

	case DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("[DATABASE] SQLite store opened")
		return &Store{DB: db, Dialect: DialectSQLite}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewSQLiteStore wraps an already opened sqlite handle
func NewSQLiteStore(db *sqlx.DB) *Store {
	return &Store{DB: db, Dialect: DialectSQLite}
}

// IsPostgres reports whether the store runs on PostgreSQL
func (s *Store) IsPostgres() bool {
	return s.Dialect == DialectPostgres
}

// Health pings the underlying engine
func (s *Store) Health(ctx context.Context) error {
	if s.pg != nil {
		return s.pg.HealthCheck(ctx)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the sql handle and, for postgres, the pgx pool behind it
func (s *Store) Close() error {
	err := s.DB.Close()
	if s.pg != nil {
		s.pg.Close()
	}
	return err
}
