package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/dbx"
	"github.com/dmitrijs2005/blobhost/internal/server/migrations"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/fragments"
	"github.com/dmitrijs2005/blobhost/internal/server/repositories/headers"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and
// exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

var (
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
	_ Transactor        = (*PostgresRepositoryManager)(nil)
	_ Migrator          = (*PostgresRepositoryManager)(nil)
)

// NewPostgresRepositoryManager wraps an open *sql.DB.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

// OpenPostgres connects with the pgx driver and pings the server.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

func (m *PostgresRepositoryManager) Headers() headers.Repository {
	return headers.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Fragments() fragments.Repository {
	return fragments.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) MaxDocumentSize() int64 {
	return documentLimits[BackendPostgres]
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// WithTx runs fn inside a database transaction.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, h headers.Repository, f fragments.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, headers.NewPostgresRepository(tx), fragments.NewPostgresRepository(tx))
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
