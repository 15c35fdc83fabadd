package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists monitored fields and their capture dates.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the repository surface the monitor service depends on.
type Interface interface {
	FetchFieldsForScan(ctx context.Context, limit int) ([]models.Field, error)
	SaveCaptureDates(ctx context.Context, fieldID int, dates []time.Time) error
	IncrementFailureCount(ctx context.Context, fieldID int, errMsg string) error
}

// Database abstracts the pgx pool so tests can substitute a mock.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// NewDatabase opens a pgx connection pool and verifies it with a ping.
func NewDatabase(host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(context.Background()); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
