package repository_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const schema = `
	CREATE TABLE fields (
		field_id        SERIAL PRIMARY KEY,
		name            TEXT NOT NULL,
		center_lon      DOUBLE PRECISION NOT NULL,
		center_lat      DOUBLE PRECISION NOT NULL,
		side_meters     DOUBLE PRECISION NOT NULL,
		boundary        JSONB NOT NULL,
		is_active       BOOLEAN NOT NULL DEFAULT true,
		scan_attempts   INT NOT NULL DEFAULT 0,
		scan_error      TEXT,
		last_scanned_at TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE field_captures (
		field_id    INT NOT NULL REFERENCES fields (field_id),
		captured_on DATE NOT NULL,
		UNIQUE (field_id, captured_on)
	);
`

func TestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping repository integration test in short mode")
	}

	ctx := context.Background()
	logger := slog.Default()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fieldscope"),
		tcpostgres.WithUsername("tester"),
		tcpostgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO fields (name, center_lon, center_lat, side_meters, boundary)
		 VALUES ($1, $2, $3, $4, $5)`,
		"North field", 30.52, 50.45, 1000.0, string(validBoundary),
	)
	require.NoError(t, err)

	repo := repository.NewRepository(pool, logger)

	t.Run("fresh field is due for a scan", func(t *testing.T) {
		fields, err := repo.FetchFieldsForScan(ctx, 10)

		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "North field", fields[0].Name)
		assert.Len(t, fields[0].Boundary, 1)
	})

	t.Run("saving capture dates stamps the scan", func(t *testing.T) {
		dates := []time.Time{
			time.Date(2023, time.June, 11, 0, 0, 0, 0, time.UTC),
			time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC),
		}

		require.NoError(t, repo.SaveCaptureDates(ctx, 1, dates))

		// Storing the same dates again must not duplicate rows.
		require.NoError(t, repo.SaveCaptureDates(ctx, 1, dates))

		var captures int
		err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM field_captures WHERE field_id = 1`).Scan(&captures)
		require.NoError(t, err)
		assert.Equal(t, 2, captures)

		// Freshly scanned fields are no longer due.
		fields, err := repo.FetchFieldsForScan(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("failure count accumulates", func(t *testing.T) {
		require.NoError(t, repo.IncrementFailureCount(ctx, 1, "provider unavailable"))

		var attempts int
		var scanError string
		err := pool.QueryRow(ctx,
			`SELECT scan_attempts, scan_error FROM fields WHERE field_id = 1`,
		).Scan(&attempts, &scanError)
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
		assert.Equal(t, "provider unavailable", scanError)
	})
}
