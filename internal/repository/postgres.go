package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrBoundaryNotPolygon is returned when a stored field boundary decodes to a
// geometry other than a polygon.
var ErrBoundaryNotPolygon = errors.New("field boundary is not a polygon")

// FetchFieldsForScan retrieves fields that are due for a capture-date scan.
// It returns active fields that were never scanned or whose last scan is older
// than a day, with fewer than 5 failed attempts. The results are ordered by
// creation date and limited to the specified count.
func (r *Repository) FetchFieldsForScan(ctx context.Context, limit int) ([]models.Field, error) {
	var fields []models.Field
	query := `
		SELECT field_id, name, center_lon, center_lat, side_meters, boundary
		FROM public.fields
		WHERE
			is_active = true
			AND scan_attempts < 5
			AND (last_scanned_at IS NULL OR last_scanned_at < NOW() - INTERVAL '1 day')
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields due for scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var field models.Field
		var rawBoundary []byte
		if errScan := rows.Scan(
			&field.ID,
			&field.Name,
			&field.Center.Longitude,
			&field.Center.Latitude,
			&field.SideMeters,
			&rawBoundary,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan field row: %w", errScan)
		}

		field.Boundary, err = decodeBoundary(rawBoundary)
		if err != nil {
			return nil, fmt.Errorf("failed to decode boundary of field %d: %w", field.ID, err)
		}

		r.log.DebugContext(ctx, "A field due for scanning has been received.",
			"ID", field.ID, "Name", field.Name)
		fields = append(fields, field)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return fields, nil
}

// SaveCaptureDates stores the capture dates found for a field and stamps the
// field as freshly scanned, all in one transaction. Already known dates are
// left untouched.
func (r *Repository) SaveCaptureDates(ctx context.Context, fieldID int, dates []time.Time) error {
	insertQuery := `
		INSERT INTO field_captures (field_id, captured_on)
		VALUES ($1, $2)
		ON CONFLICT (field_id, captured_on) DO NOTHING;
	`
	markQuery := `
		UPDATE fields
		SET
			last_scanned_at = NOW(),
			scan_error = NULL
		WHERE field_id = $1;
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, date := range dates {
		if _, err = tx.Exec(ctx, insertQuery, fieldID, date); err != nil {
			_ = tx.Rollback(ctx)

			return fmt.Errorf("failed to insert capture date: %w", err)
		}
	}

	if _, err = tx.Exec(ctx, markQuery, fieldID); err != nil {
		_ = tx.Rollback(ctx)

		return fmt.Errorf("failed to mark field as scanned: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit capture dates: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the scan attempt count for a specific field
// identified by fieldID and updates the associated error message. It takes a
// context for managing request-scoped values, cancellation, and deadlines.
func (r *Repository) IncrementFailureCount(ctx context.Context, fieldID int, errMsg string) error {
	query := `
		UPDATE fields
		SET
			scan_attempts = scan_attempts + 1,
			scan_error = $1
		WHERE field_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, fieldID)
	if err != nil {
		return fmt.Errorf("failed to update scan error and number of attempts: %w", err)
	}

	return nil
}

// decodeBoundary parses a GeoJSON geometry into a polygon.
func decodeBoundary(raw []byte) (orb.Polygon, error) {
	geometry, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	polygon, ok := geometry.Geometry().(orb.Polygon)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrBoundaryNotPolygon, geometry.Type)
	}

	return polygon, nil
}
