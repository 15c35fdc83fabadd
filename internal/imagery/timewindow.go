package imagery

import (
	"errors"
	"fmt"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/models"
)

// Anchor places a capture window relative to a date.
type Anchor string

const (
	// AnchorOn centers the window on the date itself.
	AnchorOn Anchor = "on"
	// AnchorAfter opens the window on the day after the date.
	AnchorAfter Anchor = "after"
	// AnchorBefore closes the window on the day before the date.
	AnchorBefore Anchor = "before"
)

// Common errors for capture window construction.
var (
	ErrInvalidInterval = errors.New("capture window interval must be at least one day")
	ErrUnknownAnchor   = errors.New("unknown capture window anchor")
)

// CaptureWindow builds the time interval used to select captures around a
// date. With AnchorOn the window is centered on the date (a one-day interval
// covers the date itself); AnchorAfter spans the intervalDays days following
// the date and AnchorBefore the intervalDays days preceding it. The date's
// time-of-day component is ignored.
func CaptureWindow(date time.Time, anchor Anchor, intervalDays int) (models.TimeWindow, error) {
	if intervalDays < 1 {
		return models.TimeWindow{}, fmt.Errorf("%w: got %d", ErrInvalidInterval, intervalDays)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	switch anchor {
	case AnchorOn:
		if intervalDays == 1 {
			return models.TimeWindow{From: day, To: day.AddDate(0, 0, 1)}, nil
		}
		half := intervalDays / 2

		return models.TimeWindow{
			From: day.AddDate(0, 0, -half),
			To:   day.AddDate(0, 0, half),
		}, nil
	case AnchorAfter:
		return models.TimeWindow{
			From: day.AddDate(0, 0, 1),
			To:   day.AddDate(0, 0, intervalDays),
		}, nil
	case AnchorBefore:
		return models.TimeWindow{
			From: day.AddDate(0, 0, -intervalDays),
			To:   day.AddDate(0, 0, -1),
		}, nil
	default:
		return models.TimeWindow{}, fmt.Errorf("%w: %q", ErrUnknownAnchor, anchor)
	}
}
