package imagery

import (
	"errors"
	"fmt"
	"math"

	"github.com/OpenCanopy/fieldscope/internal/models"
)

const earthRadiusMeters = 6371000.0

// ErrInvalidResolution is returned for a non-positive ground resolution.
var ErrInvalidResolution = errors.New("ground resolution must be positive")

// haversineMeters calculates the great-circle distance in meters between two points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// dimensionsFor computes the pixel dimensions a box naturally produces at a
// ground resolution: the great-circle lengths of the southern and western
// edges divided by the resolution, rounded, never below one pixel. Both
// providers expose it as their Dimensioner implementation.
func dimensionsFor(box models.BoundingBox, resolutionMeters float64) (models.PixelGrid, error) {
	if err := box.Validate(); err != nil {
		return models.PixelGrid{}, err
	}
	if resolutionMeters <= 0 {
		return models.PixelGrid{}, fmt.Errorf("%w: got %f", ErrInvalidResolution, resolutionMeters)
	}

	widthMeters := haversineMeters(box.MinLat, box.MinLon, box.MinLat, box.MaxLon)
	heightMeters := haversineMeters(box.MinLat, box.MinLon, box.MaxLat, box.MinLon)

	return models.PixelGrid{
		Width:  max(1, int(math.Round(widthMeters/resolutionMeters))),
		Height: max(1, int(math.Round(heightMeters/resolutionMeters))),
	}, nil
}
