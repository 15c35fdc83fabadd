package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/OpenCanopy/fieldscope/internal/models"
)

// MetersPerDegree is the conversion constant between meters and degrees of
// latitude. The same constant scaled by cos(latitude) is used on the
// longitude axis to account for meridian convergence.
const MetersPerDegree = 111111.0

// polarCosine is the smallest cosine of latitude the meter/degree conversion
// accepts. Below it the longitude scale degenerates.
const polarCosine = 1e-9

// Common errors for bounding box construction.
var (
	ErrInvalidSide    = errors.New("square side must be positive")
	ErrPolarLatitude  = errors.New("latitude is too close to a pole for meter conversion")
	ErrDegenerateGrid = errors.New("dimension calculation returned a non-positive grid")
)

// Dimensioner computes the pixel dimensions an area naturally produces at a
// given ground resolution. Implementations are deterministic and monotonic in
// the box extent; this package treats them as opaque.
type Dimensioner interface {
	DimensionsFor(box models.BoundingBox, resolutionMeters float64) (models.PixelGrid, error)
}

// SquareAroundPoint returns the geographic bounding box of a square centered
// at the given point with the given side length in meters.
//
// Latitudes at (or numerically indistinguishable from) the poles are rejected
// with ErrPolarLatitude: cos(±90°) is zero and the longitude conversion would
// divide by it.
func SquareAroundPoint(point models.GeoPoint, sideMeters float64) (models.BoundingBox, error) {
	if err := point.Validate(); err != nil {
		return models.BoundingBox{}, fmt.Errorf("invalid center point: %w", err)
	}
	if sideMeters <= 0 {
		return models.BoundingBox{}, fmt.Errorf("%w: got %f", ErrInvalidSide, sideMeters)
	}

	cosLat := math.Cos(point.Latitude * math.Pi / 180)
	if math.Abs(cosLat) < polarCosine {
		return models.BoundingBox{}, fmt.Errorf("%w: latitude %f", ErrPolarLatitude, point.Latitude)
	}

	const half = 2
	halfSide := sideMeters / half
	lonDelta := halfSide / (MetersPerDegree * cosLat)
	latDelta := halfSide / MetersPerDegree

	return models.BoundingBox{
		MinLon: point.Longitude - lonDelta,
		MinLat: point.Latitude - latDelta,
		MaxLon: point.Longitude + lonDelta,
		MaxLat: point.Latitude + latDelta,
	}, nil
}

// FitToGrid adjusts a bounding box so that it produces exactly the target
// pixel dimensions at the given ground resolution. The natural dimensions of
// the box are obtained from the injected Dimensioner; if they already match
// the target the box is returned unchanged. Otherwise the eastern and northern
// edges are rescaled proportionally per axis while the western and southern
// edges stay fixed.
//
// Errors from the Dimensioner propagate to the caller unmodified.
func FitToGrid(
	box models.BoundingBox,
	target models.PixelGrid,
	resolutionMeters float64,
	dims Dimensioner,
) (models.BoundingBox, error) {
	if err := box.Validate(); err != nil {
		return models.BoundingBox{}, err
	}
	if err := target.Validate(); err != nil {
		return models.BoundingBox{}, fmt.Errorf("invalid target grid: %w", err)
	}

	natural, err := dims.DimensionsFor(box, resolutionMeters)
	if err != nil {
		return models.BoundingBox{}, err
	}
	if natural == target {
		return box, nil
	}
	if natural.Width <= 0 || natural.Height <= 0 {
		return models.BoundingBox{}, fmt.Errorf("%w: %dx%d", ErrDegenerateGrid, natural.Width, natural.Height)
	}

	box.MaxLon = box.MinLon + box.LonExtent()*float64(target.Width)/float64(natural.Width)
	box.MaxLat = box.MinLat + box.LatExtent()*float64(target.Height)/float64(natural.Height)

	return box, nil
}
