package geo

import (
	"errors"
	"fmt"

	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Common errors for field rasterization.
var (
	ErrEmptyRaster     = errors.New("raster shape must have positive rows and cols")
	ErrDegenerateField = errors.New("field boundary needs an outer ring with at least 3 vertices")
)

// Mask is a per-pixel occupancy matrix. Mask[i][j] reports whether the center
// of pixel (i, j) falls inside the field boundary.
type Mask [][]bool

// RasterizeField samples the center of every pixel of a rows x cols raster
// georeferenced by box and marks the pixels whose center lies inside the field
// polygon. Containment is boundary-inclusive, following planar.PolygonContains.
//
// Axis convention: the first index runs along the longitude axis and the
// second along the latitude axis. That pairing looks swapped compared to the
// usual image row/column reading but it matches the pixel layout of the
// imagery responses this mask is overlaid on; keep it as is.
func RasterizeField(rows, cols int, box models.BoundingBox, field orb.Polygon) (Mask, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyRaster, rows, cols)
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}
	if len(field) == 0 || len(field[0]) < 3 {
		return nil, ErrDegenerateField
	}

	const half = 2
	lonExtent := box.LonExtent()
	latExtent := box.LatExtent()

	mask := make(Mask, rows)
	for i := range mask {
		mask[i] = make([]bool, cols)
		x := box.MinLon + float64(half*i+1)*lonExtent/float64(half*rows)
		for j := range mask[i] {
			y := box.MinLat + float64(half*j+1)*latExtent/float64(half*cols)
			mask[i][j] = planar.PolygonContains(field, orb.Point{x, y})
		}
	}

	return mask, nil
}
