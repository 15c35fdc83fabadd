package geo_test

import (
	"math"
	"testing"

	"github.com/OpenCanopy/fieldscope/internal/geo"
	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDimensioner is a fake dimension calculation for testing.
type stubDimensioner struct {
	dimsFunc func(box models.BoundingBox, resolutionMeters float64) (models.PixelGrid, error)
}

func (s *stubDimensioner) DimensionsFor(
	box models.BoundingBox,
	resolutionMeters float64,
) (models.PixelGrid, error) {
	return s.dimsFunc(box, resolutionMeters)
}

// extentDimensioner maps degrees of extent linearly to pixels. It is
// deterministic and monotonic, which is all FitToGrid assumes.
func extentDimensioner(pixelsPerDegree float64) *stubDimensioner {
	return &stubDimensioner{
		dimsFunc: func(box models.BoundingBox, _ float64) (models.PixelGrid, error) {
			return models.PixelGrid{
				Width:  int(math.Round(box.LonExtent() * pixelsPerDegree)),
				Height: int(math.Round(box.LatExtent() * pixelsPerDegree)),
			}, nil
		},
	}
}

func TestSquareAroundPoint(t *testing.T) {
	t.Parallel()

	t.Run("one degree square at the equator", func(t *testing.T) {
		t.Parallel()
		box, err := geo.SquareAroundPoint(models.GeoPoint{Longitude: 0, Latitude: 0}, geo.MetersPerDegree)

		require.NoError(t, err)
		assert.InDelta(t, -0.5, box.MinLon, 1e-9)
		assert.InDelta(t, -0.5, box.MinLat, 1e-9)
		assert.InDelta(t, 0.5, box.MaxLon, 1e-9)
		assert.InDelta(t, 0.5, box.MaxLat, 1e-9)
	})

	t.Run("box is centered on the input point", func(t *testing.T) {
		t.Parallel()
		point := models.GeoPoint{Longitude: 30.5234, Latitude: 50.4501}
		box, err := geo.SquareAroundPoint(point, 2500)

		require.NoError(t, err)
		assert.Less(t, box.MinLon, box.MaxLon)
		assert.Less(t, box.MinLat, box.MaxLat)

		center := box.Center()
		assert.InDelta(t, point.Longitude, center.Longitude, 1e-9)
		assert.InDelta(t, point.Latitude, center.Latitude, 1e-9)
	})

	t.Run("longitude extent widens away from the equator", func(t *testing.T) {
		t.Parallel()
		point := models.GeoPoint{Longitude: 24.7111, Latitude: 60}
		box, err := geo.SquareAroundPoint(point, 1000)

		require.NoError(t, err)
		// cos(60 deg) = 0.5, so one meter spans twice as many degrees of longitude.
		assert.InEpsilon(t, 2.0, box.LonExtent()/box.LatExtent(), 1e-6)
	})

	t.Run("equal extents at the equator", func(t *testing.T) {
		t.Parallel()
		box, err := geo.SquareAroundPoint(models.GeoPoint{Longitude: -73.9857, Latitude: 0}, 640)

		require.NoError(t, err)
		assert.InEpsilon(t, box.LatExtent(), box.LonExtent(), 1e-9)
	})

	t.Run("non-positive side is rejected", func(t *testing.T) {
		t.Parallel()
		for _, side := range []float64{0, -100} {
			_, err := geo.SquareAroundPoint(models.GeoPoint{Longitude: 1, Latitude: 1}, side)
			require.ErrorIs(t, err, geo.ErrInvalidSide)
		}
	})

	t.Run("polar latitude is rejected", func(t *testing.T) {
		t.Parallel()
		for _, lat := range []float64{90, -90} {
			_, err := geo.SquareAroundPoint(models.GeoPoint{Longitude: 0, Latitude: lat}, 1000)
			require.ErrorIs(t, err, geo.ErrPolarLatitude)
		}
	})

	t.Run("coordinates outside WGS84 ranges are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := geo.SquareAroundPoint(models.GeoPoint{Longitude: 180, Latitude: 0}, 1000)
		require.ErrorIs(t, err, models.ErrInvalidLongitude)

		_, err = geo.SquareAroundPoint(models.GeoPoint{Longitude: 0, Latitude: 91}, 1000)
		require.ErrorIs(t, err, models.ErrInvalidLatitude)
	})
}

func TestFitToGrid(t *testing.T) {
	t.Parallel()
	resolution := 10.0

	t.Run("box already matching the target is returned unchanged", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 10, MinLat: 45, MaxLon: 10.1, MaxLat: 45.1}
		dims := &stubDimensioner{
			dimsFunc: func(_ models.BoundingBox, _ float64) (models.PixelGrid, error) {
				return models.PixelGrid{Width: 512, Height: 512}, nil
			},
		}

		fitted, err := geo.FitToGrid(box, models.PixelGrid{Width: 512, Height: 512}, resolution, dims)

		require.NoError(t, err)
		assert.Equal(t, box, fitted)
	})

	t.Run("maxima rescale per axis with minima fixed", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 10, MinLat: 45, MaxLon: 11, MaxLat: 46}
		dims := &stubDimensioner{
			dimsFunc: func(_ models.BoundingBox, _ float64) (models.PixelGrid, error) {
				return models.PixelGrid{Width: 100, Height: 200}, nil
			},
		}

		fitted, err := geo.FitToGrid(box, models.PixelGrid{Width: 50, Height: 300}, resolution, dims)

		require.NoError(t, err)
		assert.InDelta(t, 10.0, fitted.MinLon, 1e-9)
		assert.InDelta(t, 45.0, fitted.MinLat, 1e-9)
		assert.InDelta(t, 10.5, fitted.MaxLon, 1e-9)
		assert.InDelta(t, 46.5, fitted.MaxLat, 1e-9)
	})

	t.Run("fitting is idempotent", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 10, MinLat: 45, MaxLon: 10.3, MaxLat: 45.2}
		target := models.PixelGrid{Width: 512, Height: 384}
		dims := extentDimensioner(1000)

		once, err := geo.FitToGrid(box, target, resolution, dims)
		require.NoError(t, err)

		twice, err := geo.FitToGrid(once, target, resolution, dims)
		require.NoError(t, err)
		assert.Equal(t, once, twice)

		natural, err := dims.DimensionsFor(twice, resolution)
		require.NoError(t, err)
		assert.Equal(t, target, natural)
	})

	t.Run("dimensioner errors propagate", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}
		dims := &stubDimensioner{
			dimsFunc: func(_ models.BoundingBox, _ float64) (models.PixelGrid, error) {
				return models.PixelGrid{}, assert.AnError
			},
		}

		_, err := geo.FitToGrid(box, models.PixelGrid{Width: 1, Height: 1}, resolution, dims)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("degenerate natural dimensions are rejected", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}
		dims := &stubDimensioner{
			dimsFunc: func(_ models.BoundingBox, _ float64) (models.PixelGrid, error) {
				return models.PixelGrid{Width: 0, Height: 10}, nil
			},
		}

		_, err := geo.FitToGrid(box, models.PixelGrid{Width: 1, Height: 1}, resolution, dims)
		require.ErrorIs(t, err, geo.ErrDegenerateGrid)
	})

	t.Run("inverted box is rejected", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 2, MinLat: 0, MaxLon: 1, MaxLat: 1}

		_, err := geo.FitToGrid(box, models.PixelGrid{Width: 1, Height: 1}, resolution, extentDimensioner(10))
		require.ErrorIs(t, err, models.ErrInvertedBox)
	})

	t.Run("empty target grid is rejected", func(t *testing.T) {
		t.Parallel()
		box := models.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}

		_, err := geo.FitToGrid(box, models.PixelGrid{Width: 0, Height: 5}, resolution, extentDimensioner(10))
		require.ErrorIs(t, err, models.ErrEmptyGrid)
	})
}
