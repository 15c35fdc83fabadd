package models

import (
	"errors"
	"fmt"
	"time"
)

// GeoPoint represents a geographical point defined by its longitude and latitude,
// both in decimal degrees (WGS84).
type GeoPoint struct {
	Longitude float64 // Longitude of the geographical point, -180 <= lon < 180.
	Latitude  float64 // Latitude of the geographical point, -90 <= lat <= 90.
}

// Common validation errors for geographic values.
var (
	ErrInvalidLongitude = errors.New("longitude must be in [-180, 180)")
	ErrInvalidLatitude  = errors.New("latitude must be in [-90, 90]")
	ErrInvertedBox      = errors.New("bounding box min must not exceed max")
	ErrEmptyGrid        = errors.New("pixel grid dimensions must be positive")
)

// Validate checks that the point lies inside the WGS84 coordinate ranges.
func (p GeoPoint) Validate() error {
	if p.Longitude < -180 || p.Longitude >= 180 {
		return fmt.Errorf("%w: got %f", ErrInvalidLongitude, p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: got %f", ErrInvalidLatitude, p.Latitude)
	}

	return nil
}

// BoundingBox is an axis-aligned geographic rectangle in decimal degrees.
// The invariant min <= max holds on both axes for any box produced by this module.
type BoundingBox struct {
	MinLon float64 // MinLon is the western edge.
	MinLat float64 // MinLat is the southern edge.
	MaxLon float64 // MaxLon is the eastern edge.
	MaxLat float64 // MaxLat is the northern edge.
}

// Validate checks the min <= max invariant on both axes.
func (b BoundingBox) Validate() error {
	if b.MinLon > b.MaxLon || b.MinLat > b.MaxLat {
		return fmt.Errorf("%w: [%f %f %f %f]", ErrInvertedBox, b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
	}

	return nil
}

// LonExtent returns the box width in degrees of longitude.
func (b BoundingBox) LonExtent() float64 {
	return b.MaxLon - b.MinLon
}

// LatExtent returns the box height in degrees of latitude.
func (b BoundingBox) LatExtent() float64 {
	return b.MaxLat - b.MinLat
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() GeoPoint {
	const half = 2

	return GeoPoint{
		Longitude: (b.MinLon + b.MaxLon) / half,
		Latitude:  (b.MinLat + b.MaxLat) / half,
	}
}

// PixelGrid describes the raster dimensions paired with a bounding box
// to georeference an image.
type PixelGrid struct {
	Width  int // Width is the number of pixel columns along the longitude axis.
	Height int // Height is the number of pixel rows along the latitude axis.
}

// Validate checks that both dimensions are positive.
func (g PixelGrid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyGrid, g.Width, g.Height)
	}

	return nil
}

// TimeWindow is a half-open capture interval [From, To).
type TimeWindow struct {
	From time.Time
	To   time.Time
}
