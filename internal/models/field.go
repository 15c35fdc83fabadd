package models

import "github.com/paulmach/orb"

// Field represents a monitored agricultural field. The boundary polygon is
// expressed in the same WGS84 coordinates as the field center.
type Field struct {
	ID         int         // ID is the unique identifier for the field.
	Name       string      // Name is the human-readable field label.
	Center     GeoPoint    // Center is the point the capture area is built around.
	SideMeters float64     // SideMeters is the side length of the square capture area.
	Boundary   orb.Polygon // Boundary is the field outline used for pixel masking.
}
