package imagery

import (
	"context"
	"net/http"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/geo"
	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/google/uuid"
)

// Catalog lists the dates on which the satellite captured a given area.
// Implementations filter captures whose cloud fraction exceeds maxCloudCover
// (0..1) and return the dates deduplicated in ascending order.
type Catalog interface {
	AvailableDates(
		ctx context.Context,
		box models.BoundingBox,
		window models.TimeWindow,
		maxCloudCover float64,
	) ([]time.Time, error)
}

// RequestBuilder turns an image query into an executable download request
// against the imagery API. Building is local; executing the request and any
// failure handling belong to the caller.
type RequestBuilder interface {
	BuildImageRequest(ctx context.Context, query ImageQuery) (*ImageRequest, error)
}

// Provider is the full imagery service surface the rest of the application
// depends on.
type Provider interface {
	Catalog
	RequestBuilder
	geo.Dimensioner
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImageQuery describes a single image to download.
type ImageQuery struct {
	Box           models.BoundingBox // Box is the georeferenced area of the image.
	Size          models.PixelGrid   // Size is the pixel dimensions of the image.
	Evalscript    string             // Evalscript is the band-combination script run by the service.
	Date          time.Time          // Date is the capture date the time window is anchored on.
	Anchor        Anchor             // Anchor places the window on, after or before the date.
	IntervalDays  int                // IntervalDays is the width of the time window in days.
	MaxCloudCover float64            // MaxCloudCover is the tolerated cloud fraction, 0..1.
	DataFolder    string             // DataFolder is the directory the image is saved into.
}

// ImageRequest is a ready-to-execute download request.
type ImageRequest struct {
	ID         uuid.UUID         // ID identifies the request and names the output file.
	Method     string            // Method is the HTTP method.
	URL        string            // URL is the imagery API endpoint.
	Headers    http.Header       // Headers carry content negotiation and authorization.
	Body       []byte            // Body is the JSON request payload.
	OutputPath string            // OutputPath is where the response image should be written.
	Window     models.TimeWindow // Window is the capture interval the request covers.
}
