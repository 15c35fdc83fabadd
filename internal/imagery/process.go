package imagery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Constants shared by the process-API request builders.
const (
	crsWGS84          = "http://www.opengis.net/def/crs/EPSG/0/4326"
	sentinel2L1C      = "sentinel-2-l1c"
	mosaickingLeastCC = "leastCC"
	tiffMimeType      = "image/tiff"
	percent           = 100
)

// Process API request payload, reduced to the fields this service uses.
type processRequest struct {
	Input      processInput  `json:"input"`
	Output     processOutput `json:"output"`
	Evalscript string        `json:"evalscript"`
}

type processInput struct {
	Bounds processBounds `json:"bounds"`
	Data   []processData `json:"data"`
}

type processBounds struct {
	BBox       [4]float64       `json:"bbox"`
	Properties processBoundsCRS `json:"properties"`
}

type processBoundsCRS struct {
	CRS string `json:"crs"`
}

type processData struct {
	Type       string            `json:"type"`
	DataFilter processDataFilter `json:"dataFilter"`
}

type processDataFilter struct {
	TimeRange        processTimeRange `json:"timeRange"`
	MaxCloudCoverage float64          `json:"maxCloudCoverage"`
	MosaickingOrder  string           `json:"mosaickingOrder"`
}

type processTimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type processOutput struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Responses []processResponse `json:"responses"`
}

type processResponse struct {
	Identifier string        `json:"identifier"`
	Format     processFormat `json:"format"`
}

type processFormat struct {
	Type string `json:"type"`
}

// buildProcessRequest marshals an image query into a ready-to-execute POST
// against a Sentinel-Hub-style process endpoint. Both providers speak the same
// request dialect and differ only in endpoint and credentials.
func buildProcessRequest(endpoint, apiKey string, query ImageQuery) (*ImageRequest, error) {
	if err := query.Box.Validate(); err != nil {
		return nil, err
	}
	if err := query.Size.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image size: %w", err)
	}

	window, err := CaptureWindow(query.Date, query.Anchor, query.IntervalDays)
	if err != nil {
		return nil, err
	}

	payload := processRequest{
		Input: processInput{
			Bounds: processBounds{
				BBox:       [4]float64{query.Box.MinLon, query.Box.MinLat, query.Box.MaxLon, query.Box.MaxLat},
				Properties: processBoundsCRS{CRS: crsWGS84},
			},
			Data: []processData{{
				Type: sentinel2L1C,
				DataFilter: processDataFilter{
					TimeRange: processTimeRange{
						From: window.From.Format(time.RFC3339),
						To:   window.To.Format(time.RFC3339),
					},
					MaxCloudCoverage: query.MaxCloudCover * percent,
					MosaickingOrder:  mosaickingLeastCC,
				},
			}},
		},
		Output: processOutput{
			Width:  query.Size.Width,
			Height: query.Size.Height,
			Responses: []processResponse{{
				Identifier: "default",
				Format:     processFormat{Type: tiffMimeType},
			}},
		},
		Evalscript: query.Evalscript,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal process request: %w", err)
	}

	requestID := uuid.New()
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", tiffMimeType)
	headers.Set("Authorization", "Bearer "+apiKey)

	return &ImageRequest{
		ID:         requestID,
		Method:     http.MethodPost,
		URL:        endpoint,
		Headers:    headers,
		Body:       body,
		OutputPath: filepath.Join(query.DataFolder, requestID.String()+".tiff"),
		Window:     window,
	}, nil
}
