package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/models"
	"golang.org/x/time/rate"
)

// Copernicus Data Space endpoints.
const (
	CopernicusBaseURL    = "https://sh.dataspace.copernicus.eu"
	CopernicusCatalogURL = "https://catalogue.dataspace.copernicus.eu/stac/search"
)

// maxCatalogPages caps STAC pagination for a single date query.
const maxCatalogPages = 10

// Common errors for the Copernicus provider.
var (
	ErrCopernicusUnauthorized = errors.New("copernicus API unauthorized (invalid token)")
	ErrCopernicusBadDate      = errors.New("copernicus API returned an unparsable capture timestamp")
)

// CopernicusProvider implements the Provider interface against the Copernicus
// Data Space ecosystem: capture dates come from the STAC catalog and image
// downloads go through its Sentinel-Hub-compatible process endpoint.
type CopernicusProvider struct {
	client     HTTPClient    // HTTP client for making requests
	baseURL    string        // Base URL of the process endpoint
	catalogURL string        // STAC search endpoint
	apiKey     string        // OAuth token
	limiter    *rate.Limiter // Rate limiter
	log        *slog.Logger  // Logger for logging operations
}

// stacSearchRequest is the STAC catalog search payload.
type stacSearchRequest struct {
	Collections []string       `json:"collections"`
	BBox        [4]float64     `json:"bbox"`
	Datetime    string         `json:"datetime"`
	Limit       int            `json:"limit"`
	Query       map[string]any `json:"query,omitempty"`
}

// stacSearchResponse is the STAC search result, reduced to capture timestamps
// and pagination links.
type stacSearchResponse struct {
	Features []struct {
		Properties struct {
			Datetime string `json:"datetime"`
		} `json:"properties"`
	} `json:"features"`
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

// NewCopernicusProvider creates a Copernicus Data Space provider with a
// default HTTP client and a request rate limit.
func NewCopernicusProvider(apiKey string, rateLimit int, log *slog.Logger) *CopernicusProvider {
	const timeout = 30

	return &CopernicusProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL:    CopernicusBaseURL,
		catalogURL: CopernicusCatalogURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log:        log,
	}
}

// NewCopernicusProviderWithClient allows injecting a custom HTTP client.
func NewCopernicusProviderWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *CopernicusProvider {
	return &CopernicusProvider{
		client:     client,
		baseURL:    CopernicusBaseURL,
		catalogURL: CopernicusCatalogURL,
		apiKey:     apiKey,
		limiter:    limiter,
		log:        log,
	}
}

// AvailableDates lists Sentinel-2 capture dates for the area from the STAC
// catalog, following pagination links and collapsing per-capture timestamps
// to calendar days.
func (cp *CopernicusProvider) AvailableDates(
	ctx context.Context,
	box models.BoundingBox,
	window models.TimeWindow,
	maxCloudCover float64,
) ([]time.Time, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	const pageLimit = 100
	payload := stacSearchRequest{
		Collections: []string{"SENTINEL-2"},
		BBox:        [4]float64{box.MinLon, box.MinLat, box.MaxLon, box.MaxLat},
		Datetime:    window.From.Format(time.RFC3339) + "/" + window.To.Format(time.RFC3339),
		Limit:       pageLimit,
		Query: map[string]any{
			"eo:cloud_cover": map[string]any{"lte": maxCloudCover * percent},
		},
	}

	seen := make(map[string]bool)
	var dates []time.Time

	searchURL := cp.catalogURL
	for page := 0; page < maxCatalogPages && searchURL != ""; page++ {
		result, err := cp.searchPage(ctx, searchURL, payload)
		if err != nil {
			return nil, err
		}

		for _, feature := range result.Features {
			captured, parseErr := time.Parse(time.RFC3339, feature.Properties.Datetime)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: %q", ErrCopernicusBadDate, feature.Properties.Datetime)
			}

			day := captured.UTC().Truncate(24 * time.Hour)
			key := day.Format(wfsDateLayout)
			if !seen[key] {
				seen[key] = true
				dates = append(dates, day)
			}
		}

		searchURL = ""
		for _, link := range result.Links {
			if link.Rel == "next" {
				searchURL = link.Href

				break
			}
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, nil
}

// searchPage executes a single STAC search request.
func (cp *CopernicusProvider) searchPage(
	ctx context.Context,
	searchURL string,
	payload stacSearchRequest,
) (*stacSearchResponse, error) {
	if err := cp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal STAC search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+cp.apiKey)

	resp, err := cp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute STAC search: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrCopernicusUnauthorized
	default:
		raw, _ := io.ReadAll(resp.Body)
		cp.log.ErrorContext(ctx, "Copernicus STAC error", "status", resp.StatusCode, "body", string(raw))

		return nil, fmt.Errorf("copernicus STAC returned status %d: %s", resp.StatusCode, string(raw))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result stacSearchResponse
	if err = json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode STAC response: %w", err)
	}

	return &result, nil
}

// BuildImageRequest builds a process-API download request for the query.
func (cp *CopernicusProvider) BuildImageRequest(ctx context.Context, query ImageQuery) (*ImageRequest, error) {
	request, err := buildProcessRequest(cp.baseURL+"/api/v1/process", cp.apiKey, query)
	if err != nil {
		return nil, err
	}

	cp.log.DebugContext(ctx, "Built Copernicus image request",
		"id", request.ID, "from", request.Window.From, "to", request.Window.To)

	return request, nil
}

// DimensionsFor reports the pixel dimensions the area naturally produces at
// the given ground resolution.
func (cp *CopernicusProvider) DimensionsFor(
	box models.BoundingBox,
	resolutionMeters float64,
) (models.PixelGrid, error) {
	return dimensionsFor(box, resolutionMeters)
}
