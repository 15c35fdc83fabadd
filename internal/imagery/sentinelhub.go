package imagery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/models"
	"golang.org/x/time/rate"
)

// SentinelHubBaseURL is the Sentinel Hub services endpoint.
const SentinelHubBaseURL = "https://services.sentinel-hub.com"

// wfsDateLayout is the capture date format of the WFS tile metadata.
const wfsDateLayout = "2006-01-02"

// Common errors for the Sentinel Hub provider.
var (
	ErrSentinelHubUnauthorized = errors.New("sentinel hub API unauthorized (invalid token or instance id)")
	ErrSentinelHubBadDate      = errors.New("sentinel hub API returned an unparsable capture date")
)

// SentinelHubProvider implements the Provider interface against the Sentinel
// Hub process and WFS APIs. Capture dates come from the WFS tile metadata of
// the configured instance; image downloads go through the process endpoint.
type SentinelHubProvider struct {
	client     HTTPClient    // HTTP client for making requests
	baseURL    string        // Base URL for the Sentinel Hub services
	apiKey     string        // OAuth token with process API access
	instanceID string        // Configured instance used by the WFS date queries
	limiter    *rate.Limiter // Rate limiter
	log        *slog.Logger  // Logger for logging operations
}

// wfsResponse is the WFS GetFeature JSON payload, reduced to the tile dates.
type wfsResponse struct {
	Features []struct {
		Properties struct {
			Date string `json:"date"`
		} `json:"properties"`
	} `json:"features"`
}

// NewSentinelHubProvider creates a Sentinel Hub provider with a default HTTP
// client and a request rate limit.
func NewSentinelHubProvider(apiKey, instanceID string, rateLimit int, log *slog.Logger) *SentinelHubProvider {
	const timeout = 30

	return &SentinelHubProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL:    SentinelHubBaseURL,
		apiKey:     apiKey,
		instanceID: instanceID,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log:        log,
	}
}

// NewSentinelHubProviderWithClient allows injecting a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewSentinelHubProviderWithClient(
	client HTTPClient,
	apiKey, instanceID string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *SentinelHubProvider {
	return &SentinelHubProvider{
		client:     client,
		baseURL:    SentinelHubBaseURL,
		apiKey:     apiKey,
		instanceID: instanceID,
		limiter:    limiter,
		log:        log,
	}
}

// AvailableDates lists the dates on which Sentinel-2 captured the area, with
// at most maxCloudCover cloud fraction. One WFS feature is returned per tile,
// so the dates are deduplicated before sorting.
func (sp *SentinelHubProvider) AvailableDates(
	ctx context.Context,
	box models.BoundingBox,
	window models.TimeWindow,
	maxCloudCover float64,
) ([]time.Time, error) {
	if err := sp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}

	reqURL, err := url.Parse(sp.baseURL + "/ogc/wfs/" + sp.instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse WFS URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("SERVICE", "WFS")
	query.Set("REQUEST", "GetFeature")
	query.Set("TYPENAMES", "DSS2")
	query.Set("OUTPUTFORMAT", "application/json")
	query.Set("SRSNAME", "EPSG:4326")
	query.Set("BBOX", fmt.Sprintf("%f,%f,%f,%f", box.MinLon, box.MinLat, box.MaxLon, box.MaxLat))
	query.Set("TIME", window.From.Format(wfsDateLayout)+"/"+window.To.Format(wfsDateLayout))
	query.Set("MAXCC", strconv.Itoa(int(math.Round(maxCloudCover*percent))))
	reqURL.RawQuery = query.Encode()

	sp.log.DebugContext(ctx, "Sentinel Hub WFS request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+sp.apiKey)

	resp, err := sp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute WFS request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrSentinelHubUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		sp.log.ErrorContext(ctx, "Sentinel Hub WFS error", "status", resp.StatusCode, "body", string(body))

		return nil, fmt.Errorf("sentinel hub WFS returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result wfsResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode WFS response: %w", err)
	}

	seen := make(map[string]bool, len(result.Features))
	dates := make([]time.Time, 0, len(result.Features))
	for _, feature := range result.Features {
		raw := feature.Properties.Date
		if seen[raw] {
			continue
		}
		seen[raw] = true

		date, parseErr := time.Parse(wfsDateLayout, raw)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %q", ErrSentinelHubBadDate, raw)
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	sp.log.DebugContext(ctx, "Sentinel Hub capture dates found", "tiles", len(result.Features), "dates", len(dates))

	return dates, nil
}

// BuildImageRequest builds a process-API download request for the query.
func (sp *SentinelHubProvider) BuildImageRequest(ctx context.Context, query ImageQuery) (*ImageRequest, error) {
	request, err := buildProcessRequest(sp.baseURL+"/api/v1/process", sp.apiKey, query)
	if err != nil {
		return nil, err
	}

	sp.log.DebugContext(ctx, "Built Sentinel Hub image request",
		"id", request.ID, "from", request.Window.From, "to", request.Window.To)

	return request, nil
}

// DimensionsFor reports the pixel dimensions the area naturally produces at
// the given ground resolution.
func (sp *SentinelHubProvider) DimensionsFor(
	box models.BoundingBox,
	resolutionMeters float64,
) (models.PixelGrid, error) {
	return dimensionsFor(box, resolutionMeters)
}
