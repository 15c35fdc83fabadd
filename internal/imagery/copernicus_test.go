package imagery_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/imagery"
	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestCopernicusProvider_AvailableDates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := slog.Default()
	limiter := rate.NewLimiter(rate.Inf, 1)

	t.Run("search body carries collection, bbox, interval and cloud filter", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))

				raw, err := io.ReadAll(req.Body)
				require.NoError(t, err)

				var payload map[string]any
				require.NoError(t, json.Unmarshal(raw, &payload))
				assert.Equal(t, []any{"SENTINEL-2"}, payload["collections"])
				assert.Equal(t, "2023-06-01T00:00:00Z/2023-06-30T00:00:00Z", payload["datetime"])

				bbox := payload["bbox"].([]any)
				assert.InDelta(t, 30.40, bbox[0].(float64), 1e-9)

				cloud := payload["query"].(map[string]any)["eo:cloud_cover"].(map[string]any)
				assert.InDelta(t, 30.0, cloud["lte"].(float64), 1e-9)

				body := `{"features":[{"properties":{"datetime":"2023-06-11T09:10:31Z"}}],"links":[]}`

				return jsonResponse(http.StatusOK, body), nil
			},
		}

		provider := imagery.NewCopernicusProviderWithClient(mockClient, "test-token", limiter, logger)
		dates, err := provider.AvailableDates(ctx, testBox(), testWindow(), 0.3)

		require.NoError(t, err)
		require.Len(t, dates, 1)
		assert.Equal(t, time.Date(2023, time.June, 11, 0, 0, 0, 0, time.UTC), dates[0])
	})

	t.Run("pagination links are followed and days deduplicated", func(t *testing.T) {
		t.Parallel()
		requests := 0
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				requests++
				if requests == 1 {
					body := `{
						"features":[
							{"properties":{"datetime":"2023-06-21T09:10:31Z"}},
							{"properties":{"datetime":"2023-06-21T09:10:45Z"}}
						],
						"links":[{"rel":"next","href":"https://catalogue.dataspace.copernicus.eu/stac/search?page=2"}]
					}`

					return jsonResponse(http.StatusOK, body), nil
				}

				assert.Contains(t, req.URL.String(), "page=2")
				body := `{"features":[{"properties":{"datetime":"2023-06-11T09:10:31Z"}}],"links":[]}`

				return jsonResponse(http.StatusOK, body), nil
			},
		}

		provider := imagery.NewCopernicusProviderWithClient(mockClient, "test-token", limiter, logger)
		dates, err := provider.AvailableDates(ctx, testBox(), testWindow(), 1.0)

		require.NoError(t, err)
		assert.Equal(t, 2, requests)
		require.Len(t, dates, 2)
		assert.Equal(t, time.Date(2023, time.June, 11, 0, 0, 0, 0, time.UTC), dates[0])
		assert.Equal(t, time.Date(2023, time.June, 21, 0, 0, 0, 0, time.UTC), dates[1])
	})

	t.Run("unauthorized response", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, `{"error":"forbidden"}`), nil
			},
		}

		provider := imagery.NewCopernicusProviderWithClient(mockClient, "bad-token", limiter, logger)
		_, err := provider.AvailableDates(ctx, testBox(), testWindow(), 1.0)

		require.ErrorIs(t, err, imagery.ErrCopernicusUnauthorized)
	})

	t.Run("unparsable capture timestamp", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"features":[{"properties":{"datetime":"yesterday"}}]}`), nil
			},
		}

		provider := imagery.NewCopernicusProviderWithClient(mockClient, "test-token", limiter, logger)
		_, err := provider.AvailableDates(ctx, testBox(), testWindow(), 1.0)

		require.ErrorIs(t, err, imagery.ErrCopernicusBadDate)
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := imagery.NewCopernicusProviderWithClient(mockClient, "test-token", limiter, logger)
		_, err := provider.AvailableDates(ctx, testBox(), testWindow(), 1.0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute STAC search")
	})
}

func TestCopernicusProvider_BuildImageRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := slog.Default()
	limiter := rate.NewLimiter(rate.Inf, 1)
	provider := imagery.NewCopernicusProviderWithClient(&mockHTTPClient{}, "test-token", limiter, logger)

	query := imagery.ImageQuery{
		Box:          testBox(),
		Size:         models.PixelGrid{Width: 256, Height: 256},
		Evalscript:   "//VERSION=3",
		Date:         time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Anchor:       imagery.AnchorAfter,
		IntervalDays: 3,
	}

	request, err := provider.BuildImageRequest(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, "https://sh.dataspace.copernicus.eu/api/v1/process", request.URL)
	assert.Equal(t, http.MethodPost, request.Method)
	assert.Equal(t, time.Date(2023, time.June, 16, 0, 0, 0, 0, time.UTC), request.Window.From)
	assert.Equal(t, time.Date(2023, time.June, 18, 0, 0, 0, 0, time.UTC), request.Window.To)
}
