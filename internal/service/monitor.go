package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/OpenCanopy/fieldscope/internal/geo"
	"github.com/OpenCanopy/fieldscope/internal/imagery"
	"github.com/OpenCanopy/fieldscope/internal/metrics"
	"github.com/OpenCanopy/fieldscope/internal/models"
	"github.com/OpenCanopy/fieldscope/internal/repository"
)

// MonitorService periodically scans monitored fields for new satellite
// captures: it builds the capture area around each field center, snaps it to
// the configured pixel grid and asks the imagery provider for available
// capture dates.
type MonitorService struct {
	log           *slog.Logger         // Logger for logging service activities
	repo          repository.Interface // Interface for data repository access
	provider      imagery.Provider     // Imagery provider for the external satellite API
	providerName  string               // Name of the provider for metrics labeling
	metrics       *metrics.Metrics     // Metrics for tracking service performance
	numWorkers    int                  // Number of concurrent workers for processing
	pollInterval  time.Duration        // Interval for polling fields due for a scan
	resolution    float64              // Ground resolution in meters per pixel
	targetGrid    models.PixelGrid     // Pixel grid every capture area is snapped to
	maxCloudCover float64              // Tolerated cloud fraction when listing captures
	lookbackDays  int                  // How far back capture dates are searched
}

// NewMonitorService creates a new instance of MonitorService. It takes a
// logger, a repository interface, an imagery provider, the provider name for
// metrics, metrics for monitoring, the number of workers to use, a polling
// interval, and the capture parameters (resolution, target grid, cloud cover
// threshold and lookback window). It returns a pointer to the newly created
// MonitorService.
func NewMonitorService(
	log *slog.Logger,
	repo repository.Interface,
	provider imagery.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	resolution float64,
	targetGrid models.PixelGrid,
	maxCloudCover float64,
	lookbackDays int,
) *MonitorService {
	return &MonitorService{
		log:           log,
		repo:          repo,
		provider:      provider,
		providerName:  providerName,
		metrics:       metrics,
		numWorkers:    numWorkers,
		pollInterval:  pollInterval,
		resolution:    resolution,
		targetGrid:    targetGrid,
		maxCloudCover: maxCloudCover,
		lookbackDays:  lookbackDays,
	}
}

// Run starts the monitor service, which periodically polls for fields due for
// a capture scan. It listens for a cancellation signal from the context to
// gracefully stop the service.
func (ms *MonitorService) Run(ctx context.Context) {
	ticker := time.NewTicker(ms.pollInterval)
	defer ticker.Stop()

	ms.log.InfoContext(ctx, "Field monitor service started...")

	for {
		select {
		case <-ctx.Done():
			ms.log.InfoContext(ctx, "Field monitor service stopped.")
			return
		case <-ticker.C:
			ms.log.InfoContext(ctx, "Polling for fields due for a capture scan...")
			ms.processFields(ctx)
		}
	}
}

// processFields fetches fields due for scanning from the repository, starts a
// worker pool to process them, and waits for all workers to finish.
func (ms *MonitorService) processFields(ctx context.Context) {
	fieldLimit := 100
	fields, err := ms.repo.FetchFieldsForScan(ctx, fieldLimit)
	if err != nil {
		ms.log.ErrorContext(ctx, "Failed to fetch fields", "error", err)
		return
	}
	if len(fields) == 0 {
		ms.log.InfoContext(ctx, "No fields to scan.")
		return
	}

	ms.log.InfoContext(
		ctx,
		"Found fields to scan. Starting worker pool.",
		"jobs",
		len(fields),
		"num_workers",
		ms.numWorkers,
	)

	jobs := make(chan models.Field, len(fields))
	var wgr sync.WaitGroup

	for i := 1; i <= ms.numWorkers; i++ {
		wgr.Add(1)
		go ms.worker(ctx, i, &wgr, jobs)
	}

	for _, field := range fields {
		jobs <- field
	}
	close(jobs)

	wgr.Wait()
	ms.log.InfoContext(ctx, "Scanning batch finished")
}

// worker processes fields from the jobs channel. For each field it builds the
// snapped capture area, queries the provider for capture dates over the
// lookback window and stores the result. Failures increment the field's
// failure count so broken fields eventually stop being retried.
func (ms *MonitorService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Field) {
	defer wg.Done()
	for field := range jobs {
		ms.metrics.ActiveWorkers.Inc()
		ms.log.DebugContext(ctx, "Scanning field", "worker", idx, "field", field.ID)

		dates, err := ms.scanField(ctx, field)
		if err != nil {
			ms.log.ErrorContext(ctx, "Failed to scan field", "worker", idx, "field", field.ID, "error", err)
			ms.metrics.FieldsScanned.WithLabelValues("failure").Inc()
			ms.metrics.APIErrors.Inc()

			if err = ms.repo.IncrementFailureCount(ctx, field.ID, err.Error()); err != nil {
				ms.log.ErrorContext(
					ctx,
					"Could not update failure count for field",
					"worker", idx,
					"field", field.ID,
					"error", err,
				)
			}
			ms.metrics.ActiveWorkers.Dec()
			continue
		}

		ms.metrics.FieldsScanned.WithLabelValues("success").Inc()
		ms.metrics.CaptureDates.Add(float64(len(dates)))

		if err = ms.repo.SaveCaptureDates(ctx, field.ID, dates); err != nil {
			ms.log.ErrorContext(
				ctx,
				"Failed to store capture dates for field",
				"worker", idx,
				"field", field.ID,
				"error", err,
			)
		} else {
			ms.log.DebugContext(ctx, "Worker successfully scanned the field",
				"worker", idx, "field", field.ID, "dates", len(dates))
		}

		ms.metrics.ActiveWorkers.Dec()
	}
}

// scanField builds the snapped capture area for a field and lists its capture
// dates over the lookback window.
func (ms *MonitorService) scanField(ctx context.Context, field models.Field) ([]time.Time, error) {
	box, err := geo.SquareAroundPoint(field.Center, field.SideMeters)
	if err != nil {
		return nil, err
	}

	box, err = geo.FitToGrid(box, ms.targetGrid, ms.resolution, ms.provider)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	window := models.TimeWindow{
		From: now.AddDate(0, 0, -ms.lookbackDays),
		To:   now,
	}

	startTime := time.Now()
	dates, err := ms.provider.AvailableDates(ctx, box, window, ms.maxCloudCover)
	duration := time.Since(startTime).Seconds()
	ms.metrics.RequestSeconds.WithLabelValues(ms.providerName).Observe(duration)

	if err != nil {
		return nil, err
	}

	return dates, nil
}
