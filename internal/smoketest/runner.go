package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/metaforge/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete recommendation smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting recommendation smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("seed", config.Seed),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the catalog summary; it doubles as an API check
	catalog, err := fetchCatalog(ctx, config)
	if err != nil {
		return fmt.Errorf("catalog retrieval failed: %w", err)
	}
	logger.Get().Info(ctx, "catalog summary retrieved",
		logger.Int("skills", len(catalog.Skills)),
		logger.Int("supports", len(catalog.Supports)),
		logger.Int("ascendancies", len(catalog.Ascendancies)))

	// Step 3: Generate requests
	requests := generateRequests(ctx, config, config.Classes, stats)

	// Step 4: Submit requests concurrently
	outcomes := submitRequests(ctx, config, requests, stats)

	// Step 5: Verify response invariants
	if err := verifyOutcomes(ctx, outcomes, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Replay a sample of seeded requests
	verifyReplays(ctx, config, outcomes, stats)

	// Step 7: Save outcomes to file
	if err := saveOutcomesToFile(ctx, config, outcomes); err != nil {
		logger.Get().Warn(ctx, "failed to save outcomes to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.InvariantFailures > 0 || stats.ReplayFailures > 0 {
		return fmt.Errorf("%d invariant failures, %d replay failures",
			stats.InvariantFailures, stats.ReplayFailures)
	}

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchCatalog retrieves the catalog summary from the service.
func fetchCatalog(ctx context.Context, config *Config) (*CatalogSummary, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/catalog"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("catalog request failed with status: %d", resp.StatusCode)
	}

	var summary CatalogSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse catalog summary: %w", err)
	}
	return &summary, nil
}

// saveOutcomesToFile saves the request/response pairs to a JSON file.
func saveOutcomesToFile(ctx context.Context, config *Config, outcomes []Outcome) error {
	if len(outcomes) == 0 {
		return fmt.Errorf("no outcomes to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "smoke_outcomes_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		return fmt.Errorf("failed to write outcomes: %w", err)
	}

	logger.Get().Info(ctx, "outcomes saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.RequestsSubmitted > 0 {
		successRate = float64(stats.RequestsSuccessful) / float64(stats.RequestsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requestsGenerated", stats.RequestsGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsSuccessful", stats.RequestsSuccessful),
		logger.Int("requestsRejected", stats.RequestsRejected),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("shortfalls", stats.Shortfalls),
		logger.Int("invariantFailures", stats.InvariantFailures),
		logger.Int("replayChecks", stats.ReplayChecks),
		logger.Int("replayFailures", stats.ReplayFailures),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
