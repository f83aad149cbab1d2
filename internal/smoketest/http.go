package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitRequests submits recommendation requests concurrently using a
// worker pool and records one Outcome per request.
func submitRequests(ctx context.Context, config *Config, requests []Request, stats *Stats) []Outcome {
	log.Printf("submitting %d requests with %d workers...", len(requests), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/recommend"

	outcomes := make([]Outcome, len(requests))

	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
		shortfalls int64
	)

	type job struct {
		index int
		req   Request
	}

	jobChan := make(chan job, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					outcome := submitSingleRequest(ctx, client, url, j.req)
					outcomes[j.index] = outcome

					atomic.AddInt64(&submitted, 1)
					switch {
					case outcome.Response != nil:
						atomic.AddInt64(&successful, 1)
						if outcome.Response.Shortfall {
							atomic.AddInt64(&shortfalls, 1)
						}
					case outcome.Error == "rejected":
						atomic.AddInt64(&rejected, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose {
						total := atomic.LoadInt64(&submitted)
						log.Printf("progress: %d/%d submitted (ok: %d, rejected: %d, failed: %d)",
							total, len(requests),
							atomic.LoadInt64(&successful),
							atomic.LoadInt64(&rejected),
							atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for i, req := range requests {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job{index: i, req: req}:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RequestsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RequestsRejected = int(atomic.LoadInt64(&rejected))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.Shortfalls = int(atomic.LoadInt64(&shortfalls))

	log.Printf(`request submission completed:
   Successful: %d
   Rejected: %d
   Failed: %d
   Shortfalls: %d
`, stats.RequestsSuccessful, stats.RequestsRejected, stats.RequestsFailed, stats.Shortfalls)

	return outcomes
}

// submitSingleRequest posts one request and classifies the result.
func submitSingleRequest(ctx context.Context, client *HTTPClient, url string, request Request) Outcome {
	outcome := Outcome{Request: request}

	resp, err := client.Post(ctx, url, request)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	body, err := readResponseBody(resp)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	switch resp.StatusCode {
	case StatusOK:
		var r Response
		if err := json.Unmarshal(body, &r); err != nil {
			outcome.Error = "unparseable response: " + err.Error()
			return outcome
		}
		outcome.Response = &r
	case StatusBadRequest:
		// The generator only emits valid requests, so a rejection here
		// is a finding worth logging, not a crash.
		outcome.Error = "rejected"
	default:
		outcome.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	return outcome
}
