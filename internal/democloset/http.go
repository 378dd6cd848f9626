package democloset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vrodas/ropero/pkg/logger"
)

// HTTPClient is a thin wrapper around http.Client with JSON helpers.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a client with the given request timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request and returns the status code and body.
func (c *HTTPClient) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Post performs a POST request with a JSON body and returns the status
// code and response body.
func (c *HTTPClient) Post(ctx context.Context, url string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Delete performs a DELETE request and returns the status code.
func (c *HTTPClient) Delete(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// SubmitGarments pushes all garments to the ingest endpoint using a pool
// of concurrent workers, updating the run stats as it goes.
func SubmitGarments(ctx context.Context, client *HTTPClient, cfg *Config, subs []GarmentSubmission, stats *Stats) {
	log := logger.Get().Named("submit")
	url := cfg.BaseURL + "/garments"

	jobs := make(chan GarmentSubmission, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				submitted := atomic.AddInt64(&stats.GarmentsSubmitted, 1)
				if err := submitOne(ctx, client, url, sub, stats); err != nil {
					atomic.AddInt64(&stats.SubmitFailed, 1)
					log.Warn(ctx, "submission failed",
						logger.String("garment_id", sub.GarmentID),
						logger.Error(err))
				}
				if submitted%ProgressReportInterval == 0 {
					log.Info(ctx, "submission progress",
						logger.Int("submitted", int(submitted)),
						logger.Int("total", len(subs)))
				}
			}
		}()
	}

	for _, sub := range subs {
		select {
		case jobs <- sub:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()

	log.Info(ctx, "submission complete",
		logger.Int("successful", int(atomic.LoadInt64(&stats.SubmitSuccessful))),
		logger.Int("duplicate", int(atomic.LoadInt64(&stats.SubmitDuplicate))),
		logger.Int("failed", int(atomic.LoadInt64(&stats.SubmitFailed))))
}

func submitOne(ctx context.Context, client *HTTPClient, url string, sub GarmentSubmission, stats *Stats) error {
	status, body, err := client.Post(ctx, url, sub)
	if err != nil {
		return err
	}

	switch status {
	case StatusAccepted:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err != nil {
			return fmt.Errorf("decode ack: %w", err)
		}
		atomic.AddInt64(&stats.SubmitSuccessful, 1)
		return nil
	case StatusOK:
		atomic.AddInt64(&stats.SubmitDuplicate, 1)
		return nil
	default:
		return fmt.Errorf("unexpected status %d: %s", status, string(body))
	}
}

// StoreCapsule submits the demo capsule and returns its summary.
func StoreCapsule(ctx context.Context, client *HTTPClient, cfg *Config, capsule CapsuleSubmission) (*CapsuleSummary, error) {
	status, body, err := client.Post(ctx, cfg.BaseURL+"/capsules", capsule)
	if err != nil {
		return nil, err
	}
	if status != StatusCreated {
		return nil, fmt.Errorf("store capsule: unexpected status %d: %s", status, string(body))
	}

	url := fmt.Sprintf("%s/capsules/%s/summary", cfg.BaseURL, capsule.CapsuleID)
	status, body, err = client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != StatusOK {
		return nil, fmt.Errorf("capsule summary: unexpected status %d", status)
	}

	var summary CapsuleSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, nil
}
