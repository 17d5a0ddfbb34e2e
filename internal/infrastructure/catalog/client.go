package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/scansafe/backend/internal/domain"
)

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	locale      string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Open Food Facts client. locale selects which
// localized field variants the mapper prefers (e.g. "es").
func NewClient(baseURL, locale string) *Client {
	// Open Food Facts asks for no more than 100 product queries per minute
	limiter := rate.NewLimiter(rate.Limit(100.0/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		locale:      locale,
		rateLimiter: limiter,
	}
}

// productResponse is the raw catalog envelope. The product payload itself is
// duck-typed (localized field names vary), so it is decoded as a map and
// normalized by the mapper before anything downstream sees it.
type productResponse struct {
	Status  int                    `json:"status"`
	Product map[string]interface{} `json:"product"`
}

// GetByBarcode fetches and normalizes one product. Returns
// domain.ErrProductNotFound when the catalog has no entry for the barcode.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, barcode)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[CATALOG] request error (attempt %d): %v", attempt, err)
			lastErr = err
			if sleepErr := sleepBackoff(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[CATALOG] API error (attempt %d) - status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrTierFailure, resp.StatusCode)
			if sleepErr := sleepBackoff(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		var payload productResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrTierFailure, err)
		}
		if payload.Status != 1 || payload.Product == nil {
			log.Printf("[CATALOG] no entry for barcode %s", barcode)
			return nil, domain.ErrProductNotFound
		}

		return MapProduct(barcode, c.locale, payload.Product), nil
	}

	log.Printf("[CATALOG] all retries failed for barcode %s", barcode)
	return nil, lastErr
}

// doRequest executes an HTTP GET with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ScanSafe/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTierFailure, err)
	}
	return resp, nil
}

// sleepBackoff waits between retries, respecting cancellation
func sleepBackoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(attempt*500) * time.Millisecond):
		return nil
	}
}
