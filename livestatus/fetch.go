package livestatus

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"
)

// FetchError reports that every retry attempt failed; callers surface it as
// an explicit failure result, not an exception path.
type FetchError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Last)
}

func (e *FetchError) Unwrap() error { return e.Last }

// Fetcher is a retrying HTTP GET helper: exponential backoff with random
// jitter, retrying on 5xx, 429 and network-level errors. 404 and other 4xx
// responses return immediately without retry.
type Fetcher struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewFetcher builds a fetcher. maxRetries <= 0 defaults to 3.
func NewFetcher(timeout time.Duration, maxRetries int) *Fetcher {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
	}
}

// Get fetches the URL body, retrying per the status-code policy.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.baseDelay * time.Duration(1<<(attempt-1))
			delay += time.Duration(rand.Int63n(int64(f.baseDelay)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("livestatus: attempt %d for %s: %v", attempt+1, url, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			log.Printf("livestatus: attempt %d for %s: HTTP %d", attempt+1, url, resp.StatusCode)
		default:
			// 404 and other 4xx: the request itself is wrong, retrying
			// cannot help.
			return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
		}
	}

	return nil, &FetchError{URL: url, Attempts: f.maxRetries, Last: lastErr}
}
