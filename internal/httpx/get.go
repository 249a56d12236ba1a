package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Upstream retry policy. Transient failures (timeouts, connection errors,
// 5xx) are retried a fixed number of times with a fixed delay; rate limits
// get one longer backoff; authentication failures short-circuit. Vars, not
// consts, so tests can shrink the delays.
var (
	MaxRetries     uint64 = 2
	RetryDelay            = 2 * time.Second
	RateLimitDelay        = 10 * time.Second
)

// Sentinel errors callers branch on when classifying upstream failures.
var (
	ErrUnauthorized = errors.New("upstream rejected credentials")
	ErrRateLimited  = errors.New("upstream rate limit exceeded")
)

// GetJSON issues a GET against rawURL and decodes the 200 response body
// into dst, applying the upstream retry policy. Errors returned after
// exhausted retries wrap the last failure.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	backoff := retry.WithMaxRetries(MaxRetries, retry.NewConstant(RetryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			// Timeouts and connection errors are transient.
			return retry.RetryableError(fmt.Errorf("upstream request: %w", err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnauthorized)

		case resp.StatusCode == http.StatusTooManyRequests:
			// One longer wait, then the call competes for the remaining
			// retry budget like any transient failure.
			if !sleepWithContext(ctx, RateLimitDelay) {
				return ctx.Err()
			}
			return retry.RetryableError(fmt.Errorf("status 429: %w", ErrRateLimited))

		case resp.StatusCode >= 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return retry.RetryableError(fmt.Errorf("upstream status %d: %s", resp.StatusCode, body))

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("upstream status %d: %s", resp.StatusCode, body)
		}
	})
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
