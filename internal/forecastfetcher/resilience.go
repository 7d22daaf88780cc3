package forecastfetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
	httpTimeout       = 60 * time.Second
)

var (
	errServerError = errors.New("upstream server error")
	errNotFound    = errors.New("upstream returned 404")
	errFatalStatus = errors.New("upstream returned a non-retryable status")
)

// newCircuitBreaker builds one breaker per model region, sized the same
// way regardless of which region trips it.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithResilience runs buildRequest through the given client with a
// fixed retry count and fixed backoff, plus the model region's circuit
// breaker. 4xx other than 404 is immediately fatal; 404 and 5xx are
// retryable; a successful response body is read in full and returned as
// raw bytes.
func doRequestWithResilience(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, maxRetries int, delay time.Duration, buildRequest func() (*http.Request, error)) ([]byte, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			defer resp.Body.Close()

			body, readErr := readBody(resp)
			if readErr != nil {
				return nil, readErr
			}

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return nil, errNotFound
			case resp.StatusCode >= 500:
				return nil, errServerError
			case resp.StatusCode >= 400:
				return nil, fmt.Errorf("%w: %d", errFatalStatus, resp.StatusCode)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				return nil, fmt.Errorf("%w: %d", errFatalStatus, resp.StatusCode)
			case len(body) == 0:
				return nil, errServerError // empty body counts as transient
			}
			return body, nil
		})

		if err == nil {
			return result.([]byte), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, err
		}
		if errors.Is(err, errFatalStatus) {
			return nil, err
		}

		lastErr = err
		if attempt >= maxRetries-1 {
			return nil, lastErr
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(resp.Body)
}
