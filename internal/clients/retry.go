package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"tad/internal/structures"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// shouldRetry retries on transport errors, server errors and rate limits.
// Client errors (4xx other than 429) are final.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// NewHTTPExecutor builds the shared retry-with-backoff decorator applied to
// every upstream call (collector, analyzer, notifier). A single policy,
// configured once, instead of per-client retry loops.
//
//nolint:bodyclose // [*http.Response] is a generic type parameter here, not a live response
func NewHTTPExecutor(cfg structures.RetryConfig) failsafe.Executor[*http.Response] {
	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(resp *http.Response, err error) bool {
			return shouldRetry(resp, err)
		}).
		// Exhausted retries hand back the final response so callers can
		// report the upstream status instead of a generic exceeded error.
		ReturnLastFailure().
		Build()

	return failsafe.With(retry)
}

// doWithRetry executes build->Do through the executor. The request is built
// fresh per attempt so bodies are always readable.
func doWithRetry(ctx context.Context, executor failsafe.Executor[*http.Response], client *http.Client, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	return executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if shouldRetry(resp, nil) {
			// Drain so the connection can be reused across attempts.
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		return resp, nil
	})
}

func checkStatus(resp *http.Response, upstream string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", upstream, resp.StatusCode)
	}
	return nil
}
