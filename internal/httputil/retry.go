// Package httputil holds the HTTP helpers shared by the upstream clients.
package httputil

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"
)

// RetryBaseDelay is the first backoff step. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether a status is worth another attempt: 429 when the
// upstream throttles us and 503 while a hosted model is still loading.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes req and retries retryable statuses with exponential
// backoff (base, 2*base, 4*base, ...). maxRetries <= 0 means the default.
//
// The request is cloned per attempt, so callers must build it with
// http.NewRequestWithContext and a body GetBody can replay (bytes.Reader or
// strings.Reader). After the last attempt the final response is returned
// unchanged so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := RetryBaseDelay << attempt
		log.Printf("[HTTP] %s returned %d, retrying in %v (attempt %d/%d)",
			req.URL.Host, resp.StatusCode, backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
