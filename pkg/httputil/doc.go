// Package httputil provides retry helpers for outbound HTTP calls.
//
// # Retry
//
// [Policy.Do] wraps an operation with retries and exponential backoff.
// Only errors wrapped with [Retryable] are retried; everything else (a 404,
// a decode failure) is returned at once:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    if httputil.RetryableStatus(resp.StatusCode) {
//	        return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
//	    }
//	    ...
//	})
//
// Cancelling the context stops the wait between attempts and returns
// ctx.Err().
//
// The retry policy belongs to the HTTP client that needs it. Core
// components and storage never retry.
package httputil
