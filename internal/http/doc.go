// Package http provides the HTTP client used to fetch cover art.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Response size limits
//   - Status errors that tell retryable failures from permanent ones
//
// # Basic Usage
//
//	client := http.NewClient()
//	data, err := client.Get(ctx, "https://covers.example.com/dune.jpg")
//	var statusErr *http.StatusError
//	if errors.As(err, &statusErr) && !statusErr.Retryable() {
//	    // 404 and friends: do not try again
//	}
package http
