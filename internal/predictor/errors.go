// Package predictor provides the client for the external prediction provider.
package predictor

import "errors"

var (
	// ErrProviderUnavailable indicates the provider is unreachable or failing
	ErrProviderUnavailable = errors.New("prediction provider unavailable")

	// ErrInvalidResponse indicates a response that could not be decoded
	ErrInvalidResponse = errors.New("invalid response from prediction provider")

	// ErrRequestRejected indicates the provider refused the request (4xx)
	ErrRequestRejected = errors.New("prediction request rejected")

	// ErrInvalidRequest indicates a request that failed local validation
	ErrInvalidRequest = errors.New("invalid prediction request")
)
