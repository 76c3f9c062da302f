package domain

import "errors"

// Load failures. Retrieval errors for 404/401/403 also match
// ErrNotFound, ErrUnauthorized and ErrForbidden respectively.
var (
	ErrRetrieval     = errors.New("trustpilot: retrieval failed")
	ErrDecompression = errors.New("trustpilot: decompression failed")
	ErrParse         = errors.New("trustpilot: parse failed")

	ErrNotFound     = errors.New("trustpilot: not found")
	ErrUnauthorized = errors.New("trustpilot: unauthorized")
	ErrForbidden    = errors.New("trustpilot: forbidden")

	ErrInvalidAccountKey = errors.New("trustpilot: invalid account key")
)
