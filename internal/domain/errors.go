package domain

import "errors"

// Failure taxonomy for one pipeline invocation. Every failure surfaces to
// the caller as a readable message; nothing is retried or swallowed.
var (
	// ErrInvalidQuery marks a mood/genre submission that fails validation
	// before any network call is made.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrCatalogUnavailable covers network failures, non-success statuses
	// and malformed payloads from the catalog provider.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrEmptyCatalog means the genre yielded zero entries.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrInsufficientCatalog means the genre yielded fewer entries than
	// the number of recommendations the curator is asked for.
	ErrInsufficientCatalog = errors.New("insufficient catalog")

	// ErrProviderUnavailable covers network, auth and rate-limit failures
	// from the language-model provider.
	ErrProviderUnavailable = errors.New("curation provider unavailable")

	// ErrUnparsableResponse means the model output did not decompose into
	// the expected pick structure.
	ErrUnparsableResponse = errors.New("unparsable curation response")

	// ErrCurationMismatch means too many model picks referenced titles
	// absent from the candidate set, leaving fewer valid picks than asked.
	ErrCurationMismatch = errors.New("curation mismatch")
)
