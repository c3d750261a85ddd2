package api

import (
	"errors"
	"net/http"

	"MovieMoodRecommender/internal/domain"
)

// statusForError maps the domain failure taxonomy onto HTTP semantics.
// Every failure surfaces with a distinct code; none are retried here.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return http.StatusBadRequest, "INVALID_QUERY"
	case errors.Is(err, domain.ErrEmptyCatalog):
		return http.StatusNotFound, "EMPTY_CATALOG"
	case errors.Is(err, domain.ErrInsufficientCatalog):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_CATALOG"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusBadGateway, "CATALOG_UNAVAILABLE"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway, "PROVIDER_UNAVAILABLE"
	case errors.Is(err, domain.ErrUnparsableResponse):
		return http.StatusBadGateway, "UNPARSABLE_RESPONSE"
	case errors.Is(err, domain.ErrCurationMismatch):
		return http.StatusBadGateway, "CURATION_MISMATCH"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
