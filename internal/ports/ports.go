package ports

import (
	"context"

	"MovieMoodRecommender/internal/domain"
)

// Catalog pulls popular titles for one genre from the metadata provider.
// Results keep provider-side popularity order; nothing is cached.
type Catalog interface {
	FetchPopular(ctx context.Context, genreID, pages int) ([]domain.Movie, error)
}

// Curator asks the language-model provider to pick titles matching a mood
// and to explain each pick. Every returned identifier must be present in
// the candidate set handed in.
type Curator interface {
	Curate(ctx context.Context, mood string, movies []domain.Movie) ([]domain.Pick, error)
}

// TrailerFinder resolves a watchable trailer link for a title. Lookups are
// best-effort enrichment; an empty URL means no trailer was found.
type TrailerFinder interface {
	TrailerURL(ctx context.Context, movieID int) (string, error)
}
