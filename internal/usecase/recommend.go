package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"MovieMoodRecommender/internal/domain"
	"MovieMoodRecommender/internal/ports"
)

const (
	// recommendPages is how many catalog pages feed one curation.
	recommendPages = 2

	// minCandidates is the smallest catalog the curator accepts.
	minCandidates = 5

	// maxBrowsePages bounds the raw data browser.
	maxBrowsePages = 5
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Catalog  ports.Catalog
	Curator  ports.Curator
	Trailers ports.TrailerFinder
	Logger   *slog.Logger
}

// Pipeline implements the mood-to-recommendations workflow: validate the
// query, fetch the genre catalog, have the model curate it, join picks
// back to their entries. One invocation holds no state beyond its inputs.
type Pipeline struct {
	catalog  ports.Catalog
	curator  ports.Curator
	trailers ports.TrailerFinder
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		catalog:  deps.Catalog,
		curator:  deps.Curator,
		trailers: deps.Trailers,
		logger:   deps.Logger,
	}
}

// Recommend runs one full pipeline invocation for a user submission.
// Failures propagate unchanged; nothing is retried.
func (p *Pipeline) Recommend(ctx context.Context, query domain.MoodQuery) (domain.RecommendationResult, error) {
	if err := query.Validate(); err != nil {
		return domain.RecommendationResult{}, err
	}
	genre, _ := domain.GenreByID(query.GenreID)

	movies, err := p.catalog.FetchPopular(ctx, genre.ID, recommendPages)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("fetch catalog for %s: %w", genre.Name, err)
	}
	if len(movies) == 0 {
		return domain.RecommendationResult{}, fmt.Errorf("genre %s: %w", genre.Name, domain.ErrEmptyCatalog)
	}
	if len(movies) < minCandidates {
		return domain.RecommendationResult{}, fmt.Errorf("genre %s has %d titles: %w",
			genre.Name, len(movies), domain.ErrInsufficientCatalog)
	}

	p.debug("catalog fetched", "genre", genre.Name, "count", len(movies))

	picks, err := p.curator.Curate(ctx, query.Mood, movies)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("curate for %s: %w", genre.Name, err)
	}

	byID := make(map[int]domain.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	recommendations := make([]domain.Recommendation, 0, len(picks))
	for _, pick := range picks {
		movie, ok := byID[pick.MovieID]
		if !ok {
			// the curator already validated ids; a miss here is a bug
			return domain.RecommendationResult{}, fmt.Errorf("pick %d: %w", pick.MovieID, domain.ErrCurationMismatch)
		}

		rec := domain.Recommendation{Movie: movie, Reason: pick.Reason}
		if p.trailers != nil {
			trailer, tErr := p.trailers.TrailerURL(ctx, movie.ID)
			if tErr != nil {
				// trailer links are cosmetic enrichment, never fail the pipeline
				p.debug("trailer lookup failed", "movie", movie.ID, "error", tErr)
			} else {
				rec.TrailerURL = trailer
			}
		}
		recommendations = append(recommendations, rec)
	}

	p.debug("curation done", "genre", genre.Name, "picks", len(recommendations))

	return domain.RecommendationResult{
		Mood:            query.Mood,
		Genre:           genre,
		Recommendations: recommendations,
	}, nil
}

// Browse returns the raw catalog for a genre, provider order preserved.
// Pages are clamped to 1..5 (each page carries about 20 entries).
func (p *Pipeline) Browse(ctx context.Context, genreID, pages int) ([]domain.Movie, error) {
	genre, ok := domain.GenreByID(genreID)
	if !ok {
		return nil, fmt.Errorf("genre %d: %w", genreID, domain.ErrInvalidQuery)
	}

	if pages < 1 {
		pages = 1
	}
	if pages > maxBrowsePages {
		pages = maxBrowsePages
	}

	movies, err := p.catalog.FetchPopular(ctx, genre.ID, pages)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog for %s: %w", genre.Name, err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("genre %s: %w", genre.Name, domain.ErrEmptyCatalog)
	}

	return movies, nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
