package domain

import "strings"

// Movie is a core entity describing one title fetched from the catalog provider.
// Fields mirror the provider payload verbatim; nothing here is persisted.
type Movie struct {
	ID          int
	Title       string
	Overview    string
	Popularity  float64
	GenreIDs    []int
	ReleaseDate string
	VoteAverage float64
	VoteCount   int
	PosterPath  string
	PosterURL   string
}

// Year extracts the release year for display, empty when unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// MoodQuery is one user submission: a free-text mood plus a genre choice.
type MoodQuery struct {
	Mood    string
	GenreID int
}

// Validate checks the query invariants: non-blank mood, known genre.
func (q MoodQuery) Validate() error {
	if strings.TrimSpace(q.Mood) == "" {
		return ErrInvalidQuery
	}
	if _, ok := GenreByID(q.GenreID); !ok {
		return ErrInvalidQuery
	}
	return nil
}

// Pick is one curated choice returned by the language-model provider:
// a catalog identifier plus the model's explanation.
type Pick struct {
	MovieID int
	Reason  string
}

// Recommendation joins a curated pick back to its catalog entry.
type Recommendation struct {
	Movie      Movie
	Reason     string
	TrailerURL string
}

// RecommendationResult is the ordered outcome of one pipeline invocation.
// Order is the curation order; the result is discarded after rendering.
type RecommendationResult struct {
	Mood            string
	Genre           Genre
	Recommendations []Recommendation
}
