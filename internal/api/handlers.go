package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"MovieMoodRecommender/internal/domain"
	"MovieMoodRecommender/internal/usecase"
)

// Adviser is the pipeline surface the handlers depend on.
type Adviser interface {
	Recommend(ctx context.Context, query domain.MoodQuery) (domain.RecommendationResult, error)
	Browse(ctx context.Context, genreID, pages int) ([]domain.Movie, error)
}

var _ Adviser = (*usecase.Pipeline)(nil)

// Handler serves the JSON API backed by the recommendation pipeline.
type Handler struct {
	pipeline Adviser
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler wires the pipeline into HTTP handlers.
func NewHandler(pipeline Adviser, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// timeouts per provider round-trip budget: catalog + curation + trailers
const recommendTimeout = 60 * time.Second
const browseTimeout = 25 * time.Second

type recommendRequest struct {
	Mood  string `json:"mood" validate:"required"`
	Genre int    `json:"genre" validate:"required"`
}

type recommendationJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Year        string  `json:"year,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterURL   string  `json:"poster_url,omitempty"`
	TrailerURL  string  `json:"trailer_url,omitempty"`
	TMDBURL     string  `json:"tmdb_url"`
	Reason      string  `json:"reason"`
}

type recommendResponse struct {
	Mood            string               `json:"mood"`
	Genre           domain.Genre         `json:"genre"`
	Recommendations []recommendationJSON `json:"recommendations"`
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON with mood and genre")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_QUERY", "mood and genre are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	result, err := h.pipeline.Recommend(ctx, domain.MoodQuery{Mood: req.Mood, GenreID: req.Genre})
	if err != nil {
		status, code := statusForError(err)
		h.warn("recommend failed", "error", err, "code", code)
		respondError(w, r, status, code, err.Error())
		return
	}

	out := recommendResponse{
		Mood:            result.Mood,
		Genre:           result.Genre,
		Recommendations: make([]recommendationJSON, 0, len(result.Recommendations)),
	}
	for _, rec := range result.Recommendations {
		out.Recommendations = append(out.Recommendations, recommendationJSON{
			ID:          rec.Movie.ID,
			Title:       rec.Movie.Title,
			Year:        rec.Movie.Year(),
			Overview:    rec.Movie.Overview,
			VoteAverage: rec.Movie.VoteAverage,
			VoteCount:   rec.Movie.VoteCount,
			PosterURL:   rec.Movie.PosterURL,
			TrailerURL:  rec.TrailerURL,
			TMDBURL:     "https://www.themoviedb.org/movie/" + strconv.Itoa(rec.Movie.ID),
			Reason:      rec.Reason,
		})
	}

	respondJSON(w, r, http.StatusOK, out)
}

type movieJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int   `json:"genre_ids"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterURL   string  `json:"poster_url,omitempty"`
}

// Movies handles GET /api/v1/movies?genre=<id>&pages=<n>: the raw data
// browser over the catalog provider.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.Atoi(r.URL.Query().Get("genre"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_QUERY", "genre must be a numeric genre id")
		return
	}

	pages := 1
	if raw := r.URL.Query().Get("pages"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			pages = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), browseTimeout)
	defer cancel()

	movies, err := h.pipeline.Browse(ctx, genreID, pages)
	if err != nil {
		status, code := statusForError(err)
		h.warn("browse failed", "error", err, "code", code)
		respondError(w, r, status, code, err.Error())
		return
	}

	out := make([]movieJSON, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieJSON{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			Popularity:  m.Popularity,
			GenreIDs:    m.GenreIDs,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			PosterURL:   m.PosterURL,
		})
	}

	respondJSON(w, r, http.StatusOK, out)
}

// Genres handles GET /api/v1/genres.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, domain.Genres())
}

type aboutResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Attribution string   `json:"attribution"`
}

// About handles GET /api/v1/about: the static informational view.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, aboutResponse{
		Name:        "Movie Mood Recommender",
		Description: "Describe your mood, pick a genre, get five curated picks with reasons.",
		Steps: []string{
			"TMDB returns popular movies for the selected genre.",
			"The language model ranks them by your mood and explains why.",
			"Picks are matched back to TMDB for posters, ratings and trailers.",
		},
		Attribution: "Movie data from TMDB; curation by OpenAI.",
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) warn(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, args...)
	}
}
