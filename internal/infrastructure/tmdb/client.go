package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"MovieMoodRecommender/internal/config"
	"MovieMoodRecommender/internal/domain"
	"MovieMoodRecommender/internal/metrics"
	"MovieMoodRecommender/internal/ports"
)

const posterSize = "w342"

// Client talks to the TMDB API for genre catalogs and trailer lookups.
type Client struct {
	baseURL      string
	imageBaseURL string
	language     string
	apiKey       string
	http         *http.Client
}

var _ ports.Catalog = (*Client)(nil)
var _ ports.TrailerFinder = (*Client)(nil)

// NewClient builds a reusable client from configuration.
func NewClient(cfg config.TMDBConfig, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimSuffix(cfg.ImageBaseURL, "/"),
		language:     cfg.Language,
		apiKey:       cfg.APIKey,
		http:         client,
	}
}

type movieJSON struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int   `json:"genre_ids"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path"`
}

type discoverResponse struct {
	Page    int         `json:"page"`
	Results []movieJSON `json:"results"`
}

// FetchPopular returns up to pages*20 titles for the genre, ranked by
// provider-side popularity. Pages are fetched sequentially and results
// concatenated in provider order.
func (c *Client) FetchPopular(ctx context.Context, genreID, pages int) ([]domain.Movie, error) {
	if pages < 1 {
		pages = 1
	}

	var movies []domain.Movie
	for page := 1; page <= pages; page++ {
		batch, err := c.discoverPage(ctx, genreID, page)
		if err != nil {
			return nil, err
		}
		movies = append(movies, batch...)
	}

	return movies, nil
}

func (c *Client) discoverPage(ctx context.Context, genreID, page int) (_ []domain.Movie, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderRequest("tmdb", "discover", start, err) }()

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)
	query.Set("sort_by", "popularity.desc")
	query.Set("include_adult", "false")
	query.Set("with_genres", strconv.Itoa(genreID))
	query.Set("page", strconv.Itoa(page))

	var payload discoverResponse
	if err = c.get(ctx, "/discover/movie", query, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	movies := make([]domain.Movie, 0, len(payload.Results))
	for _, m := range payload.Results {
		movies = append(movies, domain.Movie{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			Popularity:  m.Popularity,
			GenreIDs:    m.GenreIDs,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			PosterPath:  m.PosterPath,
			PosterURL:   c.PosterURL(m.PosterPath, posterSize),
		})
	}

	return movies, nil
}

type videoJSON struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type videosResponse struct {
	Results []videoJSON `json:"results"`
}

// TrailerURL resolves a YouTube trailer link for the title, preferring
// entries typed as trailers. An empty string means no trailer exists.
func (c *Client) TrailerURL(ctx context.Context, movieID int) (_ string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderRequest("tmdb", "videos", start, err) }()

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)

	var payload videosResponse
	if err = c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), query, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	for _, v := range payload.Results {
		if v.Site == "YouTube" && strings.Contains(v.Type, "Trailer") {
			return youtubeURL(v.Key), nil
		}
	}
	for _, v := range payload.Results {
		if v.Site == "YouTube" {
			return youtubeURL(v.Key), nil
		}
	}

	return "", nil
}

// PosterURL builds a full image URL for a provider poster path.
func (c *Client) PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func youtubeURL(key string) string {
	return "https://www.youtube.com/watch?v=" + key
}
