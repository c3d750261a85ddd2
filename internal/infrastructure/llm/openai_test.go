package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MovieMoodRecommender/internal/config"
	"MovieMoodRecommender/internal/domain"
)

func candidateMovies(n int) []domain.Movie {
	movies := make([]domain.Movie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, domain.Movie{
			ID:       i * 10,
			Title:    fmt.Sprintf("Movie %d", i),
			Overview: fmt.Sprintf("Synopsis %d.", i),
		})
	}
	return movies
}

func completionServer(t *testing.T, content string, capture *string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if capture != nil && len(req.Messages) == 2 {
			*capture = req.Messages[1].Content
		}

		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(reply)
	}))
}

func testClient(endpoint string, httpClient *http.Client) *OpenAIClient {
	return NewOpenAIClient(config.OpenAIConfig{
		Endpoint:    endpoint,
		Model:       "gpt-4o-mini",
		APIKey:      "test-key",
		Temperature: 0.6,
	}, httpClient)
}

func TestCurateFencedJSON(t *testing.T) {
	t.Parallel()

	content := "Here you go:\n```json\n[" +
		`{"id":10,"title":"Movie 1","reason":"warm"},` +
		`{"id":20,"title":"Movie 2","reason":"funny"},` +
		`{"id":30,"title":"Movie 3","reason":"light"},` +
		`{"id":"40","title":"Movie 4","reason":"cozy"},` +
		`{"id":50,"title":"Movie 5","reason":"sweet"}` +
		"]\n```"

	var prompt string
	server := completionServer(t, content, &prompt)
	defer server.Close()

	client := testClient(server.URL, server.Client())

	picks, err := client.Curate(context.Background(), "cozy and heartwarming", candidateMovies(8))
	if err != nil {
		t.Fatalf("Curate error: %v", err)
	}

	if len(picks) != 5 {
		t.Fatalf("expected 5 picks, got %d", len(picks))
	}
	// curation order preserved, quoted id accepted
	want := []int{10, 20, 30, 40, 50}
	for i, p := range picks {
		if p.MovieID != want[i] {
			t.Fatalf("pick %d: expected id %d, got %d", i, want[i], p.MovieID)
		}
	}
	if picks[0].Reason != "warm" {
		t.Fatalf("unexpected reason: %s", picks[0].Reason)
	}

	if !strings.Contains(prompt, "cozy and heartwarming") {
		t.Fatalf("prompt does not carry the mood: %s", prompt)
	}
	if !strings.Contains(prompt, "10 — Movie 1") {
		t.Fatalf("prompt does not list candidates: %s", prompt)
	}
}

func TestCurateBareJSONArray(t *testing.T) {
	t.Parallel()

	content := `[{"id":10,"reason":"a"},{"id":20,"reason":"b"},{"id":30,"reason":"c"},` +
		`{"id":40,"reason":"d"},{"id":50,"reason":"e"}]`
	server := completionServer(t, content, nil)
	defer server.Close()

	client := testClient(server.URL, server.Client())

	picks, err := client.Curate(context.Background(), "adrenaline", candidateMovies(6))
	if err != nil {
		t.Fatalf("Curate error: %v", err)
	}
	if len(picks) != 5 {
		t.Fatalf("expected 5 picks, got %d", len(picks))
	}
}

func TestCuratePromptCapsCandidates(t *testing.T) {
	t.Parallel()

	content := `[{"id":10,"reason":"a"},{"id":20,"reason":"b"},{"id":30,"reason":"c"},` +
		`{"id":40,"reason":"d"},{"id":50,"reason":"e"}]`

	var prompt string
	server := completionServer(t, content, &prompt)
	defer server.Close()

	client := testClient(server.URL, server.Client())

	if _, err := client.Curate(context.Background(), "weird and artsy", candidateMovies(40)); err != nil {
		t.Fatalf("Curate error: %v", err)
	}

	if strings.Contains(prompt, "Movie 19") {
		t.Fatalf("prompt carries more than %d candidates", maxCandidates)
	}
	if !strings.Contains(prompt, "Movie 18") {
		t.Fatalf("prompt is missing candidate 18: %s", prompt)
	}
}

func TestCurateDropsFabricatedIDs(t *testing.T) {
	t.Parallel()

	// two fabricated ids, only three valid picks remain
	content := `[{"id":10,"reason":"a"},{"id":20,"reason":"b"},{"id":30,"reason":"c"},` +
		`{"id":999,"reason":"made up"},{"id":888,"reason":"also made up"}]`
	server := completionServer(t, content, nil)
	defer server.Close()

	client := testClient(server.URL, server.Client())

	_, err := client.Curate(context.Background(), "relaxing evening", candidateMovies(8))
	if !errors.Is(err, domain.ErrCurationMismatch) {
		t.Fatalf("expected ErrCurationMismatch, got %v", err)
	}
}

func TestCurateTruncatesExtraPicks(t *testing.T) {
	t.Parallel()

	content := `[{"id":10,"reason":"a"},{"id":20,"reason":"b"},{"id":30,"reason":"c"},` +
		`{"id":40,"reason":"d"},{"id":50,"reason":"e"},{"id":60,"reason":"f"}]`
	server := completionServer(t, content, nil)
	defer server.Close()

	client := testClient(server.URL, server.Client())

	picks, err := client.Curate(context.Background(), "need a cry", candidateMovies(8))
	if err != nil {
		t.Fatalf("Curate error: %v", err)
	}
	if len(picks) != 5 {
		t.Fatalf("expected 5 picks, got %d", len(picks))
	}
	if picks[4].MovieID != 50 {
		t.Fatalf("unexpected last pick: %d", picks[4].MovieID)
	}
}

func TestCurateUnparsableReply(t *testing.T) {
	t.Parallel()

	server := completionServer(t, "I would suggest watching something nice.", nil)
	defer server.Close()

	client := testClient(server.URL, server.Client())

	_, err := client.Curate(context.Background(), "anything", candidateMovies(6))
	if !errors.Is(err, domain.ErrUnparsableResponse) {
		t.Fatalf("expected ErrUnparsableResponse, got %v", err)
	}
}

func TestCurateAuthFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	client := testClient(server.URL, server.Client())

	_, err := client.Curate(context.Background(), "anything", candidateMovies(6))
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestCurateInsufficientCandidates(t *testing.T) {
	t.Parallel()

	client := testClient("http://unreachable.invalid", nil)

	_, err := client.Curate(context.Background(), "anything", candidateMovies(3))
	if !errors.Is(err, domain.ErrInsufficientCatalog) {
		t.Fatalf("expected ErrInsufficientCatalog, got %v", err)
	}
}

func TestExtractJSONBlock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "fenced", in: "```json\n[1,2]\n```", want: "[1,2]"},
		{name: "fenced no lang", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "embedded", in: "Sure! [1,2] there you go", want: "[1,2]"},
		{name: "bare", in: "  [1,2]  ", want: "[1,2]"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := extractJSONBlock(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParsePicksSingleObject(t *testing.T) {
	t.Parallel()

	picks, err := parsePicks(`{"id":7,"title":"Solo","reason":"only one"}`)
	if err != nil {
		t.Fatalf("parsePicks error: %v", err)
	}
	if len(picks) != 1 || picks[0].ID != 7 {
		t.Fatalf("unexpected picks: %+v", picks)
	}
}
