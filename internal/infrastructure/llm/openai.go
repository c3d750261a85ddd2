package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"MovieMoodRecommender/internal/config"
	"MovieMoodRecommender/internal/domain"
	"MovieMoodRecommender/internal/metrics"
	"MovieMoodRecommender/internal/ports"
)

const (
	// pickCount is the number of recommendations a curation must produce.
	pickCount = 5

	// maxCandidates caps how many catalog entries go into the prompt.
	maxCandidates = 18
)

var (
	fenceExpr   = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	bracketExpr = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
)

// OpenAIClient implements ports.Curator backed by OpenAI-compatible APIs.
type OpenAIClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	temperature  float64
	httpClient   *http.Client
}

var _ ports.Curator = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig, client *http.Client) *OpenAIClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OpenAIClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: safePrompt(cfg.SystemPrompt),
		temperature:  cfg.Temperature,
		httpClient:   client,
	}
}

// Curate asks the model to pick the five best titles for the mood and
// parses its reply into picks validated against the candidate set.
func (c *OpenAIClient) Curate(ctx context.Context, mood string, movies []domain.Movie) ([]domain.Pick, error) {
	if c == nil || c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("%w: openai client misconfigured", domain.ErrProviderUnavailable)
	}
	if strings.TrimSpace(mood) == "" {
		return nil, fmt.Errorf("%w: empty mood", domain.ErrInvalidQuery)
	}
	if len(movies) < pickCount {
		return nil, fmt.Errorf("%w: %d candidates, need %d", domain.ErrInsufficientCatalog, len(movies), pickCount)
	}

	content, err := c.complete(ctx, buildPrompt(mood, movies))
	if err != nil {
		return nil, err
	}

	raw, err := parsePicks(content)
	if err != nil {
		return nil, err
	}

	known := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		known[m.ID] = struct{}{}
	}

	picks := make([]domain.Pick, 0, pickCount)
	for _, p := range raw {
		if _, ok := known[int(p.ID)]; !ok {
			continue
		}
		picks = append(picks, domain.Pick{MovieID: int(p.ID), Reason: strings.TrimSpace(p.Reason)})
		if len(picks) == pickCount {
			break
		}
	}

	if len(picks) < pickCount {
		return nil, fmt.Errorf("%w: %d of %d picks reference known titles",
			domain.ErrCurationMismatch, len(picks), len(raw))
	}

	return picks, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) complete(ctx context.Context, userPrompt string) (_ string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderRequest("openai", "curate", start, err) }()

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "system", "content": c.systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: %s: %s", domain.ErrProviderUnavailable,
			resp.Status, strings.TrimSpace(string(detail)))
	}

	var payload chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode envelope: %v", domain.ErrUnparsableResponse, err)
	}

	if len(payload.Choices) == 0 || strings.TrimSpace(payload.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUnparsableResponse)
	}

	return payload.Choices[0].Message.Content, nil
}

func buildPrompt(mood string, movies []domain.Movie) string {
	if len(movies) > maxCandidates {
		movies = movies[:maxCandidates]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pick the %d best movies for the mood: %q from this list:\n\n", pickCount, strings.TrimSpace(mood))
	for _, m := range movies {
		fmt.Fprintf(&b, "%d — %s", m.ID, m.Title)
		if overview := strings.TrimSpace(m.Overview); overview != "" {
			fmt.Fprintf(&b, ": %s", overview)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nReturn ONLY a JSON array of objects with keys \"id\", \"title\" and \"reason\". "+
		"The \"id\" must be one of the numeric ids above.")

	return b.String()
}

// pickID tolerates models quoting numeric ids.
type pickID int

func (p *pickID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("pick id %q is not numeric", s)
	}
	*p = pickID(n)
	return nil
}

type rawPick struct {
	ID     pickID `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

func parsePicks(content string) ([]rawPick, error) {
	block := extractJSONBlock(content)

	var picks []rawPick
	if err := json.Unmarshal([]byte(block), &picks); err == nil {
		return picks, nil
	}

	// a lone object is treated as a one-element list
	var single rawPick
	if err := json.Unmarshal([]byte(block), &single); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableResponse, err)
	}

	return []rawPick{single}, nil
}

// extractJSONBlock pulls the JSON payload out of a model reply that may
// wrap it in a markdown fence or surrounding prose.
func extractJSONBlock(text string) string {
	if m := fenceExpr.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bracketExpr.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a concise movie recommendation assistant."
	}
	return prompt
}
