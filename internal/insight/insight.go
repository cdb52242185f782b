package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// Placeholder is shown while the first generation is in flight.
	Placeholder = "Sintonizando frequências terapêuticas..."

	// Fallback is returned whenever generation fails, so the feed header
	// always has a sentence to show.
	Fallback = "A música é o idioma do coração, onde as palavras falham, a melodia cura."

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-3-flash-preview"

	prompt = "Gere uma frase de reflexão profissional curta para um musicoterapeuta começar o dia, em português."
)

// Generator produces the daily reflection sentence for the feed header.
// Generate never returns an error; any failure yields Fallback.
type Generator struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(g *Generator) { g.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) { g.client = c }
}

// NewGenerator creates a Generator backed by the Gemini REST API.
func NewGenerator(apiKey string, log *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		baseURL: defaultBaseURL,
		model:   defaultModel,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate asks Gemini for a fresh reflection sentence. On any failure the
// fixed Fallback sentence is returned instead of an error.
func (g *Generator) Generate(ctx context.Context) string {
	text, err := g.generate(ctx)
	if err != nil {
		g.log.Warn("insight generation failed, using fallback", zap.Error(err))
		return Fallback
	}
	return text
}

func (g *Generator) generate(ctx context.Context) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("no api key configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty text in gemini response")
	}
	return text, nil
}
