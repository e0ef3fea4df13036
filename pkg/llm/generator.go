package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// systemPrompt pins the answer policy: context only, admit ignorance,
// stay short and readable. Enforcement is up to the model.
const systemPrompt = "You are CITL Assistant, a college learning and accessibility coach.\n" +
	"You answer ONLY with facts that appear in the context provided below.\n" +
	"If the answer is not clearly present in the context, say you do not know " +
	"instead of guessing.\n" +
	"Keep answers concise and easy to read for community college students. Use " +
	"short paragraphs or bullet points.\n"

// GeneratorConfig represents the configuration for a generation client.
type GeneratorConfig struct {
	BaseURL     string // Ollama server URL
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Generator is a client for the Ollama generate endpoint.
type Generator struct {
	config GeneratorConfig
	client *http.Client
}

func NewGeneratorWithConfig(config GeneratorConfig) *Generator {
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:11434"
	}
	if config.Model == "" {
		config.Model = "mistral:7b-instruct"
	}
	if config.Temperature == 0 {
		config.Temperature = 0.2
	}
	if config.Timeout == 0 {
		config.Timeout = 600 * time.Second
	}

	return &Generator{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

// Answer sends the assembled context and the question to the external
// generation service, non-streaming, and returns the trimmed response
// text. The grounding policy is a prompt instruction, not a validated
// invariant.
func (g *Generator) Answer(ctx context.Context, question, contextText string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   g.config.Model,
		System:  systemPrompt,
		Prompt:  fmt.Sprintf("Context:\n%s\n\nQuestion: %s\nAnswer:", contextText, question),
		Stream:  false,
		Options: generateOptions{Temperature: g.config.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: generate endpoint returned %s", ErrServiceUnavailable, resp.Status)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", &ProtocolError{Raw: payload}
	}

	return strings.TrimSpace(out.Response), nil
}
