package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmbedderConfig represents the configuration for an embedding client.
type EmbedderConfig struct {
	BaseURL string // Ollama server URL
	Model   string
	Timeout time.Duration
}

// Embedder is a client for the Ollama embeddings endpoint.
type Embedder struct {
	config EmbedderConfig
	client *http.Client
}

func NewEmbedderWithConfig(config EmbedderConfig) *Embedder {
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:11434"
	}
	if config.Model == "" {
		config.Model = "nomic-embed-text"
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	return &Embedder{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// Embed requests one embedding for text and returns it L2-normalized.
// One blocking call per invocation; a transport failure or non-success
// status surfaces as ErrServiceUnavailable, a response with no locatable
// vector as ProtocolError.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.config.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("encoding embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.config.BaseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: embeddings endpoint returned %s", ErrServiceUnavailable, resp.Status)
	}

	vec, err := parseEmbedding(payload)
	if err != nil {
		return nil, err
	}

	return Normalize(vec), nil
}

// parseEmbedding locates the vector in an embeddings response. Ollama
// has shipped several shapes over time, so each known one is attempted
// in priority order:
//
//	{"embedding": [...]}
//	{"embeddings": [[...]]} or {"embeddings": [{"embedding": [...]}]}
//	[<either of the above>] or [[...]]
func parseEmbedding(payload []byte) ([]float32, error) {
	var single struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &single); err == nil && len(single.Embedding) > 0 {
		return single.Embedding, nil
	}

	var multi struct {
		Embeddings []json.RawMessage `json:"embeddings"`
	}
	if err := json.Unmarshal(payload, &multi); err == nil && len(multi.Embeddings) > 0 {
		if vec, err := parseEmbedding(multi.Embeddings[0]); err == nil {
			return vec, nil
		}
		var raw []float32
		if err := json.Unmarshal(multi.Embeddings[0], &raw); err == nil && len(raw) > 0 {
			return raw, nil
		}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(payload, &list); err == nil && len(list) > 0 {
		var raw []float32
		if err := json.Unmarshal(list[0], &raw); err == nil && len(raw) > 0 {
			return raw, nil
		}
		if vec, err := parseEmbedding(list[0]); err == nil {
			return vec, nil
		}
	}

	return nil, &ProtocolError{Raw: payload}
}
