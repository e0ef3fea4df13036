package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.EmbedTimeoutSecs < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.embed_timeout_secs",
			Message: "embed_timeout_secs must be positive",
		})
	}

	if c.LLM.GenTimeoutSecs < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.gen_timeout_secs",
			Message: "gen_timeout_secs must be positive",
		})
	}

	// Validate Chunker config
	if c.Chunker.MaxChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "chunker.max_chars",
			Message: "max_chars must be positive",
		})
	}

	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.MaxChars {
		errors = append(errors, ValidationError{
			Field:   "chunker.overlap",
			Message: "overlap must be non-negative and less than max_chars",
		})
	}

	// Validate Retrieval config
	if c.Retrieval.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.Retrieval.MaxContext < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.max_context",
			Message: "max_context must be positive",
		})
	}

	if c.Retrieval.MaxRegexHits < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.max_regex_hits",
			Message: "max_regex_hits must be positive",
		})
	}

	// Validate corpus registry
	seen := make(map[string]bool)
	for i, corpus := range c.Corpora {
		if corpus.Name == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("corpora[%d].name", i),
				Message: "corpus name is required",
			})
			continue
		}
		if seen[corpus.Name] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("corpora[%d].name", i),
				Message: fmt.Sprintf("duplicate corpus name: %s", corpus.Name),
			})
		}
		seen[corpus.Name] = true

		if corpus.Index == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("corpora[%d].index", i),
				Message: "index path is required",
			})
		}
	}

	if len(c.Corpora) == 0 {
		errors = append(errors, ValidationError{
			Field:   "corpora",
			Message: "at least one corpus must be configured",
		})
	}

	return errors
}
