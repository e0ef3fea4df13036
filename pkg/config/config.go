package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Corpus names a corpus and its artifact locations. Registry order is
// significant: multi-corpus queries walk corpora in the order they are
// listed here.
type Corpus struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"` // raw corpus text (regex/shortcut paths)
	Index  string `yaml:"index"`  // persisted index artifact
}

type Config struct {
	LLM struct {
		BaseURL          string  `yaml:"base_url"`
		Model            string  `yaml:"model"`
		EmbedModel       string  `yaml:"embed_model"`
		Temperature      float64 `yaml:"temperature"`
		EmbedTimeoutSecs int     `yaml:"embed_timeout_secs"`
		GenTimeoutSecs   int     `yaml:"gen_timeout_secs"`
	} `yaml:"llm"`

	Chunker struct {
		MaxChars int `yaml:"max_chars"`
		Overlap  int `yaml:"overlap"`
	} `yaml:"chunker"`

	Retrieval struct {
		TopK         int `yaml:"top_k"`
		MaxContext   int `yaml:"max_context"`
		MaxRegexHits int `yaml:"max_regex_hits"`
	} `yaml:"retrieval"`

	Corpora []Corpus `yaml:"corpora"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/factassist/config.yaml"),
			"/etc/factassist/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://127.0.0.1:11434"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "mistral:7b-instruct"
	}
	if config.LLM.EmbedModel == "" {
		config.LLM.EmbedModel = "nomic-embed-text"
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.2
	}
	if config.LLM.EmbedTimeoutSecs == 0 {
		config.LLM.EmbedTimeoutSecs = 120
	}
	if config.LLM.GenTimeoutSecs == 0 {
		config.LLM.GenTimeoutSecs = 600
	}

	if config.Chunker.MaxChars == 0 {
		config.Chunker.MaxChars = 1200
	}
	if config.Chunker.Overlap == 0 {
		config.Chunker.Overlap = 200
	}

	if config.Retrieval.TopK == 0 {
		config.Retrieval.TopK = 5
	}
	if config.Retrieval.MaxContext == 0 {
		config.Retrieval.MaxContext = 4000
	}
	if config.Retrieval.MaxRegexHits == 0 {
		config.Retrieval.MaxRegexHits = 8
	}

	if len(config.Corpora) == 0 {
		config.Corpora = []Corpus{
			{Name: "factbook", Source: "factbook.txt", Index: "index/factbook.json"},
			{Name: "law", Index: "index/law.json"},
			{Name: "nursing", Index: "index/nursing.json"},
			{Name: "dictionary", Index: "index/dictionary.json"},
		}
	}
}

func mergeWithEnv(config *Config) {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		config.LLM.BaseURL = host
	}
	if model := os.Getenv("FACTBOOK_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if embed := os.Getenv("FACTBOOK_EMBED"); embed != "" {
		config.LLM.EmbedModel = embed
	}
}

// CorpusByName returns the registry entry for name, or false when the
// corpus is not configured.
func (c *Config) CorpusByName(name string) (Corpus, bool) {
	for _, corpus := range c.Corpora {
		if corpus.Name == name {
			return corpus, true
		}
	}
	return Corpus{}, false
}

// CorpusNames returns the configured corpus names in registry order.
func (c *Config) CorpusNames() []string {
	names := make([]string, 0, len(c.Corpora))
	for _, corpus := range c.Corpora {
		names = append(names, corpus.Name)
	}
	return names
}
