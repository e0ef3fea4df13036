package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/citl/factassist/internal/models"
	cfgPkg "github.com/citl/factassist/pkg/config"
	"github.com/citl/factassist/pkg/index"
	"github.com/citl/factassist/pkg/llm"
	"github.com/citl/factassist/pkg/search"
)

type queryOptions struct {
	ConfigPath string
	Source     string
	TopK       int
	MaxCtx     int
	RegexMode  bool
	Question   string
}

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	opts := parseFlags()

	if err := run(opts, logger); err != nil {
		logger.Fatal().Err(err).Msg("query failed")
	}
}

func parseFlags() queryOptions {
	var opts queryOptions

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&opts.Source, "source", "factbook", "Corpus to query, or 'all' to combine")
	flag.IntVar(&opts.TopK, "k", 0, "Number of chunks/snippets to retrieve per corpus")
	flag.IntVar(&opts.MaxCtx, "maxctx", 0, "Max characters of context to send to the LLM")
	flag.BoolVar(&opts.RegexMode, "regex", false, "Treat the query as a raw regex over the corpus source text")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: query [options] <question>\n\n")
		fmt.Fprintf(os.Stderr, "Questions can also be shortcuts like 'capital:laos'.\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	opts.Question = strings.Join(flag.Args(), " ")

	return opts
}

func run(opts queryOptions, logger zerolog.Logger) error {
	config, err := cfgPkg.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if errs := config.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logger.Error().Msg(e.Error())
		}
		return fmt.Errorf("invalid configuration (%d errors)", len(errs))
	}

	if opts.TopK == 0 {
		opts.TopK = config.Retrieval.TopK
	}
	if opts.MaxCtx == 0 {
		opts.MaxCtx = config.Retrieval.MaxContext
	}

	registry := index.NewRegistry(config.Corpora)
	corpora, err := registry.Resolve(opts.Source)
	if err != nil {
		return err
	}

	generator := llm.NewGeneratorWithConfig(llm.GeneratorConfig{
		BaseURL:     config.LLM.BaseURL,
		Model:       config.LLM.Model,
		Temperature: config.LLM.Temperature,
		Timeout:     time.Duration(config.LLM.GenTimeoutSecs) * time.Second,
	})

	ctx := context.Background()

	// 1) Raw regex mode searches the unmodified source text directly.
	if opts.RegexMode {
		groups, err := searchSources(corpora, opts.Question, config.Retrieval.MaxRegexHits, logger, true)
		if err != nil {
			return err
		}
		return answer(ctx, generator, opts.Question, groups, opts.MaxCtx)
	}

	// 2) Shortcut mode (capital:laos etc.) bypasses semantic retrieval.
	if pattern, ok := search.Resolve(opts.Question); ok {
		groups, err := searchSources(corpora, pattern, config.Retrieval.MaxRegexHits, logger, false)
		if err != nil {
			return err
		}
		if len(groups) > 0 {
			return answer(ctx, generator, opts.Question, groups, opts.MaxCtx)
		}
		// No extraction hits: fall through to semantic retrieval.
	}

	// 3) Semantic retrieval over the prebuilt indexes.
	embedder := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		BaseURL: config.LLM.BaseURL,
		Model:   config.LLM.EmbedModel,
		Timeout: time.Duration(config.LLM.EmbedTimeoutSecs) * time.Second,
	})

	qvec, err := embedder.Embed(ctx, opts.Question)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	// A missing index is fatal when one corpus was requested by name;
	// across "all" a failing corpus is skipped and the query proceeds.
	var groups []models.CorpusHits
	if opts.Source == "all" {
		groups = search.RetrieveAll(corpora, qvec, opts.TopK, logger)
	} else {
		embeddings, chunks, err := index.ReadIndex(corpora[0].Index)
		if err != nil {
			return err
		}
		if hits := search.TopK(embeddings, chunks, qvec, opts.TopK); len(hits) > 0 {
			groups = append(groups, models.CorpusHits{Corpus: corpora[0].Name, Texts: hits})
		}
	}
	return answer(ctx, generator, opts.Question, groups, opts.MaxCtx)
}

// searchSources runs pattern over the source text of every corpus that
// has one. Missing source files are fatal in regex mode, where the user
// asked for that file explicitly, and skipped in shortcut mode.
func searchSources(corpora []cfgPkg.Corpus, pattern string, maxHits int, logger zerolog.Logger, strict bool) ([]models.CorpusHits, error) {
	var groups []models.CorpusHits

	for _, corpus := range corpora {
		if corpus.Source == "" {
			continue
		}

		raw, err := os.ReadFile(corpus.Source)
		if err != nil {
			if strict {
				return nil, fmt.Errorf("source file not found for corpus %q: %s", corpus.Name, corpus.Source)
			}
			logger.Warn().Str("corpus", corpus.Name).Str("source", corpus.Source).Msg("source text unavailable, skipping corpus")
			continue
		}

		hits, err := search.SearchText(string(raw), pattern, maxHits)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			continue
		}
		groups = append(groups, models.CorpusHits{Corpus: corpus.Name, Texts: hits})
	}

	return groups, nil
}

func answer(ctx context.Context, generator *llm.Generator, question string, groups []models.CorpusHits, maxCtx int) error {
	assembled, err := search.Assemble(groups, maxCtx)
	if errors.Is(err, search.ErrNoContext) {
		// An empty result is not an error.
		fmt.Println("I could not find any relevant context in the selected corpus/corpora.")
		return nil
	}
	if err != nil {
		return err
	}

	response, err := generator.Answer(ctx, question, assembled)
	if err != nil {
		return err
	}

	color.Cyan("%s\n", response)
	return nil
}
