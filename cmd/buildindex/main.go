package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/citl/factassist/internal/models"
	"github.com/citl/factassist/pkg/chunker"
	cfgPkg "github.com/citl/factassist/pkg/config"
	"github.com/citl/factassist/pkg/index"
	"github.com/citl/factassist/pkg/llm"
)

type buildOptions struct {
	ConfigPath string
	Corpus     string
	Src        string
	Out        string
	Size       int
	Overlap    int
	Fixed      bool
	Split      bool
	RateLimit  float64
}

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	opts := parseFlags()

	if err := run(opts, logger); err != nil {
		logger.Fatal().Err(err).Msg("index build failed")
	}
}

func parseFlags() buildOptions {
	var opts buildOptions

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&opts.Corpus, "corpus", "", "Registered corpus name to build (source and index paths come from config)")
	flag.StringVar(&opts.Src, "src", "", "Source corpus text file")
	flag.StringVar(&opts.Out, "out", "", "Output index path")
	flag.IntVar(&opts.Size, "size", 0, "Chunk size in characters")
	flag.IntVar(&opts.Overlap, "overlap", -1, "Chunk overlap in characters (paragraph mode)")
	flag.BoolVar(&opts.Fixed, "fixed", false, "Fixed-width chunking instead of paragraph-aware")
	flag.BoolVar(&opts.Split, "split", false, "Write split artifacts (chunks.jsonl + emb.json) instead of one combined file")
	flag.Float64Var(&opts.RateLimit, "rate-limit", 0, "Max embedding calls per second (0 = unlimited)")
	flag.Parse()

	return opts
}

func run(opts buildOptions, logger zerolog.Logger) error {
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

	src, out := opts.Src, opts.Out
	if opts.Corpus != "" {
		corpus, ok := config.CorpusByName(opts.Corpus)
		if !ok {
			return fmt.Errorf("unknown corpus %q (registered: %v)", opts.Corpus, config.CorpusNames())
		}
		if src == "" {
			src = corpus.Source
		}
		if out == "" {
			out = corpus.Index
		}
	}
	if src == "" || out == "" {
		return fmt.Errorf("a source and output path are required: pass -src and -out, or -corpus with both configured")
	}

	size := opts.Size
	if size == 0 {
		size = config.Chunker.MaxChars
	}
	overlap := opts.Overlap
	if overlap < 0 {
		overlap = config.Chunker.Overlap
	}

	raw, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("source file not found: %s", src)
	}

	var texts []string
	if opts.Fixed {
		texts = chunker.FixedWidth(string(raw), size)
	} else {
		c := chunker.NewWithConfig(chunker.Config{MaxChars: size, Overlap: overlap})
		texts = c.Split(string(raw))
	}

	logger.Info().Str("src", src).Int("chunks", len(texts)).Msg("chunked corpus")
	color.Blue("\nEmbedding %d chunks from %s\n", len(texts), src)

	embedder := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		BaseURL: config.LLM.BaseURL,
		Model:   config.LLM.EmbedModel,
		Timeout: time.Duration(config.LLM.EmbedTimeoutSecs) * time.Second,
	})

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	bar := getProgressBar(len(texts), "Embedding chunks...")

	ctx := context.Background()
	chunks := make([]models.Chunk, 0, len(texts))
	embeddings := make([][]float32, 0, len(texts))

	// Strictly sequential, one call per chunk. Any failure aborts the
	// whole run; a rebuild starts from scratch.
	for i, text := range texts {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embedding chunk %d/%d: %w", i+1, len(texts), err)
		}

		chunks = append(chunks, models.Chunk{ID: i, Text: text})
		embeddings = append(embeddings, vec)
		bar.Add(1)
	}
	bar.Finish()

	if opts.Split {
		err = index.WriteSplitIndex(out, chunks, embeddings)
	} else {
		err = index.WriteIndex(out, chunks, embeddings)
	}
	if err != nil {
		return err
	}

	color.Green("\n✓ Wrote index for %d chunks to %s\n", len(chunks), out)
	return nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
