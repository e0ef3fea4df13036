package search

import (
	"github.com/rs/zerolog"

	"github.com/citl/factassist/internal/models"
	"github.com/citl/factassist/pkg/config"
	"github.com/citl/factassist/pkg/index"
)

// RetrieveAll runs top-k retrieval against each corpus in order.
// Scores never cross corpus boundaries; each hit list is ranked only
// within its own embedding space. A corpus whose index fails to load is
// logged and skipped so the rest of the query can still proceed.
func RetrieveAll(corpora []config.Corpus, query []float32, k int, logger zerolog.Logger) []models.CorpusHits {
	var out []models.CorpusHits

	for _, c := range corpora {
		embeddings, chunks, err := index.ReadIndex(c.Index)
		if err != nil {
			logger.Warn().Err(err).Str("corpus", c.Name).Msg("skipping corpus")
			continue
		}
		logger.Info().Str("corpus", c.Name).Int("chunks", len(chunks)).Msg("loaded corpus index")

		hits := TopK(embeddings, chunks, query, k)
		if len(hits) == 0 {
			continue
		}
		out = append(out, models.CorpusHits{Corpus: c.Name, Texts: hits})
	}

	return out
}
