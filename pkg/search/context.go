package search

import (
	"errors"
	"strings"

	"github.com/citl/factassist/internal/models"
)

// ErrNoContext means retrieval produced nothing usable. Callers treat
// this as an empty result, never as a context to send to generation.
var ErrNoContext = errors.New("no relevant context found")

const snippetSeparator = "\n---\n"

// Assemble merges per-corpus snippet groups into one context string
// bounded by maxChars. Groups with no snippets are dropped; when more
// than one group survives, each is prefixed with a source header so the
// model can attribute facts. Truncation is a hard cut at the budget,
// mid-snippet if need be.
func Assemble(groups []models.CorpusHits, maxChars int) (string, error) {
	var nonEmpty []models.CorpusHits
	for _, g := range groups {
		if len(g.Texts) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	if len(nonEmpty) == 0 {
		return "", ErrNoContext
	}

	var ctx string
	if len(nonEmpty) == 1 {
		ctx = strings.Join(nonEmpty[0].Texts, snippetSeparator)
	} else {
		parts := make([]string, len(nonEmpty))
		for i, g := range nonEmpty {
			parts[i] = "Source: " + strings.ToUpper(g.Corpus) + snippetSeparator +
				strings.Join(g.Texts, snippetSeparator)
		}
		ctx = strings.Join(parts, "\n\n")
	}

	if maxChars > 0 && len(ctx) > maxChars {
		ctx = ctx[:maxChars]
	}

	return ctx, nil
}
