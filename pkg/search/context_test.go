package search_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citl/factassist/internal/models"
	"github.com/citl/factassist/pkg/search"
)

func TestAssemble_SingleGroup(t *testing.T) {
	groups := []models.CorpusHits{
		{Corpus: "factbook", Texts: []string{"first", "second"}},
	}

	ctx, err := search.Assemble(groups, 4000)
	require.NoError(t, err)

	assert.Equal(t, "first\n---\nsecond", ctx)
	// No source header when only one corpus contributed.
	assert.NotContains(t, ctx, "Source:")
}

func TestAssemble_MultipleGroups(t *testing.T) {
	groups := []models.CorpusHits{
		{Corpus: "factbook", Texts: []string{"laos facts"}},
		{Corpus: "law", Texts: []string{"statute text"}},
	}

	ctx, err := search.Assemble(groups, 4000)
	require.NoError(t, err)

	assert.Contains(t, ctx, "Source: FACTBOOK")
	assert.Contains(t, ctx, "Source: LAW")
	assert.Contains(t, ctx, "laos facts")
	assert.Contains(t, ctx, "statute text")

	// Groups are blank-line separated, factbook first.
	assert.Less(t, strings.Index(ctx, "FACTBOOK"), strings.Index(ctx, "LAW"))
	assert.Contains(t, ctx, "\n\n")
}

func TestAssemble_EmptyGroupsDropped(t *testing.T) {
	groups := []models.CorpusHits{
		{Corpus: "factbook", Texts: []string{"laos facts"}},
		{Corpus: "law"},
	}

	ctx, err := search.Assemble(groups, 4000)
	require.NoError(t, err)

	// Only one group survives, so no headers.
	assert.Equal(t, "laos facts", ctx)
}

func TestAssemble_Truncation(t *testing.T) {
	groups := []models.CorpusHits{
		{Corpus: "factbook", Texts: []string{strings.Repeat("a", 300), strings.Repeat("b", 300)}},
	}

	ctx, err := search.Assemble(groups, 100)
	require.NoError(t, err)

	// Hard cut at exactly the budget, a prefix of the full context.
	assert.Len(t, ctx, 100)
	assert.Equal(t, strings.Repeat("a", 100), ctx)
}

func TestAssemble_NoContext(t *testing.T) {
	_, err := search.Assemble(nil, 4000)
	assert.ErrorIs(t, err, search.ErrNoContext)

	_, err = search.Assemble([]models.CorpusHits{{Corpus: "factbook"}}, 4000)
	assert.ErrorIs(t, err, search.ErrNoContext)
}
