package index_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citl/factassist/internal/models"
	"github.com/citl/factassist/pkg/config"
	"github.com/citl/factassist/pkg/index"
)

var testChunks = []models.Chunk{
	{ID: 0, Text: "Laos\nCapital: Vientiane"},
	{ID: 1, Text: "Japan\nCapital: Tokyo"},
}

var testEmbeddings = [][]float32{
	{0.6, 0.8},
	{0.8, 0.6},
}

func TestWriteReadCombined(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "factbook.json")

	require.NoError(t, index.WriteIndex(path, testChunks, testEmbeddings))

	embeddings, chunks, err := index.ReadIndex(path)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	require.Len(t, embeddings, 2)
	assert.Equal(t, testChunks, chunks)
	assert.InDelta(t, 0.6, embeddings[0][0], 1e-6)
}

func TestWriteReadSplit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "law.json")

	require.NoError(t, index.WriteSplitIndex(path, testChunks, testEmbeddings))

	embeddings, chunks, err := index.ReadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, testChunks, chunks)
	assert.Len(t, embeddings, 2)
}

func TestReadIndex_Renormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factbook.json")

	// An older build could have written unnormalized rows.
	require.NoError(t, index.WriteIndex(path, testChunks[:1], [][]float32{{3, 4}}))

	embeddings, _, err := index.ReadIndex(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, embeddings[0][0], 1e-6)
	assert.InDelta(t, 0.8, embeddings[0][1], 1e-6)
}

func TestReadIndex_NotFound(t *testing.T) {
	_, _, err := index.ReadIndex(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestReadIndex_SplitMissingHalf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nursing.json")
	require.NoError(t, index.WriteSplitIndex(path, testChunks, testEmbeddings))

	// Drop the embedding artifact: the pair is unusable.
	require.NoError(t, os.Remove(filepath.Join(dir, "nursing.emb.json")))

	_, _, err := index.ReadIndex(path)
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestReadIndex_CountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factbook.json")

	corrupt := `{"embeddings": [[0.6, 0.8]], "chunks": [{"i":0,"text":"a"},{"i":1,"text":"b"}]}`
	require.NoError(t, os.WriteFile(path, []byte(corrupt), 0644))

	_, _, err := index.ReadIndex(path)
	assert.ErrorIs(t, err, index.ErrCorrupt)
}

func TestWriteIndex_CountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factbook.json")
	err := index.WriteIndex(path, testChunks, testEmbeddings[:1])
	assert.ErrorIs(t, err, index.ErrCorrupt)
}

func TestWriteReadEmptyCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	require.NoError(t, index.WriteIndex(path, nil, nil))

	embeddings, chunks, err := index.ReadIndex(path)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
	assert.Empty(t, chunks)
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	factbookPath := filepath.Join(dir, "factbook.json")
	require.NoError(t, index.WriteIndex(factbookPath, testChunks, testEmbeddings))

	reg := index.NewRegistry([]config.Corpus{
		{Name: "factbook", Index: factbookPath},
		{Name: "law", Index: filepath.Join(dir, "law.json")},
	})

	assert.Equal(t, []string{"factbook", "law"}, reg.Names())

	_, chunks, err := reg.Load("factbook")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)

	// The law index was never built.
	_, _, err = reg.Load("law")
	assert.ErrorIs(t, err, index.ErrNotFound)

	// Selector expansion.
	all, err := reg.Resolve("all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := reg.Resolve("factbook")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "factbook", one[0].Name)

	_, err = reg.Resolve("weather")
	assert.Error(t, err)
}
