package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citl/factassist/pkg/chunker"
)

func TestSplit(t *testing.T) {
	c := chunker.NewWithConfig(chunker.Config{
		MaxChars: 60,
		Overlap:  10,
	})

	paragraphs := []string{
		strings.Repeat("a", 30),
		strings.Repeat("b", 30),
		strings.Repeat("c", 30),
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := c.Split(text)

	require.Len(t, chunks, 3)

	// No two 30-char paragraphs fit under 60 together, so each chunk
	// carries one paragraph plus the overlap seed of its predecessor.
	assert.Equal(t, paragraphs[0], chunks[0])
	assert.Equal(t, strings.Repeat("a", 10)+"\n\n"+paragraphs[1], chunks[1])
	assert.Equal(t, strings.Repeat("b", 10)+"\n\n"+paragraphs[2], chunks[2])
}

func TestSplit_Coverage(t *testing.T) {
	c := chunker.NewWithConfig(chunker.Config{
		MaxChars: 50,
		Overlap:  8,
	})

	paragraphs := []string{
		"alpha one two three",
		"bravo four five six",
		"charlie seven eight",
		"delta nine ten",
		"echo eleven twelve",
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	// Every paragraph must land in some chunk, in order.
	joined := strings.Join(chunks, "\n\n")
	last := 0
	for _, p := range paragraphs {
		idx := strings.Index(joined[last:], p)
		require.GreaterOrEqual(t, idx, 0, "paragraph %q missing", p)
		last += idx
	}
}

func TestSplit_NoBlankLines(t *testing.T) {
	c := chunker.NewWithConfig(chunker.Config{
		MaxChars: 40,
		Overlap:  10,
	})

	// No paragraph breaks: a single oversized chunk is accepted.
	text := strings.Repeat("x", 200)
	chunks := c.Split(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_Empty(t *testing.T) {
	c := chunker.NewWithConfig(chunker.Config{MaxChars: 40, Overlap: 10})

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("\n\n\n\n"))
}

func TestFixedWidth(t *testing.T) {
	text := strings.Repeat("abcde", 7) // 35 chars
	chunks := chunker.FixedWidth(text, 10)

	require.Len(t, chunks, 4)

	// All but the last chunk are exactly width-sized.
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.Len(t, chunk, 10)
	}
	assert.Len(t, chunks[3], 5)

	// Concatenation reproduces the input exactly.
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestFixedWidth_ExactMultiple(t *testing.T) {
	text := strings.Repeat("z", 30)
	chunks := chunker.FixedWidth(text, 10)

	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.Len(t, chunk, 10)
	}
}

func TestFixedWidth_Degenerate(t *testing.T) {
	assert.Empty(t, chunker.FixedWidth("", 10))
	assert.Empty(t, chunker.FixedWidth("abc", 0))
	assert.Equal(t, []string{"abc"}, chunker.FixedWidth("abc", 100))
}
