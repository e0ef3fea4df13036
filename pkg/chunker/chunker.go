package chunker

import (
	"strings"
)

type Config struct {
	MaxChars int
	Overlap  int
}

// Chunker splits corpus text into bounded passages for embedding.
type Chunker struct {
	config Config
}

func NewWithConfig(config Config) Chunker {
	if config.MaxChars == 0 {
		config.MaxChars = 1200
	}
	if config.Overlap < 0 {
		config.Overlap = 200
	}

	return Chunker{
		config: config,
	}
}

// Split breaks text into paragraph-aware chunks. Paragraphs are
// accumulated until the next one would push past MaxChars; each new
// chunk is seeded with the last Overlap characters of the previous one
// so context survives the boundary. A seed followed by a single large
// paragraph can push a chunk slightly past MaxChars.
func (c *Chunker) Split(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	current := ""

	for _, p := range paragraphs {
		if current == "" {
			current = p
			continue
		}

		// If we can append this paragraph without exceeding MaxChars
		if len(current)+2+len(p) <= c.config.MaxChars {
			current += "\n\n" + p
		} else {
			chunks = append(chunks, current)
			// start new chunk with an overlap from the end of the previous
			tail := current
			if len(tail) > c.config.Overlap {
				tail = tail[len(tail)-c.config.Overlap:]
			}
			if tail == "" {
				current = p
			} else {
				current = tail + "\n\n" + p
			}
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// FixedWidth slices text into consecutive width-sized chunks with no
// overlap and no gaps; only the final chunk may be shorter. Used for
// corpora without paragraph structure.
func FixedWidth(text string, width int) []string {
	if width < 1 || text == "" {
		return nil
	}

	var chunks []string
	for i := 0; i < len(text); i += width {
		end := i + width
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}

	return chunks
}
