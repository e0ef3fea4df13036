package index

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/citl/factassist/internal/models"
	"github.com/citl/factassist/pkg/llm"
)

var (
	// ErrNotFound means the requested index artifact does not exist.
	// Remediation is a rebuild, not a repair.
	ErrNotFound = errors.New("index not found")

	// ErrCorrupt means the chunk and embedding artifacts disagree on
	// count. Fatal for that corpus; no auto-repair.
	ErrCorrupt = errors.New("index corrupt")
)

// Combined artifact: {"embeddings": [[...]], "chunks": [{"i":0,"text":...}]}
// in a single document. The split layout stores chunks as JSONL records
// {"id":0,"text":...} next to a JSON embedding matrix.
type combinedChunk struct {
	I    int    `json:"i"`
	Text string `json:"text"`
}

type combinedDoc struct {
	Embeddings [][]float32     `json:"embeddings"`
	Chunks     []combinedChunk `json:"chunks"`
}

// splitPaths derives the split-layout artifact paths from the combined
// path: index/factbook.json -> index/factbook.chunks.jsonl +
// index/factbook.emb.json.
func splitPaths(path string) (chunksPath, embPath string) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + ".chunks.jsonl", base + ".emb.json"
}

// WriteIndex persists chunks and their embedding matrix as one combined
// JSON document. Row i of the matrix belongs to chunk i; the pairing is
// checked before anything touches the disk.
func WriteIndex(path string, chunks []models.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks vs %d embeddings", ErrCorrupt, len(chunks), len(embeddings))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	doc := combinedDoc{
		Embeddings: embeddings,
		Chunks:     make([]combinedChunk, len(chunks)),
	}
	for i, c := range chunks {
		doc.Chunks[i] = combinedChunk{I: c.ID, Text: c.Text}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

// WriteSplitIndex persists the same pairing as two co-located
// artifacts: a JSONL chunk file and a JSON embedding matrix.
func WriteSplitIndex(path string, chunks []models.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks vs %d embeddings", ErrCorrupt, len(chunks), len(embeddings))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	chunksPath, embPath := splitPaths(path)

	var sb strings.Builder
	for _, c := range chunks {
		line, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding chunk %d: %w", c.ID, err)
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(chunksPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing chunks: %w", err)
	}

	data, err := json.Marshal(embeddings)
	if err != nil {
		return fmt.Errorf("encoding embeddings: %w", err)
	}
	if err := os.WriteFile(embPath, data, 0644); err != nil {
		return fmt.Errorf("writing embeddings: %w", err)
	}
	return nil
}

// ReadIndex loads the embedding matrix and chunk list for path,
// accepting either artifact layout (combined preferred when both
// exist). The matrix is re-normalized on the way in so index files from
// older builds search the same as fresh ones. A count mismatch between
// the two artifacts fails fast with ErrCorrupt.
func ReadIndex(path string) ([][]float32, []models.Chunk, error) {
	if data, err := os.ReadFile(path); err == nil {
		return readCombined(path, data)
	}

	chunksPath, embPath := splitPaths(path)
	if _, err := os.Stat(chunksPath); err != nil {
		return nil, nil, fmt.Errorf("%w: %s (run buildindex to create it)", ErrNotFound, path)
	}
	if _, err := os.Stat(embPath); err != nil {
		return nil, nil, fmt.Errorf("%w: %s (run buildindex to create it)", ErrNotFound, embPath)
	}
	return readSplit(chunksPath, embPath)
}

func readCombined(path string, data []byte) ([][]float32, []models.Chunk, error) {
	var doc combinedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if len(doc.Chunks) != len(doc.Embeddings) {
		return nil, nil, fmt.Errorf("%w: %s has %d chunks but %d embeddings",
			ErrCorrupt, path, len(doc.Chunks), len(doc.Embeddings))
	}

	chunks := make([]models.Chunk, len(doc.Chunks))
	for i, c := range doc.Chunks {
		chunks[i] = models.Chunk{ID: c.I, Text: c.Text}
	}

	return llm.NormalizeMatrix(doc.Embeddings), chunks, nil
}

func readSplit(chunksPath, embPath string) ([][]float32, []models.Chunk, error) {
	f, err := os.Open(chunksPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", chunksPath, err)
	}
	defer f.Close()

	var chunks []models.Chunk
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var c models.Chunk
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			continue
		}
		chunks = append(chunks, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", chunksPath, err)
	}

	data, err := os.ReadFile(embPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", embPath, err)
	}
	var embeddings [][]float32
	if err := json.Unmarshal(data, &embeddings); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", embPath, err)
	}

	if len(chunks) != len(embeddings) {
		return nil, nil, fmt.Errorf("%w: %s has %d chunks but %s has %d embeddings",
			ErrCorrupt, chunksPath, len(chunks), embPath, len(embeddings))
	}

	return llm.NormalizeMatrix(embeddings), chunks, nil
}
