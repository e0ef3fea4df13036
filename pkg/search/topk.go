package search

import (
	"container/heap"
	"sort"

	"github.com/citl/factassist/internal/models"
)

type candidate struct {
	score float32
	idx   int
}

// candidateHeap is a min-heap keeping the current best k candidates;
// the weakest sits on top. Equal scores are ordered by original index
// so selection is deterministic.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].idx > h[j].idx
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// TopK returns the texts of the min(k, N) chunks most similar to query,
// descending by cosine similarity (dot product; both sides are unit
// vectors). Selection keeps a k-sized heap instead of sorting all N
// rows; ties break toward the lower chunk index.
func TopK(embeddings [][]float32, chunks []models.Chunk, query []float32, k int) []string {
	if k <= 0 || len(embeddings) == 0 {
		return nil
	}
	if k > len(embeddings) {
		k = len(embeddings)
	}

	h := make(candidateHeap, 0, k+1)
	heap.Init(&h)
	for i, row := range embeddings {
		heap.Push(&h, candidate{score: dot(row, query), idx: i})
		if len(h) > k {
			heap.Pop(&h)
		}
	}

	selected := []candidate(h)
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].score != selected[j].score {
			return selected[i].score > selected[j].score
		}
		return selected[i].idx < selected[j].idx
	})

	texts := make([]string, len(selected))
	for i, c := range selected {
		texts[i] = chunks[c.idx].Text
	}
	return texts
}
