package models

// Chunk is one passage of a corpus. IDs are assigned in insertion
// order at build time and are stable within a corpus; a chunk never
// moves between corpora.
type Chunk struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// CorpusHits holds the retrieved chunk texts for one corpus, in
// descending similarity order. Scores are only comparable within a
// single corpus, so they are not carried across this boundary.
type CorpusHits struct {
	Corpus string
	Texts  []string
}
