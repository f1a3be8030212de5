package retrieval

import "context"

// Passage is one ranked policy text chunk returned by a search.
type Passage struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// PassageSearcher turns a text query into ranked policy passages. The policy
// retriever treats a nil searcher, an error, and an empty result list as the
// same condition: fall back to the built-in policy document.
type PassageSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}

// Embedder converts text into a vector for similarity search.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, text string) ([]float32, error)
}
