package domain

import "fmt"

// Chunk is a contiguous slice of a document's extracted text, the unit of
// embedding and retrieval. Offsets are rune positions within the trimmed
// source text.
type Chunk struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	CharStart  int    `json:"char_start"`
	CharLength int    `json:"char_length"`
}

// RecordID derives the vector index record id for a chunk. The pattern is
// relied upon by re-indexing and debug tooling and must stay stable.
func RecordID(documentID string, chunkIndex int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, chunkIndex)
}

// IndexRecord is the persisted unit in the vector index.
type IndexRecord struct {
	ID       string
	Vector   []float32
	Metadata RecordMetadata
}

// RecordMetadata duplicates the chunk text so retrieval can return readable
// content without a second storage round trip.
type RecordMetadata struct {
	DocumentID string
	ChunkIndex int
	Text       string
}

// IndexStats reports the state of the vector index.
type IndexStats struct {
	RecordCount int64
	Dimension   int
}
