package domain

// RetrievalMethod marks how an answer's context was obtained.
type RetrievalMethod string

const (
	MethodVector RetrievalMethod = "vector"
	MethodDirect RetrievalMethod = "direct"
	MethodNone   RetrievalMethod = "none"
)

// AnswerNoInformation is the user-facing text returned when neither vector
// retrieval nor the direct-text fallback produced any context.
const AnswerNoInformation = "no information found"

type RetrievalResult struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// Source is the citation entry shown alongside an answer. Preview is a
// bounded prefix of the chunk text, presentation data only.
type Source struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Preview    string  `json:"preview"`
	Score      float64 `json:"score"`
}

type Answer struct {
	Text     string          `json:"text"`
	Sources  []Source        `json:"sources"`
	Method   RetrievalMethod `json:"method"`
	Degraded bool            `json:"degraded,omitempty"`
}
