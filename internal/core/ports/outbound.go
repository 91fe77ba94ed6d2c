package ports

import (
	"context"
	"io"

	"github.com/dkotenko/docqa/internal/core/domain"
)

// DocumentRepository persists document state and extracted text. The
// extracted text doubles as the DocumentStore for the direct-text fallback.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtractedText(ctx context.Context, id, text string) error
	GetText(ctx context.Context, id string) (string, error)
	SaveRecordIDs(ctx context.Context, id string, recordIDs []string) error
	GetRecordIDs(ctx context.Context, id string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits text into bounded, overlapping chunks.
type Chunker interface {
	Split(text string) ([]domain.Chunk, error)
}

// EmbeddingProvider converts text to fixed-dimension vectors.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores (id, vector, metadata) records and returns nearest
// neighbours in descending score order. Upsert and Delete are idempotent.
type VectorIndex interface {
	Upsert(ctx context.Context, records []domain.IndexRecord) error
	Query(ctx context.Context, vector []float32, topK int, documentID string) ([]domain.RetrievalResult, error)
	Delete(ctx context.Context, ids []string) error
	Stats(ctx context.Context) (domain.IndexStats, error)
}

// AnswerGenerator creates the final user-facing answer text. Calls must be
// bounded by the caller-supplied context deadline.
type AnswerGenerator interface {
	Generate(ctx context.Context, systemInstruction, userPrompt string, opts domain.GenerationOptions) (string, error)
}
