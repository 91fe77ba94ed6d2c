package ports

import (
	"context"
	"io"

	"github.com/dkotenko/docqa/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentIndexer turns raw document text into vector index records and
// returns the ids actually written.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, documentID, text string) ([]string, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing (extract + index).
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// QueryService answers a question against the indexed corpus, falling back
// to direct document text when vector retrieval is empty or unavailable.
type QueryService interface {
	Answer(ctx context.Context, question, documentID string, settings domain.QuerySettings) (*domain.Answer, error)
	Retrieve(ctx context.Context, question, documentID string, topK int) ([]domain.RetrievalResult, error)
}

// DocumentDeleter removes a document and its vector index records.
type DocumentDeleter interface {
	Delete(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// HealthChecker exercises the embedding provider and the vector index as a
// liveness probe.
type HealthChecker interface {
	Check(ctx context.Context) error
}
