package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

// DeleteDocumentUseCase removes a document's vector index records and its
// stored metadata. Vector deletion is idempotent, so a retry after a partial
// failure is safe.
type DeleteDocumentUseCase struct {
	repo   ports.DocumentRepository
	index  ports.VectorIndex
	logger *slog.Logger
}

func NewDeleteDocumentUseCase(repo ports.DocumentRepository, index ports.VectorIndex, logger *slog.Logger) *DeleteDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteDocumentUseCase{repo: repo, index: index, logger: logger}
}

func (uc *DeleteDocumentUseCase) Delete(ctx context.Context, documentID string) error {
	recordIDs, err := uc.repo.GetRecordIDs(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load record ids: %w", err)
	}

	if len(recordIDs) > 0 {
		if err := uc.index.Delete(ctx, recordIDs); err != nil {
			return domain.WrapError(domain.ErrIndexing, "delete index records", err)
		}
	}

	if err := uc.repo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}

	uc.logger.Info("document deleted", "document_id", documentID, "records", len(recordIDs))
	return nil
}
