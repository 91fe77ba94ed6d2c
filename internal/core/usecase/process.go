package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

// ProcessDocumentUseCase is the asynchronous pipeline behind an uploaded
// document: extract text, persist it for the direct-text fallback, replace
// any previous index records, index, and record the written ids as the
// document's indexed-state marker.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.TextExtractor
	indexer   ports.DocumentIndexer
	index     ports.VectorIndex
	logger    *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	indexer ports.DocumentIndexer,
	index ports.VectorIndex,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:      repo,
		extractor: extractor,
		indexer:   indexer,
		index:     index,
		logger:    logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	recordIDs, err := uc.pipeline(ctx, documentID)
	if err != nil {
		// The document must not look indexed when it is not: surface the
		// failure on the document record, then propagate.
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveRecordIDs(ctx, documentID, recordIDs); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("save record ids: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save record ids: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusIndexed, ""); err != nil {
		return fmt.Errorf("set status=indexed: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) pipeline(ctx context.Context, documentID string) ([]string, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "extract text", errors.New("empty extracted text"))
	}

	if err := uc.repo.SaveExtractedText(ctx, documentID, text); err != nil {
		return nil, fmt.Errorf("save extracted text: %w", err)
	}

	// Delete-then-reinsert: a re-indexed document that shrank must not leave
	// stale trailing records behind.
	if err := uc.dropPreviousRecords(ctx, documentID); err != nil {
		return nil, err
	}

	recordIDs, err := uc.indexer.IndexDocument(ctx, documentID, text)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("document indexed",
		"document_id", documentID,
		"records", len(recordIDs),
	)
	return recordIDs, nil
}

func (uc *ProcessDocumentUseCase) dropPreviousRecords(ctx context.Context, documentID string) error {
	previous, err := uc.repo.GetRecordIDs(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load previous record ids: %w", err)
	}
	if len(previous) == 0 {
		return nil
	}
	if err := uc.index.Delete(ctx, previous); err != nil {
		return domain.WrapError(domain.ErrIndexing, "delete previous records", err)
	}
	uc.logger.Debug("dropped previous index records", "document_id", documentID, "count", len(previous))
	return nil
}
