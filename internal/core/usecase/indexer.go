package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

const (
	DefaultUpsertBatchSize = 50
	DefaultSettleDelay     = 1500 * time.Millisecond
)

// IndexDocumentUseCase orchestrates chunking, embedding and batched upsert
// for one document. Chunks are embedded one at a time in index order; the
// first failure aborts the whole document so the caller can retry it whole.
type IndexDocumentUseCase struct {
	chunker   ports.Chunker
	embedder  ports.EmbeddingProvider
	index     ports.VectorIndex
	dimension int

	batchSize   int
	settleDelay time.Duration
	logger      *slog.Logger
}

func NewIndexDocumentUseCase(
	chunker ports.Chunker,
	embedder ports.EmbeddingProvider,
	index ports.VectorIndex,
	dimension int,
	logger *slog.Logger,
) *IndexDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexDocumentUseCase{
		chunker:     chunker,
		embedder:    embedder,
		index:       index,
		dimension:   dimension,
		batchSize:   DefaultUpsertBatchSize,
		settleDelay: DefaultSettleDelay,
		logger:      logger,
	}
}

// WithBatching overrides batch size and inter-batch settle delay.
func (uc *IndexDocumentUseCase) WithBatching(batchSize int, settleDelay time.Duration) *IndexDocumentUseCase {
	if batchSize > 0 {
		uc.batchSize = batchSize
	}
	if settleDelay >= 0 {
		uc.settleDelay = settleDelay
	}
	return uc
}

func (uc *IndexDocumentUseCase) IndexDocument(ctx context.Context, documentID, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "index document", errors.New("empty document text"))
	}

	chunks, err := uc.chunker.Split(text)
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexing, "chunk document", err)
	}
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrIndexing, "chunk document", errors.New("chunking produced zero chunks"))
	}

	records, err := uc.embedChunks(ctx, documentID, chunks)
	if err != nil {
		return nil, err
	}

	if err := uc.upsertBatched(ctx, documentID, records); err != nil {
		return nil, err
	}

	uc.verify(ctx, documentID, records)

	ids := make([]string, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	return ids, nil
}

// embedChunks embeds sequentially in chunk index order. Dimensionality is
// validated against the configured index dimension before anything is
// committed; a mismatch indicates deployment misconfiguration.
func (uc *IndexDocumentUseCase) embedChunks(ctx context.Context, documentID string, chunks []domain.Chunk) ([]domain.IndexRecord, error) {
	records := make([]domain.IndexRecord, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := uc.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return nil, domain.WrapError(domain.ErrIndexing, fmt.Sprintf("embed chunk %d", chunk.Index), err)
		}
		if len(vector) != uc.dimension {
			uc.logger.Error("embedding dimension mismatch",
				"document_id", documentID,
				"chunk_index", chunk.Index,
				"got", len(vector),
				"want", uc.dimension,
			)
			return nil, domain.WrapError(
				domain.ErrDimensionMismatch,
				fmt.Sprintf("embed chunk %d", chunk.Index),
				fmt.Errorf("got %d, index configured for %d", len(vector), uc.dimension),
			)
		}
		records = append(records, domain.IndexRecord{
			ID:     domain.RecordID(documentID, chunk.Index),
			Vector: vector,
			Metadata: domain.RecordMetadata{
				DocumentID: documentID,
				ChunkIndex: chunk.Index,
				Text:       chunk.Text,
			},
		})
	}
	return records, nil
}

// upsertBatched writes records in fixed-size batches sequentially, pausing
// after each batch for the index's eventual-consistency window. A batch
// failure aborts the rest; already-committed batches stay, and retrying the
// whole document is safe because upsert is idempotent by id.
func (uc *IndexDocumentUseCase) upsertBatched(ctx context.Context, documentID string, records []domain.IndexRecord) error {
	for offset := 0; offset < len(records); offset += uc.batchSize {
		end := offset + uc.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := uc.index.Upsert(ctx, records[offset:end]); err != nil {
			return domain.WrapError(
				domain.ErrIndexing,
				fmt.Sprintf("upsert batch %d-%d", offset, end-1),
				err,
			)
		}
		uc.logger.Debug("upserted batch",
			"document_id", documentID,
			"from", offset,
			"to", end-1,
		)
		if err := uc.settle(ctx); err != nil {
			return domain.WrapError(domain.ErrIndexing, "settle after batch", err)
		}
	}
	return nil
}

// verify is a best-effort read-back of the first record. The index is
// eventually consistent, so a miss is a warning, never a failure.
func (uc *IndexDocumentUseCase) verify(ctx context.Context, documentID string, records []domain.IndexRecord) {
	if len(records) == 0 {
		return
	}
	first := records[0]
	results, err := uc.index.Query(ctx, first.Vector, 1, documentID)
	if err != nil {
		uc.logger.Warn("post-upsert verification query failed", "document_id", documentID, "error", err)
		return
	}
	if len(results) == 0 {
		uc.logger.Warn("upserted records not yet visible", "document_id", documentID, "record_id", first.ID)
	}
}

func (uc *IndexDocumentUseCase) settle(ctx context.Context) error {
	if uc.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(uc.settleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
