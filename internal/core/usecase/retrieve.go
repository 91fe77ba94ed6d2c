package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

// minCandidates is the floor on how many candidates the index is asked for.
// Over-fetching past the caller's topK leaves room for the post-filter that
// drops records without retrievable text.
const minCandidates = 10

// RetrievalEngine embeds the question, queries the vector index and returns
// at most topK usable results in the index's descending score order. An
// empty result is a normal outcome, not an error.
type RetrievalEngine struct {
	embedder ports.EmbeddingProvider
	index    ports.VectorIndex
}

func NewRetrievalEngine(embedder ports.EmbeddingProvider, index ports.VectorIndex) *RetrievalEngine {
	return &RetrievalEngine{embedder: embedder, index: index}
}

func (e *RetrievalEngine) Retrieve(ctx context.Context, question, documentID string, topK int) ([]domain.RetrievalResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "retrieve", errors.New("empty question"))
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	vector, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "embed question", err)
	}

	candidates := topK
	if candidates < minCandidates {
		candidates = minCandidates
	}

	results, err := e.index.Query(ctx, vector, candidates, documentID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "query vector index", err)
	}

	usable := results[:0]
	for _, result := range results {
		if strings.TrimSpace(result.Text) == "" {
			continue
		}
		usable = append(usable, result)
	}
	if len(usable) > topK {
		usable = usable[:topK]
	}
	return usable, nil
}
