package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

// CosineSimilarity returns the cosine of the angle between two vectors, in
// [-1, 1]. Vectors of different lengths belong to different semantic spaces;
// comparing them is a hard error, never coerced by truncation or padding.
// A zero-magnitude vector has no direction: the similarity is defined as 0
// so NaN never reaches ranking.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.WrapError(domain.ErrDimensionMismatch, "cosine similarity",
			fmt.Errorf("vector lengths %d and %d", len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// LocalCandidate is a precomputed embedding for brute-force local search.
type LocalCandidate struct {
	ID     string
	Vector []float32
}

// LocalMatch is a scored candidate.
type LocalMatch struct {
	ID    string
	Score float64
}

// SimilarityScorer is the brute-force local search path used when no
// external vector index is available. O(n) in candidates; only appropriate
// for small sets.
type SimilarityScorer struct {
	embedder ports.EmbeddingProvider
}

func NewSimilarityScorer(embedder ports.EmbeddingProvider) *SimilarityScorer {
	return &SimilarityScorer{embedder: embedder}
}

// FindSimilar embeds the query once, scores every candidate against it and
// returns the first topK sorted descending by score. Ties keep the original
// input order (stable sort).
func (s *SimilarityScorer) FindSimilar(ctx context.Context, query string, candidates []LocalCandidate, topK int) ([]LocalMatch, error) {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrieval, "embed local query", err)
	}

	matches := make([]LocalMatch, 0, len(candidates))
	for _, candidate := range candidates {
		score, err := CosineSimilarity(queryVector, candidate.Vector)
		if err != nil {
			return nil, err
		}
		matches = append(matches, LocalMatch{ID: candidate.ID, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
