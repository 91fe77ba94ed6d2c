package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

const healthProbeText = "healthcheck probe"

// HealthCheckUseCase exercises the embedding provider and the vector index
// as a readiness probe. It also cross-checks the index's reported dimension
// against configuration: a mismatch is a deployment misconfiguration worth
// failing readiness over.
type HealthCheckUseCase struct {
	embedder  ports.EmbeddingProvider
	index     ports.VectorIndex
	dimension int
	timeout   time.Duration
}

func NewHealthCheckUseCase(embedder ports.EmbeddingProvider, index ports.VectorIndex, dimension int, timeout time.Duration) *HealthCheckUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthCheckUseCase{
		embedder:  embedder,
		index:     index,
		dimension: dimension,
		timeout:   timeout,
	}
}

func (uc *HealthCheckUseCase) Check(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	vector, err := uc.embedder.Embed(checkCtx, healthProbeText)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	if len(vector) != uc.dimension {
		return domain.WrapError(domain.ErrDimensionMismatch, "health check",
			fmt.Errorf("provider returned %d, index configured for %d", len(vector), uc.dimension))
	}

	stats, err := uc.index.Stats(checkCtx)
	if err != nil {
		return fmt.Errorf("vector index: %w", err)
	}
	if stats.Dimension != 0 && stats.Dimension != uc.dimension {
		return domain.WrapError(domain.ErrDimensionMismatch, "health check",
			fmt.Errorf("index reports %d, configured for %d", stats.Dimension, uc.dimension))
	}
	return nil
}
