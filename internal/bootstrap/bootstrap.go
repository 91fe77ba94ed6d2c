package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dkotenko/docqa/internal/config"
	"github.com/dkotenko/docqa/internal/core/ports"
	"github.com/dkotenko/docqa/internal/core/usecase"
	"github.com/dkotenko/docqa/internal/infrastructure/chunking"
	"github.com/dkotenko/docqa/internal/infrastructure/extractor"
	"github.com/dkotenko/docqa/internal/infrastructure/llm/ollama"
	"github.com/dkotenko/docqa/internal/infrastructure/llm/openai"
	"github.com/dkotenko/docqa/internal/infrastructure/queue/nats"
	"github.com/dkotenko/docqa/internal/infrastructure/repository/postgres"
	"github.com/dkotenko/docqa/internal/infrastructure/resilience"
	"github.com/dkotenko/docqa/internal/infrastructure/storage/localfs"
	"github.com/dkotenko/docqa/internal/infrastructure/vector/qdrant"
)

// App holds the wired object graph shared by the api, worker and mcp
// binaries. Construction fails fast: a bad provider name or unreachable
// dependency config is reported before any server starts.
type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.QueryService
	DeleteUC  ports.DocumentDeleter
	HealthUC  ports.HealthChecker

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutorWithLogger(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	embedder, generator, defaultModel, err := buildLLM(cfg, executor)
	if err != nil {
		queue.Close()
		return nil, err
	}

	vectorIndex := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.EmbeddingDimension)

	chunker, err := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		queue.Close()
		return nil, fmt.Errorf("init chunker: %w", err)
	}

	textExtractor := extractor.New(storage)

	indexerUC := usecase.NewIndexDocumentUseCase(chunker, embedder, vectorIndex, cfg.EmbeddingDimension, logger).
		WithBatching(cfg.UpsertBatchSize, cfg.IndexSettleDelay())

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, indexerUC, vectorIndex, logger)

	retrieval := usecase.NewRetrievalEngine(embedder, vectorIndex)
	assembler := usecase.NewContextAssembler()
	queryUC := usecase.NewAnswerUseCase(retrieval, assembler, generator, repo, defaultModel, logger).
		WithGenerationTimeout(cfg.GenerationTimeout())

	deleteUC := usecase.NewDeleteDocumentUseCase(repo, vectorIndex, logger)
	healthUC := usecase.NewHealthCheckUseCase(embedder, vectorIndex, cfg.EmbeddingDimension, 0)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,
		DeleteUC:  deleteUC,
		HealthUC:  healthUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func buildLLM(cfg config.Config, executor *resilience.Executor) (ports.EmbeddingProvider, ports.AnswerGenerator, string, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", "ollama":
		client := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
		return ollama.NewEmbedder(client, cfg.EmbedRatePerSecond), ollama.NewGenerator(client), cfg.OllamaGenModel, nil
	case "openai":
		client, err := openai.NewWithBaseURL(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIGenModel, cfg.OpenAIEmbedModel)
		if err != nil {
			return nil, nil, "", fmt.Errorf("init openai client: %w", err)
		}
		// The client falls back to its own default chat model when none is
		// configured; the answer use case must agree with that choice or
		// settings validation rejects every query.
		return openai.NewEmbedder(client, cfg.EmbedRatePerSecond), openai.NewGenerator(client), client.ChatModel(), nil
	default:
		return nil, nil, "", fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
