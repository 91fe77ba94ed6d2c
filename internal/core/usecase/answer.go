package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dkotenko/docqa/internal/core/domain"
	"github.com/dkotenko/docqa/internal/core/ports"
)

const answerSystemInstruction = `You answer questions using only the provided document context.
If the context does not contain the answer, say so directly. Be concise.`

const DefaultGenerationTimeout = 60 * time.Second

// AnswerUseCase runs the full query path: vector retrieval, the direct-text
// fallback when retrieval is empty or unavailable, context assembly and
// answer generation. Retrieval failures are recovered locally and never
// surface to the user as errors.
type AnswerUseCase struct {
	retrieval *RetrievalEngine
	assembler *ContextAssembler
	generator ports.AnswerGenerator
	repo      ports.DocumentRepository

	defaultModel      string
	generationTimeout time.Duration
	logger            *slog.Logger
}

func NewAnswerUseCase(
	retrieval *RetrievalEngine,
	assembler *ContextAssembler,
	generator ports.AnswerGenerator,
	repo ports.DocumentRepository,
	defaultModel string,
	logger *slog.Logger,
) *AnswerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerUseCase{
		retrieval:         retrieval,
		assembler:         assembler,
		generator:         generator,
		repo:              repo,
		defaultModel:      defaultModel,
		generationTimeout: DefaultGenerationTimeout,
		logger:            logger,
	}
}

// WithGenerationTimeout overrides the per-call generation deadline.
func (uc *AnswerUseCase) WithGenerationTimeout(timeout time.Duration) *AnswerUseCase {
	if timeout > 0 {
		uc.generationTimeout = timeout
	}
	return uc
}

func (uc *AnswerUseCase) Retrieve(ctx context.Context, question, documentID string, topK int) ([]domain.RetrievalResult, error) {
	return uc.retrieval.Retrieve(ctx, question, documentID, topK)
}

func (uc *AnswerUseCase) Answer(ctx context.Context, question, documentID string, settings domain.QuerySettings) (*domain.Answer, error) {
	settings = settings.WithDefaults(uc.defaultModel)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "answer", fmt.Errorf("empty question"))
	}

	results, err := uc.retrieval.Retrieve(ctx, question, documentID, settings.TopK)
	if err != nil {
		// The index may simply not have propagated a recent upsert yet, so a
		// query failure degrades to the same path as an empty result.
		uc.logger.Warn("vector retrieval failed, falling back to direct text",
			"document_id", documentID, "error", err)
		results = nil
	}

	contextText, sources := uc.assembler.Assemble(results, settings)
	method := domain.MethodVector

	if contextText == "" {
		contextText = uc.directText(ctx, documentID, settings)
		method = domain.MethodDirect
	}
	if contextText == "" {
		return &domain.Answer{Text: domain.AnswerNoInformation, Method: domain.MethodNone}, nil
	}

	text, degraded := uc.generate(ctx, question, contextText, results, settings)
	return &domain.Answer{
		Text:     text,
		Sources:  sources,
		Method:   method,
		Degraded: degraded,
	}, nil
}

// directText substitutes the stored document prefix for vector context. With
// no document scope there is no raw-text source to fall back on.
func (uc *AnswerUseCase) directText(ctx context.Context, documentID string, settings domain.QuerySettings) string {
	if documentID == "" {
		return ""
	}
	text, err := uc.repo.GetText(ctx, documentID)
	if err != nil {
		uc.logger.Warn("fallback text unavailable", "document_id", documentID, "error", err)
		return ""
	}
	runes := []rune(text)
	if budget := settings.ContextBudget(); len(runes) > budget {
		return string(runes[:budget])
	}
	return text
}

// generate calls the answer generator under a deadline. On failure the
// answer degrades to a best-effort excerpt of the retrieved context rather
// than an opaque error: returning something useful beats failing a Q&A
// request outright.
func (uc *AnswerUseCase) generate(
	ctx context.Context,
	question, contextText string,
	results []domain.RetrievalResult,
	settings domain.QuerySettings,
) (string, bool) {
	genCtx, cancel := context.WithTimeout(ctx, uc.generationTimeout)
	defer cancel()

	prompt := buildAnswerPrompt(question, contextText)
	text, err := uc.generator.Generate(genCtx, answerSystemInstruction, prompt, settings.GenerationOptions())
	if err != nil {
		uc.logger.Error("answer generation failed, returning excerpt",
			"error", domain.WrapError(domain.ErrGeneration, "generate answer", err))
		return uc.excerpt(results, contextText), true
	}
	return text, false
}

func (uc *AnswerUseCase) excerpt(results []domain.RetrievalResult, contextText string) string {
	if len(results) > 0 {
		return Preview(results[0].Text, domain.MinChunkSize*5)
	}
	return Preview(contextText, domain.MinChunkSize*5)
}

func buildAnswerPrompt(question, contextText string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextText, question)
}
