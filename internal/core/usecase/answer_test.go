package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dkotenko/docqa/internal/core/domain"
)

func newAnswerUC(index *indexFake, generator *generatorFake, repo *repoFake) *AnswerUseCase {
	retrieval := NewRetrievalEngine(&embedderFake{dimension: 4}, index)
	return NewAnswerUseCase(retrieval, NewContextAssembler(), generator, repo, "llama3.1:8b", nil)
}

func TestAnswerVectorPath(t *testing.T) {
	index := &indexFake{queryResults: retrievalFixture(3)}
	generator := &generatorFake{text: "generated answer"}
	uc := newAnswerUC(index, generator, newRepoFake())

	answer, err := uc.Answer(context.Background(), "what is this?", "", domain.QuerySettings{})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Text != "generated answer" {
		t.Fatalf("unexpected answer %q", answer.Text)
	}
	if answer.Method != domain.MethodVector {
		t.Fatalf("expected method vector, got %s", answer.Method)
	}
	if answer.Degraded {
		t.Fatalf("expected non-degraded answer")
	}
	if len(answer.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(answer.Sources))
	}
	if !strings.Contains(generator.gotPrompt, "what is this?") {
		t.Fatalf("question missing from prompt")
	}
	if !strings.Contains(generator.gotPrompt, "chunk text 0") {
		t.Fatalf("context missing from prompt")
	}
	if generator.gotOpts.Model != "llama3.1:8b" {
		t.Fatalf("expected default model in options, got %q", generator.gotOpts.Model)
	}
}

func TestAnswerInvalidSettings(t *testing.T) {
	uc := newAnswerUC(&indexFake{}, &generatorFake{}, newRepoFake())

	_, err := uc.Answer(context.Background(), "question", "", domain.QuerySettings{TopK: 99})
	if !domain.IsKind(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestAnswerEmptyQuestion(t *testing.T) {
	uc := newAnswerUC(&indexFake{}, &generatorFake{}, newRepoFake())

	_, err := uc.Answer(context.Background(), "   ", "", domain.QuerySettings{})
	if !domain.IsKind(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestAnswerDirectFallbackOnEmptyRetrieval(t *testing.T) {
	repo := newRepoFake()
	repo.texts["doc-1"] = "the direct document text"
	generator := &generatorFake{text: "answer from direct text"}
	uc := newAnswerUC(&indexFake{}, generator, repo)

	answer, err := uc.Answer(context.Background(), "question", "doc-1", domain.QuerySettings{})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Method != domain.MethodDirect {
		t.Fatalf("expected method direct, got %s", answer.Method)
	}
	if answer.Text != "answer from direct text" {
		t.Fatalf("unexpected answer %q", answer.Text)
	}
	if len(answer.Sources) != 0 {
		t.Fatalf("direct fallback has no chunk sources, got %d", len(answer.Sources))
	}
	if !strings.Contains(generator.gotPrompt, "the direct document text") {
		t.Fatalf("direct text missing from prompt")
	}
}

func TestAnswerDirectFallbackOnRetrievalError(t *testing.T) {
	repo := newRepoFake()
	repo.texts["doc-1"] = "stored text"
	index := &indexFake{queryErr: errors.New("qdrant down")}
	uc := newAnswerUC(index, &generatorFake{text: "ok"}, repo)

	answer, err := uc.Answer(context.Background(), "question", "doc-1", domain.QuerySettings{})
	if err != nil {
		t.Fatalf("retrieval failure must not fail the request: %v", err)
	}
	if answer.Method != domain.MethodDirect {
		t.Fatalf("expected method direct, got %s", answer.Method)
	}
}

func TestAnswerDirectFallbackTruncatesToBudget(t *testing.T) {
	repo := newRepoFake()
	repo.texts["doc-1"] = strings.Repeat("z", 2000)
	generator := &generatorFake{text: "ok"}
	uc := newAnswerUC(&indexFake{}, generator, repo)

	settings := domain.QuerySettings{TopK: 1, ChunkSize: 100}
	if _, err := uc.Answer(context.Background(), "question", "doc-1", settings); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if strings.Count(generator.gotPrompt, "z") != 100 {
		t.Fatalf("expected direct text capped at 100 chars, got %d", strings.Count(generator.gotPrompt, "z"))
	}
}

func TestAnswerNoInformation(t *testing.T) {
	// No retrieval hits and no document scope: nothing to answer from.
	uc := newAnswerUC(&indexFake{}, &generatorFake{text: "should not run"}, newRepoFake())

	answer, err := uc.Answer(context.Background(), "question", "", domain.QuerySettings{})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Text != domain.AnswerNoInformation {
		t.Fatalf("expected %q, got %q", domain.AnswerNoInformation, answer.Text)
	}
	if answer.Method != domain.MethodNone {
		t.Fatalf("expected method none, got %s", answer.Method)
	}
}

func TestAnswerUnknownDocumentFallsBackToNoInformation(t *testing.T) {
	uc := newAnswerUC(&indexFake{}, &generatorFake{}, newRepoFake())

	answer, err := uc.Answer(context.Background(), "question", "missing-doc", domain.QuerySettings{})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Text != domain.AnswerNoInformation {
		t.Fatalf("expected %q, got %q", domain.AnswerNoInformation, answer.Text)
	}
}

func TestAnswerDegradedExcerptOnGenerationFailure(t *testing.T) {
	index := &indexFake{queryResults: retrievalFixture(2)}
	generator := &generatorFake{err: errors.New("model timeout")}
	uc := newAnswerUC(index, generator, newRepoFake())

	answer, err := uc.Answer(context.Background(), "question", "", domain.QuerySettings{})
	if err != nil {
		t.Fatalf("generation failure must not fail the request: %v", err)
	}
	if !answer.Degraded {
		t.Fatalf("expected degraded answer")
	}
	if !strings.Contains(answer.Text, "chunk text 0") {
		t.Fatalf("expected excerpt of top chunk, got %q", answer.Text)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("degraded answer keeps its sources, got %d", len(answer.Sources))
	}
}

func TestAnswerRetrievePassthrough(t *testing.T) {
	index := &indexFake{queryResults: retrievalFixture(4)}
	uc := newAnswerUC(index, &generatorFake{}, newRepoFake())

	results, err := uc.Retrieve(context.Background(), "question", "doc-1", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
