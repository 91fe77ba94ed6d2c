package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dkotenko/docqa/internal/core/domain"
)

type indexerFake struct {
	ids     []string
	err     error
	gotText string
}

func (f *indexerFake) IndexDocument(_ context.Context, _ string, text string) ([]string, error) {
	f.gotText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func processFixture() (*repoFake, *extractorFake, *indexerFake, *indexFake) {
	repo := newRepoFake()
	repo.docs["doc-1"] = &domain.Document{ID: "doc-1", Filename: "a.txt", Status: domain.StatusUploaded}
	extractor := &extractorFake{text: "extracted document text"}
	indexer := &indexerFake{ids: []string{"doc-1_chunk_0", "doc-1_chunk_1"}}
	return repo, extractor, indexer, &indexFake{}
}

func TestProcessByIDSuccess(t *testing.T) {
	repo, extractor, indexer, index := processFixture()
	uc := NewProcessDocumentUseCase(repo, extractor, indexer, index, nil)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	wantStatuses := []domain.DocumentStatus{domain.StatusProcessing, domain.StatusIndexed}
	if len(repo.statusHistory) != len(wantStatuses) {
		t.Fatalf("expected statuses %v, got %v", wantStatuses, repo.statusHistory)
	}
	for i, want := range wantStatuses {
		if repo.statusHistory[i] != want {
			t.Fatalf("status %d: expected %s, got %s", i, want, repo.statusHistory[i])
		}
	}
	if repo.savedText != "extracted document text" {
		t.Fatalf("expected extracted text saved, got %q", repo.savedText)
	}
	if len(repo.savedRecords) != 2 {
		t.Fatalf("expected 2 record ids saved, got %v", repo.savedRecords)
	}
	if indexer.gotText != "extracted document text" {
		t.Fatalf("indexer received %q", indexer.gotText)
	}
	if len(index.deleted) != 0 {
		t.Fatalf("fresh document must not trigger record deletion")
	}
}

func TestProcessByIDReindexDropsPreviousRecords(t *testing.T) {
	repo, extractor, indexer, index := processFixture()
	repo.recordIDs["doc-1"] = []string{"doc-1_chunk_0", "doc-1_chunk_1", "doc-1_chunk_2"}
	uc := NewProcessDocumentUseCase(repo, extractor, indexer, index, nil)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(index.deleted) != 1 || len(index.deleted[0]) != 3 {
		t.Fatalf("expected previous 3 records dropped, got %v", index.deleted)
	}
	if len(repo.savedRecords) != 2 {
		t.Fatalf("expected new record ids saved, got %v", repo.savedRecords)
	}
}

func TestProcessByIDExtractFailureMarksFailed(t *testing.T) {
	repo, extractor, indexer, index := processFixture()
	extractor.err = errors.New("corrupt pdf")
	uc := NewProcessDocumentUseCase(repo, extractor, indexer, index, nil)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statusHistory[len(repo.statusHistory)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
	if repo.lastErrMsg == "" {
		t.Fatalf("expected failure message recorded on document")
	}
}

func TestProcessByIDEmptyExtractedText(t *testing.T) {
	repo, extractor, indexer, index := processFixture()
	extractor.text = ""
	uc := NewProcessDocumentUseCase(repo, extractor, indexer, index, nil)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	last := repo.statusHistory[len(repo.statusHistory)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
}

func TestProcessByIDIndexerFailureMarksFailed(t *testing.T) {
	repo, extractor, indexer, index := processFixture()
	indexer.err = domain.WrapError(domain.ErrIndexing, "upsert batch 0-49", errors.New("qdrant down"))
	uc := NewProcessDocumentUseCase(repo, extractor, indexer, index, nil)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrIndexing) {
		t.Fatalf("expected ErrIndexing, got %v", err)
	}
	last := repo.statusHistory[len(repo.statusHistory)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %s", last)
	}
}

func TestProcessByIDUnknownDocument(t *testing.T) {
	repo, extractor, indexer, index := processFixture()
	uc := NewProcessDocumentUseCase(repo, extractor, indexer, index, nil)

	err := uc.ProcessByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
