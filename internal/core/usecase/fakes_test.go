package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/dkotenko/docqa/internal/core/domain"
)

// repoFake is an in-memory DocumentRepository shared by the use case tests.
type repoFake struct {
	docs      map[string]*domain.Document
	texts     map[string]string
	recordIDs map[string][]string

	created       *domain.Document
	savedText     string
	savedRecords  []string
	deletedID     string
	statusHistory []domain.DocumentStatus
	lastErrMsg    string

	createErr   error
	getErr      error
	statusErr   error
	saveTextErr error
	getTextErr  error
	saveRecErr  error
	getRecErr   error
	deleteErr   error
}

func newRepoFake() *repoFake {
	return &repoFake{
		docs:      map[string]*domain.Document{},
		texts:     map[string]string{},
		recordIDs: map[string][]string{},
	}
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusHistory = append(f.statusHistory, status)
	f.lastErrMsg = errMessage
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
	}
	return nil
}

func (f *repoFake) SaveExtractedText(_ context.Context, id, text string) error {
	if f.saveTextErr != nil {
		return f.saveTextErr
	}
	f.savedText = text
	f.texts[id] = text
	return nil
}

func (f *repoFake) GetText(_ context.Context, id string) (string, error) {
	if f.getTextErr != nil {
		return "", f.getTextErr
	}
	text, ok := f.texts[id]
	if !ok {
		return "", domain.ErrDocumentNotFound
	}
	return text, nil
}

func (f *repoFake) SaveRecordIDs(_ context.Context, id string, recordIDs []string) error {
	if f.saveRecErr != nil {
		return f.saveRecErr
	}
	f.savedRecords = recordIDs
	f.recordIDs[id] = recordIDs
	return nil
}

func (f *repoFake) GetRecordIDs(_ context.Context, id string) ([]string, error) {
	if f.getRecErr != nil {
		return nil, f.getRecErr
	}
	return f.recordIDs[id], nil
}

func (f *repoFake) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	delete(f.docs, id)
	return nil
}

// embedderFake returns a fixed-dimension vector derived from the text
// length, so distinct texts map to distinct but deterministic vectors.
type embedderFake struct {
	dimension int
	err       error
	calls     []string
}

func (f *embedderFake) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, text)
	vector := make([]float32, f.dimension)
	for i := range vector {
		vector[i] = float32(len(text)%7) + float32(i)
	}
	return vector, nil
}

func (f *embedderFake) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vector)
	}
	return out, nil
}

// indexFake records upserts and serves canned query results.
type indexFake struct {
	upserted   []domain.IndexRecord
	batchSizes []int
	upsertErr  error
	failBatch  int // 1-based batch number to fail on; 0 disables

	queryResults []domain.RetrievalResult
	queryErr     error
	queryCalls   int
	lastTopK     int
	lastDocID    string

	deleted   [][]string
	deleteErr error

	stats    domain.IndexStats
	statsErr error
}

func (f *indexFake) Upsert(_ context.Context, records []domain.IndexRecord) error {
	if f.failBatch > 0 && len(f.batchSizes)+1 == f.failBatch {
		return f.upsertErr
	}
	if f.failBatch == 0 && f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, records...)
	f.batchSizes = append(f.batchSizes, len(records))
	return nil
}

func (f *indexFake) Query(_ context.Context, _ []float32, topK int, documentID string) ([]domain.RetrievalResult, error) {
	f.queryCalls++
	f.lastTopK = topK
	f.lastDocID = documentID
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	results := f.queryResults
	if len(results) > topK {
		results = results[:topK]
	}
	return append([]domain.RetrievalResult(nil), results...), nil
}

func (f *indexFake) Delete(_ context.Context, ids []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids)
	return nil
}

func (f *indexFake) Stats(_ context.Context) (domain.IndexStats, error) {
	if f.statsErr != nil {
		return domain.IndexStats{}, f.statsErr
	}
	return f.stats, nil
}

type generatorFake struct {
	text string
	err  error

	gotSystem string
	gotPrompt string
	gotOpts   domain.GenerationOptions
}

func (f *generatorFake) Generate(_ context.Context, systemInstruction, userPrompt string, opts domain.GenerationOptions) (string, error) {
	f.gotSystem = systemInstruction
	f.gotPrompt = userPrompt
	f.gotOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type chunkerFake struct {
	chunks []domain.Chunk
	err    error
}

func (f *chunkerFake) Split(string) ([]domain.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type queueFake struct {
	documentID string
	err        error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return nil
}

func chunkFixture(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			Index:      i,
			Text:       strings.Repeat("x", 10),
			CharStart:  i * 8,
			CharLength: 10,
		}
	}
	return chunks
}
