package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkotenko/docqa/internal/core/domain"
)

func TestEmbedBatchSendsModelAndInput(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode embed body: %v", err)
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", "nomic-embed-text", nil)
	embedder := NewEmbedder(client, 100)

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if captured["model"] != "nomic-embed-text" {
		t.Fatalf("expected embed model, got %v", captured["model"])
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[1][1] != 0.4 {
		t.Fatalf("unexpected vector %v", vectors[1])
	}
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "g", "e", nil)
	embedder := NewEmbedder(client, 100)

	if _, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestEmbedSingleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.5,0.6,0.7]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "g", "e", nil)
	embedder := NewEmbedder(client, 100)

	vector, err := embedder.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(vector))
	}
}

func TestGenerateSendsSystemAndOptions(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode generate body: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"  the answer  "}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", "nomic-embed-text", nil)
	generator := NewGenerator(client)

	text, err := generator.Generate(context.Background(), "system rules", "user prompt", domain.GenerationOptions{
		Temperature: 0.3,
		MaxTokens:   256,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "the answer" {
		t.Fatalf("expected trimmed answer, got %q", text)
	}
	if captured["model"] != "llama3.1:8b" {
		t.Fatalf("expected default model, got %v", captured["model"])
	}
	if captured["system"] != "system rules" {
		t.Fatalf("system instruction missing: %v", captured["system"])
	}
	if captured["stream"] != false {
		t.Fatalf("expected stream disabled")
	}
	options, ok := captured["options"].(map[string]any)
	if !ok {
		t.Fatalf("options missing: %v", captured)
	}
	if options["temperature"] != 0.3 || options["num_predict"] != float64(256) {
		t.Fatalf("unexpected options %v", options)
	}
}

func TestGenerateModelOverride(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", "e", nil)
	generator := NewGenerator(client)

	if _, err := generator.Generate(context.Background(), "s", "p", domain.GenerationOptions{Model: "mistral:7b"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if captured["model"] != "mistral:7b" {
		t.Fatalf("expected model override, got %v", captured["model"])
	}
}

func TestServerErrorBecomesTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "g", "e", nil)
	generator := NewGenerator(client)

	_, err := generator.Generate(context.Background(), "s", "p", domain.GenerationOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary for 503, got %v", err)
	}
}

func TestClientErrorIsNotTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown model", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "g", "e", nil)
	generator := NewGenerator(client)

	_, err := generator.Generate(context.Background(), "s", "p", domain.GenerationOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("404 must not be wrapped as temporary: %v", err)
	}
}
