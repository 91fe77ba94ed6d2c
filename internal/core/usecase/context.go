package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/dkotenko/docqa/internal/core/domain"
)

const (
	contextDelimiter = "\n\n---\n\n"
	previewLength    = 160
)

// ContextAssembler concatenates ranked chunk texts into a prompt context
// bounded by settings.ChunkSize * settings.TopK characters. Truncation is a
// hard cut at the budget boundary: predictable prompt size wins over
// chunk-aligned tidiness.
type ContextAssembler struct{}

func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{}
}

func (a *ContextAssembler) Assemble(results []domain.RetrievalResult, settings domain.QuerySettings) (string, []domain.Source) {
	if len(results) == 0 {
		return "", nil
	}

	budget := settings.ContextBudget()
	var builder strings.Builder
	sources := make([]domain.Source, 0, len(results))

	// The budget is counted in runes, same unit as the final truncation.
	written := 0
	for i, result := range results {
		if i > 0 {
			builder.WriteString(contextDelimiter)
			written += utf8.RuneCountInString(contextDelimiter)
		}
		builder.WriteString(result.Text)
		written += utf8.RuneCountInString(result.Text)
		sources = append(sources, domain.Source{
			ID:         result.ID,
			DocumentID: result.DocumentID,
			Preview:    Preview(result.Text, previewLength),
			Score:      result.Score,
		})
		if written >= budget {
			break
		}
	}

	context := builder.String()
	if runes := []rune(context); len(runes) > budget {
		context = string(runes[:budget])
	}
	return context, sources
}

// Preview returns a bounded prefix of text for citation display.
func Preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
