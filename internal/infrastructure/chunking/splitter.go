package chunking

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dkotenko/docqa/internal/core/domain"
)

// Splitter cuts text into a sliding window of at most ChunkSize runes where
// consecutive chunks overlap by Overlap runes. Window ends snap to the
// nearest natural breakpoint (paragraph, then sentence, then word) found in
// the tail of the window; a hard cut is the fallback.
type Splitter struct {
	chunkSize int
	overlap   int
}

// snapRegion is the fraction of the window, counted from its end, in which
// a breakpoint may move the cut.
const snapRegion = 5

func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunking: chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunking: overlap %d must satisfy 0 <= overlap < chunk size %d", overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

func (s *Splitter) Split(text string) ([]domain.Chunk, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("chunking: empty text")
	}

	runes := []rune(trimmed)
	if len(runes) <= s.chunkSize {
		return []domain.Chunk{{
			Index:      0,
			Text:       trimmed,
			CharStart:  0,
			CharLength: len(runes),
		}}, nil
	}

	out := make([]domain.Chunk, 0, len(runes)/(s.chunkSize-s.overlap)+1)
	start := 0
	for start < len(runes) {
		end := start + s.chunkSize
		last := end >= len(runes)
		if last {
			end = len(runes)
		} else {
			end = snapToBreakpoint(runes, start, end, s.chunkSize/snapRegion)
			if end-s.overlap <= start {
				// Snapping must never stall the window.
				end = start + s.chunkSize
			}
		}

		piece := string(runes[start:end])
		if strings.TrimSpace(piece) != "" {
			out = append(out, domain.Chunk{
				Index:      len(out),
				Text:       piece,
				CharStart:  start,
				CharLength: end - start,
			})
		}
		if last {
			break
		}
		start = end - s.overlap
	}
	return out, nil
}

// snapToBreakpoint moves end backwards to the closest breakpoint within the
// given tail length. Preference order: paragraph break, sentence end, word
// boundary. Returns the original end when no breakpoint exists.
func snapToBreakpoint(runes []rune, start, end, tail int) int {
	low := end - tail
	if low <= start {
		low = start + 1
	}

	for i := end - 1; i > low; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i > low; i-- {
		if isSentenceEnd(runes[i-1]) && unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	for i := end - 1; i > low; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}
