package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits long documents into overlapping pieces for embedding.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// chunkAccumulator collects units (paragraphs or sentences) into chunks of at
// most size runes, seeding each new chunk with the tail of the previous one.
type chunkAccumulator struct {
	size    int
	overlap int
	chunks  []string
	current strings.Builder
}

func (a *chunkAccumulator) add(unit, sep string) {
	if a.current.Len() > 0 && utf8.RuneCountInString(a.current.String())+utf8.RuneCountInString(unit)+len(sep) > a.size {
		a.flush()
	}
	if a.current.Len() > 0 {
		a.current.WriteString(sep)
	}
	a.current.WriteString(unit)
}

func (a *chunkAccumulator) flush() {
	prev := a.current.String()
	a.chunks = append(a.chunks, prev)
	a.current.Reset()

	a.current.WriteString(lastRunes(prev, a.overlap))
}

func (a *chunkAccumulator) result() []string {
	if strings.TrimSpace(a.current.String()) != "" {
		a.chunks = append(a.chunks, a.current.String())
	}
	return a.chunks
}

// ChunkText implements TextChunker. Paragraphs are kept whole when they fit;
// longer paragraphs are split on sentence boundaries.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	acc := &chunkAccumulator{size: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			acc.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			acc.add(sentence, " ")
		}
	}

	return acc.result()
}

func splitIntoSentences(text string) []string {
	var result []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
