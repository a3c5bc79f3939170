package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

const (
	DocTypeJobDescription = "job_description"
	DocTypeReference      = "reference"

	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// DocumentIndexer embeds documents into the vector store and retrieves the
// chunks most relevant to a query.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, docID, docType, text string) (int, error)
	RetrieveContext(ctx context.Context, docID, query string, limit int) (string, error)
}

type documentIndexer struct {
	store   VectorStore
	llm     LLMService
	chunker TextChunker
	log     *zap.Logger
}

func NewDocumentIndexer(store VectorStore, llm LLMService, chunker TextChunker, log *zap.Logger) DocumentIndexer {
	return &documentIndexer{
		store:   store,
		llm:     llm,
		chunker: chunker,
		log:     log,
	}
}

// IndexDocument implements DocumentIndexer. Chunks that fail to embed are
// skipped; the call fails only when nothing was stored.
func (d *documentIndexer) IndexDocument(ctx context.Context, docID, docType, text string) (int, error) {
	chunks := d.chunker.ChunkText(text, defaultChunkSize, defaultChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s has no text to index", docID)
	}

	stored := 0
	var lastErr error
	for i, chunk := range chunks {
		embedding, err := d.llm.GenerateEmbedding(ctx, chunk)
		if err != nil {
			d.log.Warn("failed to embed chunk", zap.String("doc_id", docID), zap.Int("chunk", i), zap.Error(err))
			lastErr = err
			continue
		}

		err = d.store.UpsertChunk(ctx, DocumentChunk{
			DocID:   docID,
			DocType: docType,
			Index:   i,
			Text:    chunk,
		}, embedding)
		if err != nil {
			d.log.Warn("failed to store chunk", zap.String("doc_id", docID), zap.Int("chunk", i), zap.Error(err))
			lastErr = err
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("failed to index document %s: %w", docID, lastErr)
	}

	d.log.Info("document indexed",
		zap.String("doc_id", docID),
		zap.Int("chunks", len(chunks)),
		zap.Int("stored", stored))
	return stored, nil
}

// RetrieveContext implements DocumentIndexer. Results are returned in the
// order they appear in the document.
func (d *documentIndexer) RetrieveContext(ctx context.Context, docID, query string, limit int) (string, error) {
	embedding, err := d.llm.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := d.store.SearchSimilar(ctx, embedding, ChunkFilter{DocID: docID}, limit)
	if err != nil {
		return "", err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	return FormatRAGContext(results), nil
}
