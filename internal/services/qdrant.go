package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// VectorStore holds embedded document chunks.
type VectorStore interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk DocumentChunk, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, filter ChunkFilter, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, docID string) error
}

type DocumentChunk struct {
	DocID   string
	DocType string
	Index   int
	Text    string
}

// ChunkFilter narrows a search to one document and/or one document type.
type ChunkFilter struct {
	DocID   string
	DocType string
}

type SearchResult struct {
	ID      string
	Score   float32
	Text    string
	DocType string
	Index   int
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, log *zap.Logger) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port unless the URL names one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     EmbeddingDimensions,
		log:            log,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Debug("qdrant collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// chunkPointID is stable per (document, chunk) so re-indexing overwrites.
func chunkPointID(docID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", docID, index))).String()
}

// UpsertChunk implements VectorStore.
func (q *qdrantService) UpsertChunk(ctx context.Context, chunk DocumentChunk, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(chunkPointID(chunk.DocID, chunk.Index)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"doc_id":   chunk.DocID,
			"doc_type": chunk.DocType,
			"chunk":    chunk.Index,
			"text":     chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements VectorStore.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, filter ChunkFilter, limit int) ([]SearchResult, error) {
	var conditions []*qdrant.Condition
	if filter.DocID != "" {
		conditions = append(conditions, qdrant.NewMatch("doc_id", filter.DocID))
	}
	if filter.DocType != "" {
		conditions = append(conditions, qdrant.NewMatch("doc_type", filter.DocType))
	}

	var qfilter *qdrant.Filter
	if len(conditions) > 0 {
		qfilter = &qdrant.Filter{Must: conditions}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         qfilter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, SearchResult{
			ID:      payload["doc_id"].GetStringValue(),
			Score:   point.Score,
			Text:    payload["text"].GetStringValue(),
			DocType: payload["doc_type"].GetStringValue(),
			Index:   int(payload["chunk"].GetIntegerValue()),
		})
	}

	return results, nil
}

// DeleteDocument implements VectorStore.
func (q *qdrantService) DeleteDocument(ctx context.Context, docID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("doc_id", docID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
