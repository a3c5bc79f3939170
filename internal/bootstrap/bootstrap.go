// Package bootstrap builds the infrastructure clients shared by the API
// server and the interviewctl CLI from configuration.
package bootstrap

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/config"
	"alfredoptarigan/interview-builder/internal/services"
)

// NewStorage returns the upload storage selected by STORAGE_BACKEND.
func NewStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.StorageService, error) {
	var storage services.StorageService

	switch cfg.Storage.Backend {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		storage = services.NewS3StorageService(s3.NewFromConfig(awsCfg), cfg.Storage.S3Bucket, cfg.Storage.S3Prefix)
	case "local", "":
		storage = services.NewStorageService(cfg.Storage.UploadPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if err := storage.EnsureUploadDir(); err != nil {
		return nil, err
	}

	log.Info("storage initialized", zap.String("backend", cfg.Storage.Backend))
	return storage, nil
}

// NewLLM returns the configured language model provider.
func NewLLM(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.LLMService, error) {
	llm, err := services.NewLLMService(ctx,
		cfg.LLM.Provider,
		cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel,
		cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel,
		log)
	if err != nil {
		return nil, err
	}

	log.Info("llm initialized", zap.String("provider", cfg.LLM.Provider))
	return llm, nil
}

// NewVectorStore connects to Qdrant and makes sure the collection exists. It
// returns nil without error when no Qdrant URL is configured.
func NewVectorStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.VectorStore, error) {
	if cfg.Qdrant.URL == "" {
		log.Info("qdrant not configured, document retrieval disabled")
		return nil, nil
	}

	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return nil, err
	}

	if err := store.InitCollection(ctx); err != nil {
		return nil, err
	}

	log.Info("qdrant initialized", zap.String("collection", cfg.Qdrant.Collection))
	return store, nil
}

// NewDraftStore returns a Redis backed draft store, or an in-memory one when
// REDIS_ADDR is empty. The returned close function is always non-nil.
func NewDraftStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.DraftStore, func() error, error) {
	if cfg.Redis.Addr == "" {
		log.Info("redis not configured, drafts kept in memory")
		return services.NewMemoryDraftStore(cfg.Redis.DraftTTL), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return services.NewRedisDraftStore(client, cfg.Redis.DraftTTL), client.Close, nil
}

// NewResumeProcessor wires the Drive fetcher to the PDF parser.
func NewResumeProcessor(cfg *config.Config, parser services.PDFParserService, log *zap.Logger) services.ResumeProcessor {
	fetcher := services.NewDriveResumeFetcher(
		cfg.Resume.DownloadURLTemplate,
		cfg.Resume.DownloadTimeout,
		cfg.Resume.MaxResumeSize,
	)
	return services.NewResumeProcessor(fetcher, parser, log)
}
