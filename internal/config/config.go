package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Qdrant       QdrantConfig
	LLM          LLMConfig
	Storage      StorageConfig
	Worker       WorkerConfig
	Resume       ResumeConfig
	Auth         AuthConfig
	Interviewers InterviewersConfig

	// EnvFileLoaded reports whether a .env file was found on Load.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DraftTTL time.Duration
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type LLMConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	// MaxContextChars is the document length above which the question
	// generator retrieves chunks instead of sending the whole text.
	MaxContextChars int
}

type StorageConfig struct {
	Backend     string
	UploadPath  string
	MaxFileSize int64
	S3Bucket    string
	S3Region    string
	S3Prefix    string
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	PollInterval      time.Duration
}

type ResumeConfig struct {
	DownloadURLTemplate string
	DownloadTimeout     time.Duration
	MaxResumeSize       int64
}

type AuthConfig struct {
	JWTSecret string
}

type InterviewersConfig struct {
	FilePath string
}

func Load() *Config {
	envLoaded := godotenv.Load() == nil

	return &Config{
		EnvFileLoaded: envLoaded,
		Server: ServerConfig{
			Port:     getEnv("PORT", "3000"),
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_builder"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			DraftTTL: getEnvAsDuration("DRAFT_TTL", "2h"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_documents"),
		},
		LLM: LLMConfig{
			Provider:        getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxContextChars: getEnvAsInt("MAX_CONTEXT_CHARS", 12000),
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", "local"),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Region:    getEnv("AWS_REGION", "us-east-1"),
			S3Prefix:    getEnv("S3_PREFIX", "uploads"),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 2),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
			PollInterval:      getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		Resume: ResumeConfig{
			DownloadURLTemplate: getEnv("RESUME_DOWNLOAD_URL", "https://drive.google.com/uc?id=%s&export=download"),
			DownloadTimeout:     getEnvAsDuration("RESUME_DOWNLOAD_TIMEOUT", "30s"),
			MaxResumeSize:       getEnvAsInt64("MAX_RESUME_SIZE", 20971520),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Interviewers: InterviewersConfig{
			FilePath: getEnv("INTERVIEWERS_FILE", "./config/interviewers.yaml"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
