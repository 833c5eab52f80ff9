package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	SourceKind   string // "fs" or "s3"
	DocsPath     string
	CachePath    string
	Collection   string
	Extensions   []string
	BatchSize    int
	ChunkSize    int
	ChunkOverlap int

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	BucketPrefix string

	AIAPIKey   string
	EmbedModel string

	Port      string
	JWTSecret string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		SourceKind:   getEnv("SOURCE_KIND", "fs"),
		DocsPath:     getEnv("DOCS_PATH", "./docs"),
		CachePath:    getEnv("CACHE_PATH", "./cache"),
		Collection:   getEnv("COLLECTION_NAME", "docs"),
		Extensions:   getEnvList("FILE_EXTENSIONS", []string{".pdf", ".txt", ".md", ".html", ".docx"}),
		BatchSize:    getEnvInt("BATCH_SIZE", 16),
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 150),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),
		BucketPrefix: getEnv("BUCKET_PREFIX", ""),

		AIAPIKey:   getEnv("GEMINI_API_KEY", ""),
		EmbedModel: getEnv("EMBED_MODEL", "text-embedding-004"),

		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", ""),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
