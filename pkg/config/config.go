package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	GoogleProject     string
	StorageBucket     string
	CredentialsPath   string
	PineconeApiKey    string
	PineconeIndexHost string
	HfApiKey          string
	HfClassifierURL   string
	HfEmbeddingURL    string
	Environment       string
	HeartbeatInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GoogleProject:     getEnv("GOOGLE_CLOUD_PROJECT", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", ""),
		CredentialsPath:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		PineconeApiKey:    getEnv("PINECONE_API_KEY", ""),
		PineconeIndexHost: getEnv("PINECONE_INDEX_HOST", ""),
		HfApiKey:          getEnv("HF_API_KEY", ""),
		HfClassifierURL:   getEnv("HF_CLASSIFIER_URL", "https://api-inference.huggingface.co/models/google/vit-base-patch16-224"),
		HfEmbeddingURL:    getEnv("HF_EMBEDDING_URL", "https://api-inference.huggingface.co/models/sentence-transformers/all-MiniLM-L6-v2"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		HeartbeatInterval: time.Duration(getEnvAsInt64("HEARTBEAT_INTERVAL_SECONDS", 30)) * time.Second,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
