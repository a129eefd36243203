package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Environment    string
	BackendBaseURL string
	BackendToken   string
	RedisURL       string
	Events         EventConfig
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; env vars may come from the environment itself.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		BackendBaseURL: getEnv("LMS_BACKEND_URL", "http://localhost:5000"),
		BackendToken:   getEnv("LMS_BACKEND_TOKEN", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		Events: EventConfig{
			KafkaEnabled:    getEnv("KAFKA_ENABLED", "false") == "true",
			KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
			SubmissionTopic: getEnv("SUBMISSION_TOPIC", "assignment-submissions"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
