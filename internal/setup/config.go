package setup

import (
	"os"
	"strconv"
)

type Config struct {
	LogLevel  string
	LogPretty bool
	APIPort   string
	Workers   int

	// Model ids default to the provider's model when empty.
	JudgeProvider      string
	JudgeModelID       string
	StructuredProvider string
	StructuredModelID  string

	AWSRegion     string
	ClaudeModelID string

	OpenAIKey     string
	OpenAIModelID string
	OpenAIBaseURL string

	OllamaHost       string
	EmbeddingModelID string
	// SimilarityBackend overrides the backend of the grader config when set.
	SimilarityBackend string

	RedisAddr     string
	RedisPassword string
}

func LoadConfig() *Config {
	return &Config{
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvBool("LOG_PRETTY", false),
		APIPort:            getEnv("GRADER_API_PORT", "18081"),
		Workers:            getEnvInt("EVAL_WORKERS", 4),
		JudgeProvider:      getEnv("JUDGE_PROVIDER", "ollama"),
		JudgeModelID:       getEnv("JUDGE_MODEL_ID", ""),
		StructuredProvider: getEnv("STRUCTURED_PROVIDER", "openai"),
		StructuredModelID:  getEnv("STRUCTURED_MODEL_ID", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:      getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:          getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:      getEnv("OPEN_AI_MODEL_ID", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPEN_AI_BASE_URL", ""),
		OllamaHost:         getEnv("OLLAMA_HOST", ""),
		EmbeddingModelID:   getEnv("EMBEDDING_MODEL_ID", ""),
		SimilarityBackend:  getEnv("SIMILARITY_BACKEND", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
