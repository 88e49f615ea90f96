package config

import "time"

// AIConfig drives the recruitment assistant. The assistant is disabled when
// no API key is configured.
type AIConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	Temperature   float64

	MaxHistory        int
	ConversationTTL   time.Duration
	MaxToolIterations int
	MemoryBackend     string // "redis" or "memory"
}

func (c AIConfig) Enabled() bool {
	return c.OpenAIAPIKey != ""
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		Model:             getEnv("AI_MODEL", "gpt-4o-mini"),
		Temperature:       getEnvFloat("AI_TEMPERATURE", 0.2),
		MaxHistory:        getEnvInt("AI_MAX_HISTORY", 30),
		ConversationTTL:   getEnvDuration("AI_CONVERSATION_TTL", 24*time.Hour),
		MaxToolIterations: getEnvInt("AI_MAX_TOOL_ITERATIONS", 4),
		MemoryBackend:     getEnv("AI_MEMORY_BACKEND", "redis"),
	}
}
