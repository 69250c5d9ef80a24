package config

import (
	"errors"
	"os"
)

// Config holds runtime configuration.
type Config struct {
	Port           string
	DBDSN          string
	OpenAIAPIKey   string
	ChatModel      string
	TTSModel       string
	TTSVoice       string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
	LogFile        string
}

// Load parses environment variables into Config and validates required values.
// Provider credentials are optional: without them the server runs against the
// stub clients and the in-memory object store.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		TTSModel:       getEnv("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),
		TTSVoice:       getEnv("OPENAI_TTS_VOICE", "alloy"),
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_SERVICE_ROLE"),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "phrases"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	if cfg.DBDSN == "" {
		return Config{}, errors.New("DB_DSN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
