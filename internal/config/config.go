package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is everything cmd/api reads from the environment, resolved once at
// startup. Components receive values from here; none of them read env vars
// themselves.
type Config struct {
	Port      string
	UploadDir string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	GenModel        string
	TranscribeModel string

	GenTimeout   time.Duration
	MediaTimeout time.Duration

	LessonContentCap int
	MaxUploadMB      int64
	SegmentSeconds   int

	UseMockLLM        bool
	UseMockTranscribe bool
}

// FromEnv builds the config with defaults for everything optional. godotenv
// has already run by the time this is called.
func FromEnv() Config {
	return Config{
		Port:      envOr("PORT", "8080"),
		UploadDir: envOr("UPLOAD_DIR", "uploads"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		GenModel:        envOr("GEN_MODEL", "gpt-4o-mini"),
		TranscribeModel: envOr("TRANSCRIBE_MODEL", "whisper-1"),

		GenTimeout:   envDurationOr("GEN_TIMEOUT_SEC", 60*time.Second),
		MediaTimeout: envDurationOr("MEDIA_TIMEOUT_SEC", 120*time.Second),

		LessonContentCap: envIntOr("LESSON_CONTENT_CAP", 800),
		MaxUploadMB:      int64(envIntOr("MAX_UPLOAD_MB", 200)),
		SegmentSeconds:   envIntOr("SEGMENT_SECONDS", 600),

		UseMockLLM:        os.Getenv("USE_MOCK_LLM") == "true",
		UseMockTranscribe: os.Getenv("USE_MOCK_TRANSCRIBE") == "true",
	}
}

// Validate catches startup misconfiguration before the server binds. A
// missing API key is allowed when both mock modes are on.
func (c Config) Validate() error {
	if c.LessonContentCap <= 0 {
		return fmt.Errorf("LESSON_CONTENT_CAP must be positive, got %d", c.LessonContentCap)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.SegmentSeconds <= 0 {
		return fmt.Errorf("SEGMENT_SECONDS must be positive, got %d", c.SegmentSeconds)
	}
	if c.OpenAIAPIKey == "" && !(c.UseMockLLM && c.UseMockTranscribe) {
		return fmt.Errorf("OPENAI_API_KEY not set and mock modes are off")
	}
	return nil
}

// GenerationReady reports whether real generation calls can be issued, for
// the health endpoint's degraded state.
func (c Config) GenerationReady() bool {
	return c.UseMockLLM || c.OpenAIAPIKey != ""
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envIntOr(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDurationOr(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
