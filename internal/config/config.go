package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// parse pipeline
	ConfidenceThreshold int // below this the AI fallback is consulted

	// AI fallback provider (optional; empty key disables the strategy)
	AIAPIKey       string
	AIBaseURL      string
	AIFastModel    string
	AIPreciseModel string
	AITimeout      time.Duration
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	threshold, _ := strconv.Atoi(getenv("CONFIDENCE_THRESHOLD", "80"))
	timeoutSec, _ := strconv.Atoi(getenv("AI_TIMEOUT_SECONDS", "30"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/fitment-service.log"),

		ConfidenceThreshold: threshold,

		AIAPIKey:       os.Getenv("AI_API_KEY"),
		AIBaseURL:      getenv("AI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
		AIFastModel:    getenv("AI_FAST_MODEL", "gpt-4o-mini"),
		AIPreciseModel: getenv("AI_PRECISE_MODEL", "gpt-4o"),
		AITimeout:      time.Duration(timeoutSec) * time.Second,
	}
}

// AIEnabled reports whether the AI fallback strategy is configured.
func (c Config) AIEnabled() bool { return c.AIAPIKey != "" }

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
