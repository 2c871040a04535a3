package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// WebSocket timeouts for dashboard clients
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64

	// Telephony fabric
	FabricURL            string
	FabricCommandTimeout time.Duration

	// Queue health scoring
	SLAThresholdSecs    int
	WarnWaitingCount    int
	CritWaitingCount    int
	WarnLongestWaitSecs int
	CritLongestWaitSecs int
	TrendMarginPct      int
	TrendSampleWindow   time.Duration

	// Attention flagging
	AttentionSentiment    float64
	AttentionDurationSecs int

	// Housekeeping and fan-out
	RetentionMinutes  int
	BroadcastInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FabricURL:      getEnv("FABRIC_URL", "http://localhost:9090"),
	}

	// Parse WebSocket timeouts
	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	commandTimeout, err := strconv.Atoi(getEnv("FABRIC_COMMAND_TIMEOUT", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid FABRIC_COMMAND_TIMEOUT: %w", err)
	}
	config.FabricCommandTimeout = time.Duration(commandTimeout) * time.Second

	if config.SLAThresholdSecs, err = getEnvInt("SLA_THRESHOLD_SECS", 180); err != nil {
		return nil, err
	}
	if config.WarnWaitingCount, err = getEnvInt("QUEUE_WARN_WAITING", 5); err != nil {
		return nil, err
	}
	if config.CritWaitingCount, err = getEnvInt("QUEUE_CRIT_WAITING", 10); err != nil {
		return nil, err
	}
	if config.WarnLongestWaitSecs, err = getEnvInt("QUEUE_WARN_LONGEST_SECS", 120); err != nil {
		return nil, err
	}
	if config.CritLongestWaitSecs, err = getEnvInt("QUEUE_CRIT_LONGEST_SECS", 300); err != nil {
		return nil, err
	}
	if config.TrendMarginPct, err = getEnvInt("QUEUE_TREND_MARGIN_PCT", 5); err != nil {
		return nil, err
	}

	trendWindow, err := getEnvInt("QUEUE_TREND_WINDOW_SECS", 30)
	if err != nil {
		return nil, err
	}
	config.TrendSampleWindow = time.Duration(trendWindow) * time.Second

	attentionSentiment, err := strconv.ParseFloat(getEnv("ATTENTION_SENTIMENT", "-0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENTION_SENTIMENT: %w", err)
	}
	config.AttentionSentiment = attentionSentiment

	if config.AttentionDurationSecs, err = getEnvInt("ATTENTION_DURATION_SECS", 600); err != nil {
		return nil, err
	}
	if config.RetentionMinutes, err = getEnvInt("RETENTION_MINUTES", 60); err != nil {
		return nil, err
	}

	broadcastMillis, err := getEnvInt("BROADCAST_INTERVAL_MS", 1000)
	if err != nil {
		return nil, err
	}
	config.BroadcastInterval = time.Duration(broadcastMillis) * time.Millisecond

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
