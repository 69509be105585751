package config

import (
	"os"
	"strconv"
	"strings"

	"arbitrage-scanner/internal/domain"

	"github.com/charmbracelet/log"
)

type Config struct {
	APIBaseURL         string
	RequestTimeoutSecs int
	APIRateLimitPerMin int

	AutoRefreshSecs    int
	AutoRefreshEnabled bool

	HTTPAddr string

	TelegramBotToken string
	TelegramTopLimit int

	SSHPort        int
	SSHHostKeyPath string

	MCPTransport string
	MCPHTTPBind  string
	MCPHTTPPort  int

	LogLevel       log.Level
	TracingEnabled bool
}

func Load() *Config {
	cfg := &Config{
		APIBaseURL:       strings.TrimRight(strings.TrimSpace(os.Getenv("ARBITRAGE_API_URL")), "/"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.APIBaseURL == "" {
		log.Warn("Warning: ARBITRAGE_API_URL not set, defaulting to http://localhost:8000")
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.TelegramBotToken == "" {
		log.Warn("Warning: TELEGRAM_BOT_TOKEN not set")
	}

	cfg.RequestTimeoutSecs = positiveInt("REQUEST_TIMEOUT_SECS", 10)
	cfg.APIRateLimitPerMin = positiveInt("API_RATE_LIMIT_PER_MIN", 30)

	cfg.AutoRefreshSecs = domain.DefaultAutoRefreshSecs
	if v := strings.TrimSpace(os.Getenv("AUTOREFRESH_SECS")); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && domain.IsAutoRefreshOption(n) {
			cfg.AutoRefreshSecs = n
		} else {
			log.Warn("Warning: unsupported AUTOREFRESH_SECS, using default", "value", v, "allowed", domain.AutoRefreshOptions)
		}
	}

	cfg.AutoRefreshEnabled = true
	if v := strings.TrimSpace(os.Getenv("AUTOREFRESH_ENABLED")); v != "" {
		cfg.AutoRefreshEnabled = !strings.EqualFold(v, "false")
	}

	cfg.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.TelegramTopLimit = positiveInt("TELEGRAM_TOP_LIMIT", 5)

	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/arbscan_ed25519"
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn("Warning: unsupported MCP_TRANSPORT, defaulting to stdio", "value", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}
	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)

	cfg.LogLevel = log.InfoLevel
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if lvl, err := log.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		} else {
			log.Warn("Warning: unsupported LOG_LEVEL, defaulting to info", "value", v)
		}
	}

	cfg.TracingEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "true")

	return cfg
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn("Warning: "+key+" must be a positive integer, using default", "value", v, "default", def)
		return def
	}
	return n
}
