package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Helpdesk HelpdeskConfig
	Search   SearchConfig
	Ticket   TicketConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// HelpdeskConfig holds the upstream ticketing vendor connection values.
// BaseURL overrides the subdomain-derived endpoint, which keeps the client
// testable against a local fake server.
type HelpdeskConfig struct {
	Subdomain         string
	ServiceEmail      string
	APIToken          string
	BaseURL           string
	WebhookToken      string
	ChatbotTag        string
	DescriptionMarker string
	TimeoutSeconds    int
}

// SearchConfig holds knowledge-base search settings. An empty FederatedURL
// disables federated mode; help-center search stays available regardless.
type SearchConfig struct {
	FederatedURL   string
	FederatedKey   string
	DefaultLocale  string
	DefaultPerPage int
	TimeoutSeconds int
}

// TicketConfig controls the ticket creation workflow defaults.
type TicketConfig struct {
	ChannelTag          string
	SearchEnabled       bool
	SkipTicketIfResults bool
	CommentFallbacks    []string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	subdomain := os.Getenv("HELPDESK_SUBDOMAIN")
	baseURL := os.Getenv("HELPDESK_BASE_URL")
	if subdomain == "" && baseURL == "" {
		return nil, fmt.Errorf("HELPDESK_SUBDOMAIN or HELPDESK_BASE_URL is required")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-bridge"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Helpdesk: HelpdeskConfig{
			Subdomain:         subdomain,
			ServiceEmail:      os.Getenv("HELPDESK_EMAIL"),
			APIToken:          os.Getenv("HELPDESK_API_TOKEN"),
			BaseURL:           baseURL,
			WebhookToken:      os.Getenv("HELPDESK_WEBHOOK_TOKEN"),
			ChatbotTag:        getEnv("HELPDESK_CHATBOT_TAG", "chatbot"),
			DescriptionMarker: getEnv("HELPDESK_DESCRIPTION_MARKER", "via chat widget"),
			TimeoutSeconds:    getEnvAsInt("HELPDESK_TIMEOUT_SECONDS", 8),
		},
		Search: SearchConfig{
			FederatedURL:   os.Getenv("FEDERATED_SEARCH_URL"),
			FederatedKey:   os.Getenv("FEDERATED_SEARCH_KEY"),
			DefaultLocale:  getEnv("SEARCH_DEFAULT_LOCALE", "en-us"),
			DefaultPerPage: getEnvAsInt("SEARCH_DEFAULT_PER_PAGE", 5),
			TimeoutSeconds: getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 5),
		},
		Ticket: TicketConfig{
			ChannelTag:          getEnv("TICKET_CHANNEL_TAG", "chat"),
			SearchEnabled:       getEnvAsBool("TICKET_SEARCH_ENABLED", true),
			SkipTicketIfResults: getEnvAsBool("TICKET_SKIP_IF_RESULTS", false),
			CommentFallbacks:    getEnvAsList("COMMENT_FALLBACK_ORDER", []string{"ticket_update", "request_update"}),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ResolveBaseURL returns the API root, preferring the explicit override.
func (h HelpdeskConfig) ResolveBaseURL() string {
	if h.BaseURL != "" {
		return strings.TrimRight(h.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.zendesk.com/api/v2", h.Subdomain)
}

// Timeout returns the per-call upstream timeout.
func (h HelpdeskConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// FederatedEnabled reports whether the unified search API is configured.
func (s SearchConfig) FederatedEnabled() bool {
	return s.FederatedURL != ""
}

// Timeout returns the per-call search timeout.
func (s SearchConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
