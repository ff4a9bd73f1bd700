package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	IsProd bool `json:"is_prod"`

	// Detection backend
	Backend BackendConfig `json:"backend"`

	// Live monitoring view
	Monitor MonitorConfig `json:"monitor"`

	// Summary view and exports
	Summary SummaryConfig `json:"summary"`

	// Discord
	Discord DiscordConfig `json:"discord"`

	// Telegram
	Telegram TelegramConfig `json:"telegram"`

	// Status server
	StatusServer StatusServerConfig `json:"status_server"`

	// Logging
	Logging LoggingConfig `json:"logging"`
}

// BackendConfig holds detection backend configuration.
type BackendConfig struct {
	BaseURL        string        `json:"base_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// MonitorConfig holds live monitoring configuration.
type MonitorConfig struct {
	PollInterval  time.Duration `json:"poll_interval"`  // Alert poll cadence
	ProbeInterval time.Duration `json:"probe_interval"` // Connectivity probe cadence
	ClockInterval time.Duration `json:"clock_interval"` // Wall clock and session duration tick
	FeedLimit     int           `json:"feed_limit"`     // Alerts kept from each poll payload
	FeedCapacity  int           `json:"feed_capacity"`  // Hard cap on rendered feed entries
	Notify        bool          `json:"notify"`         // Forward new alerts to chat notifiers
	NotifyPerMin  int           `json:"notify_per_min"` // Notification rate cap, 0 for unlimited
	NotifyBurst   int           `json:"notify_burst"`   // Notifications allowed back to back
}

// SummaryConfig holds summary view configuration.
type SummaryConfig struct {
	EventLogFile string `json:"event_log_file"`
	ExportDir    string `json:"export_dir"`
}

// DiscordConfig holds Discord-related configuration.
type DiscordConfig struct {
	BotToken      string `json:"-"` // Excluded - env var only
	ProdChannelID string `json:"prod_channel_id"`
	BetaChannelID string `json:"beta_channel_id"`
}

// TelegramConfig holds Telegram-related configuration.
type TelegramConfig struct {
	BotToken   string `json:"-"` // Excluded - env var only
	ProdChatID string `json:"prod_chat_id"`
	BetaChatID string `json:"beta_chat_id"`
}

// StatusServerConfig holds status server configuration.
type StatusServerConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Debug bool   `json:"debug"`
	File  string `json:"file"` // The TUI owns stdout, so logs go here
}

// Clone creates a copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ToJSON serializes the config to JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Defaults returns a config with hardcoded default values.
func Defaults() *Config {
	return &Config{
		IsProd: false,
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			RequestTimeout: 5 * time.Second,
		},
		Monitor: MonitorConfig{
			PollInterval:  2 * time.Second,
			ProbeInterval: 10 * time.Second,
			ClockInterval: 1 * time.Second,
			FeedLimit:     10,
			FeedCapacity:  50,
			Notify:        true,
			NotifyPerMin:  30,
			NotifyBurst:   5,
		},
		Summary: SummaryConfig{
			ExportDir: ".",
		},
		StatusServer: StatusServerConfig{
			Enabled: false,
			Port:    8080,
		},
		Logging: LoggingConfig{
			File: "examwatch.log",
		},
	}
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		IsProd: envBool("STAGE", "PROD"),

		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(envString("EXAMWATCH_BASE_URL", "http://localhost:5000"), "/"),
			RequestTimeout: envDuration("REQUEST_TIMEOUT", 5*time.Second),
		},

		Monitor: MonitorConfig{
			PollInterval:  envDuration("POLL_INTERVAL", 2*time.Second),
			ProbeInterval: envDuration("PROBE_INTERVAL", 10*time.Second),
			ClockInterval: envDuration("CLOCK_INTERVAL", 1*time.Second),
			FeedLimit:     envInt("FEED_LIMIT", 10),
			FeedCapacity:  envInt("FEED_CAPACITY", 50),
			Notify:        envBoolDefault("NOTIFY_NEW_ALERTS", true),
			NotifyPerMin:  envInt("NOTIFY_PER_MINUTE", 30),
			NotifyBurst:   envInt("NOTIFY_BURST", 5),
		},

		Summary: SummaryConfig{
			EventLogFile: envString("EVENT_LOG_FILE", ""),
			ExportDir:    envString("EXPORT_DIR", "."),
		},

		Discord: DiscordConfig{
			BotToken:      envString("DISCORD_BOT_TOKEN", ""),
			ProdChannelID: envString("DISCORD_PROD_CHANNEL_ID", ""),
			BetaChannelID: envString("DISCORD_BETA_CHANNEL_ID", ""),
		},

		Telegram: TelegramConfig{
			BotToken:   envString("TELEGRAM_BOT_KEY", ""),
			ProdChatID: envString("TELEGRAM_PROD_CHAT_ID", ""),
			BetaChatID: envString("TELEGRAM_BETA_CHAT_ID", ""),
		},

		StatusServer: StatusServerConfig{
			Enabled: envBoolDefault("STATUS_SERVER_ENABLED", false),
			Port:    envInt("STATUS_SERVER_PORT", 8080),
		},

		Logging: LoggingConfig{
			Debug: envBoolDefault("EXAMWATCH_DEBUG", false),
			File:  envString("EXAMWATCH_LOG_FILE", "examwatch.log"),
		},
	}
}

// Helper functions for parsing environment variables

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key, trueValue string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), trueValue)
}

func envBoolDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1") || strings.EqualFold(v, "yes")
}
