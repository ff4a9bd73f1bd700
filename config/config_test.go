package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that might affect the test
	envVars := []string{
		"STAGE", "EXAMWATCH_BASE_URL", "REQUEST_TIMEOUT",
		"POLL_INTERVAL", "PROBE_INTERVAL", "CLOCK_INTERVAL", "FEED_LIMIT", "FEED_CAPACITY",
		"EVENT_LOG_FILE", "EXPORT_DIR", "DISCORD_BOT_TOKEN", "TELEGRAM_BOT_KEY",
		"STATUS_SERVER_ENABLED", "STATUS_SERVER_PORT", "EXAMWATCH_DEBUG", "EXAMWATCH_LOG_FILE",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	if cfg.IsProd {
		t.Error("expected IsProd to be false by default")
	}
	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected base URL: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 5*time.Second {
		t.Errorf("unexpected request timeout: %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Monitor.PollInterval != 2*time.Second {
		t.Errorf("unexpected poll interval: %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.ProbeInterval != 10*time.Second {
		t.Errorf("unexpected probe interval: %v", cfg.Monitor.ProbeInterval)
	}
	if cfg.Monitor.ClockInterval != 1*time.Second {
		t.Errorf("unexpected clock interval: %v", cfg.Monitor.ClockInterval)
	}
	if cfg.Monitor.FeedLimit != 10 {
		t.Errorf("unexpected feed limit: %d", cfg.Monitor.FeedLimit)
	}
	if cfg.Monitor.FeedCapacity != 50 {
		t.Errorf("unexpected feed capacity: %d", cfg.Monitor.FeedCapacity)
	}
	if cfg.Summary.ExportDir != "." {
		t.Errorf("unexpected export dir: %s", cfg.Summary.ExportDir)
	}
	if cfg.StatusServer.Enabled {
		t.Error("expected status server disabled by default")
	}
	if cfg.Logging.File != "examwatch.log" {
		t.Errorf("unexpected log file: %s", cfg.Logging.File)
	}

	if result := cfg.Validate(); !result.Valid {
		t.Errorf("expected defaults to validate, got %+v", result.Errors)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STAGE", "PROD")
	t.Setenv("EXAMWATCH_BASE_URL", "https://proctor.example.com/")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("FEED_LIMIT", "5")
	t.Setenv("FEED_CAPACITY", "20")
	t.Setenv("EVENT_LOG_FILE", "/tmp/log.json")
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("STATUS_SERVER_ENABLED", "yes")
	t.Setenv("STATUS_SERVER_PORT", "9090")

	cfg := Load()

	if !cfg.IsProd {
		t.Error("expected IsProd")
	}
	if cfg.Backend.BaseURL != "https://proctor.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Monitor.PollInterval != 500*time.Millisecond {
		t.Errorf("unexpected poll interval: %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.FeedLimit != 5 || cfg.Monitor.FeedCapacity != 20 {
		t.Errorf("unexpected feed sizes: %d/%d", cfg.Monitor.FeedLimit, cfg.Monitor.FeedCapacity)
	}
	if cfg.Summary.EventLogFile != "/tmp/log.json" {
		t.Errorf("unexpected event log file: %s", cfg.Summary.EventLogFile)
	}
	if cfg.Discord.BotToken != "tok" {
		t.Errorf("unexpected discord token: %s", cfg.Discord.BotToken)
	}
	if !cfg.StatusServer.Enabled || cfg.StatusServer.Port != 9090 {
		t.Errorf("unexpected status server config: %+v", cfg.StatusServer)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.BaseURL = "localhost:5000"
	cfg.Monitor.PollInterval = 0
	cfg.Monitor.FeedLimit = 10
	cfg.Monitor.FeedCapacity = 5
	cfg.Monitor.NotifyPerMin = -1
	cfg.StatusServer.Port = 70000

	result := cfg.Validate()
	if result.Valid {
		t.Fatal("expected invalid config")
	}

	fields := make(map[string]bool)
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, f := range []string{"backend.base_url", "monitor.poll_interval", "monitor.feed_capacity", "monitor.notify_per_min", "status_server.port"} {
		if !fields[f] {
			t.Errorf("expected validation error for %s", f)
		}
	}

	err := cfg.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*ConfigValidationError); !ok {
		t.Errorf("expected *ConfigValidationError, got %T", err)
	}
}

func TestClone(t *testing.T) {
	cfg := Defaults()
	clone := cfg.Clone()
	clone.Backend.BaseURL = "http://other"

	if cfg.Backend.BaseURL == clone.Backend.BaseURL {
		t.Error("expected clone to be independent")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("expected nil clone of nil config")
	}
}

func TestEnvString(t *testing.T) {
	os.Setenv("TEST_STRING", "hello")
	defer os.Unsetenv("TEST_STRING")

	if v := envString("TEST_STRING", "default"); v != "hello" {
		t.Errorf("expected 'hello', got '%s'", v)
	}
	if v := envString("NONEXISTENT", "default"); v != "default" {
		t.Errorf("expected 'default', got '%s'", v)
	}

	// Test whitespace trimming
	os.Setenv("TEST_WHITESPACE", "  trimmed  ")
	defer os.Unsetenv("TEST_WHITESPACE")
	if v := envString("TEST_WHITESPACE", "default"); v != "trimmed" {
		t.Errorf("expected 'trimmed', got '%s'", v)
	}
}

func TestEnvInt(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")

	if v := envInt("TEST_INT", 0); v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	if v := envInt("NONEXISTENT", 100); v != 100 {
		t.Errorf("expected 100, got %d", v)
	}

	os.Setenv("TEST_INVALID_INT", "not-a-number")
	defer os.Unsetenv("TEST_INVALID_INT")
	if v := envInt("TEST_INVALID_INT", 50); v != 50 {
		t.Errorf("expected 50 for invalid int, got %d", v)
	}
}

func TestEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "5m30s")
	defer os.Unsetenv("TEST_DURATION")

	expected := 5*time.Minute + 30*time.Second
	if v := envDuration("TEST_DURATION", 0); v != expected {
		t.Errorf("expected %v, got %v", expected, v)
	}
	if v := envDuration("NONEXISTENT", 10*time.Second); v != 10*time.Second {
		t.Errorf("expected 10s, got %v", v)
	}

	os.Setenv("TEST_INVALID_DURATION", "not-a-duration")
	defer os.Unsetenv("TEST_INVALID_DURATION")
	if v := envDuration("TEST_INVALID_DURATION", 1*time.Minute); v != 1*time.Minute {
		t.Errorf("expected 1m for invalid duration, got %v", v)
	}
}

func TestEnvBool(t *testing.T) {
	os.Setenv("TEST_BOOL_TRUE", "PROD")
	os.Setenv("TEST_BOOL_CASE", "prod")
	defer func() {
		os.Unsetenv("TEST_BOOL_TRUE")
		os.Unsetenv("TEST_BOOL_CASE")
	}()

	if !envBool("TEST_BOOL_TRUE", "PROD") {
		t.Error("expected true for PROD")
	}
	if !envBool("TEST_BOOL_CASE", "PROD") {
		t.Error("expected true for case-insensitive match")
	}
	if envBool("NONEXISTENT", "PROD") {
		t.Error("expected false for nonexistent")
	}
}

func TestEnvBoolDefault(t *testing.T) {
	t.Setenv("TEST_BOOL_YES", "yes")
	t.Setenv("TEST_BOOL_NO", "no")

	if !envBoolDefault("TEST_BOOL_YES", false) {
		t.Error("expected true for yes")
	}
	if envBoolDefault("TEST_BOOL_NO", true) {
		t.Error("expected false for no")
	}
	if !envBoolDefault("NONEXISTENT", true) {
		t.Error("expected default for unset")
	}
}
