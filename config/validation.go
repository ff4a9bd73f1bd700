package config

import (
	"fmt"
	"net/url"
	"time"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of config validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ConfigValidationError is returned when config validation fails.
type ConfigValidationError struct {
	Errors []ValidationError
}

func (e *ConfigValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "config validation failed"
	}
	return "config validation failed: " + e.Errors[0].Field + ": " + e.Errors[0].Message
}

// Validate checks the config for invalid values.
func (c *Config) Validate() ValidationResult {
	var errors []ValidationError

	errors = append(errors, validateBackend(&c.Backend)...)
	errors = append(errors, validateMonitor(&c.Monitor)...)
	errors = append(errors, validateStatusServer(&c.StatusServer)...)

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// Err returns a *ConfigValidationError when the config is invalid, nil otherwise.
func (c *Config) Err() error {
	result := c.Validate()
	if result.Valid {
		return nil
	}
	return &ConfigValidationError{Errors: result.Errors}
}

func validateBackend(b *BackendConfig) []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(b.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errors = append(errors, ValidationError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", b.BaseURL),
		})
	}

	if b.RequestTimeout < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "backend.request_timeout",
			Message: "must be at least 100ms",
		})
	}

	return errors
}

func validateMonitor(m *MonitorConfig) []ValidationError {
	var errors []ValidationError

	if m.PollInterval < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "monitor.poll_interval",
			Message: "must be at least 100ms",
		})
	}

	if m.ProbeInterval < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "monitor.probe_interval",
			Message: "must be at least 1 second",
		})
	}

	if m.ClockInterval < 100*time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "monitor.clock_interval",
			Message: "must be at least 100ms",
		})
	}

	if m.FeedLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "monitor.feed_limit",
			Message: "must be at least 1",
		})
	}

	if m.FeedCapacity < m.FeedLimit {
		errors = append(errors, ValidationError{
			Field:   "monitor.feed_capacity",
			Message: fmt.Sprintf("must be at least feed_limit (%d)", m.FeedLimit),
		})
	}

	if m.NotifyPerMin < 0 {
		errors = append(errors, ValidationError{
			Field:   "monitor.notify_per_min",
			Message: "must not be negative",
		})
	}

	return errors
}

func validateStatusServer(s *StatusServerConfig) []ValidationError {
	var errors []ValidationError

	if s.Port < 1 || s.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "status_server.port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", s.Port),
		})
	}

	return errors
}
