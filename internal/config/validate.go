package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// ExportFormats lists the accepted export.format values.
var ExportFormats = []string{"csv", "json", "markdown", "table", "xlsx"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWiki(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWiki() error {
	parsed, err := url.Parse(c.Wiki.APIURL)
	if err != nil {
		return fmt.Errorf("wiki.api_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("wiki.api_url must be an http(s) URL, got %q", c.Wiki.APIURL)
	}
	if c.Wiki.TimeoutSeconds <= 0 {
		return errors.New("wiki.timeout_seconds must be positive")
	}
	if c.Wiki.RetryAttempts < 0 {
		return errors.New("wiki.retry_attempts must be >= 0")
	}
	if c.Wiki.RetryBackoffMS < 0 {
		return errors.New("wiki.retry_backoff_ms must be >= 0")
	}
	if c.Wiki.RequestsPerSecond < 0 {
		return errors.New("wiki.requests_per_second must be >= 0 (0 disables rate limiting)")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.Path == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	if c.Cache.TTLHours <= 0 {
		return errors.New("cache.ttl_hours must be positive when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateExport() error {
	if !slices.Contains(ExportFormats, c.Export.Format) {
		return fmt.Errorf("export.format: unsupported value %q (want one of %v)", c.Export.Format, ExportFormats)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
