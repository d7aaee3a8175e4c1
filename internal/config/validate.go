package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validateAcousticBrainz(); err != nil {
		return err
	}
	if err := c.validateSubmit(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtractor() error {
	if c.Extractor.TimeoutSeconds < 0 {
		return errors.New("extractor.timeout_seconds must be zero (no limit) or positive")
	}
	return nil
}

func (c *Config) validateAcousticBrainz() error {
	parsed, err := url.Parse(c.AcousticBrainz.BaseURL)
	if err != nil {
		return fmt.Errorf("acousticbrainz.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("acousticbrainz.base_url must use http or https, got %q", c.AcousticBrainz.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("acousticbrainz.base_url must include a host, got %q", c.AcousticBrainz.BaseURL)
	}
	if c.AcousticBrainz.RequestTimeout < 0 {
		return errors.New("acousticbrainz.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSubmit() error {
	if c.Submit.Workers < 1 {
		return errors.New("submit.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
