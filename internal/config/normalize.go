package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeExtractor(); err != nil {
		return err
	}
	c.normalizeAcousticBrainz()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeExtractor() error {
	c.Extractor.Path = strings.TrimSpace(c.Extractor.Path)
	if c.Extractor.Path == "" {
		if value, ok := os.LookupEnv(ExtractorEnv); ok {
			c.Extractor.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Extractor.Path, err = expandPath(c.Extractor.Path); err != nil {
		return fmt.Errorf("extractor.path: %w", err)
	}
	if c.Extractor.TempDir, err = expandPath(strings.TrimSpace(c.Extractor.TempDir)); err != nil {
		return fmt.Errorf("extractor.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcousticBrainz() {
	c.AcousticBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.AcousticBrainz.BaseURL), "/")
	if c.AcousticBrainz.BaseURL == "" {
		c.AcousticBrainz.BaseURL = defaultAcousticBrainzBaseURL
	}
	c.AcousticBrainz.UserAgent = strings.TrimSpace(c.AcousticBrainz.UserAgent)
	if c.AcousticBrainz.UserAgent == "" {
		c.AcousticBrainz.UserAgent = defaultUserAgent
	}
	if c.AcousticBrainz.RequestTimeout == 0 {
		c.AcousticBrainz.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = defaultLibraryDB
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.LibraryDB, err = expandPath(strings.TrimSpace(c.Paths.LibraryDB)); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
