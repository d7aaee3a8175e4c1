package config

const (
	defaultConfigPath            = "~/.config/absubmit/config.toml"
	defaultAcousticBrainzBaseURL = "https://acousticbrainz.org/api/v1"
	defaultRequestTimeout        = 30
	defaultUserAgent             = "absubmit/dev"
	defaultWorkers               = 1
	defaultLibraryDB             = "~/.local/share/absubmit/library.db"
	defaultLogDir                = "~/.local/share/absubmit/logs"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	// ExtractorEnv overrides extractor.path when the config leaves it empty.
	ExtractorEnv = "ABSUBMIT_EXTRACTOR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		AcousticBrainz: AcousticBrainz{
			BaseURL:        defaultAcousticBrainzBaseURL,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Submit: Submit{
			Workers: defaultWorkers,
		},
		Paths: Paths{
			LibraryDB: defaultLibraryDB,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
