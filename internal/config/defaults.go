package config

const (
	defaultConfigPath        = "~/.config/wikiepisodes/config.toml"
	defaultOutputDir         = "."
	defaultLogDir            = "~/.local/share/wikiepisodes/logs"
	defaultAPIURL            = "https://en.wikipedia.org/w/api.php"
	defaultUserAgent         = "wikiepisodes/dev (https://github.com/wikiepisodes/wikiepisodes)"
	defaultTimeoutSeconds    = 20
	defaultRetryAttempts     = 2
	defaultRetryBackoffMS    = 500
	defaultRequestsPerSecond = 5
	defaultCacheTTLHours     = 24
	defaultExportFormat      = "csv"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Wiki: Wiki{
			APIURL:            defaultAPIURL,
			UserAgent:         defaultUserAgent,
			TimeoutSeconds:    defaultTimeoutSeconds,
			RetryAttempts:     defaultRetryAttempts,
			RetryBackoffMS:    defaultRetryBackoffMS,
			RequestsPerSecond: defaultRequestsPerSecond,
			FollowRedirects:   true,
		},
		Cache: Cache{
			Enabled:  true,
			Path:     defaultCachePath(),
			TTLHours: defaultCacheTTLHours,
		},
		Export: Export{
			Format: defaultExportFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
