package config

// Config holds runtime configuration for the server.
type Config struct {
	Port          string
	PollInterval  Duration
	CacheTTL      Duration
	SourceTimeout Duration
	Sources       []string
	Clist         ClistConfig
	History       HistoryConfig
	Metrics       MetricsConfig
	RateLimit     RateLimitConfig
	AdminToken    string
	LogLevel      string
	LogFormat     string
}

// RateLimitConfig controls the per-client HTTP token bucket.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:          envOrDefault(envPort, defaultPort),
		PollInterval:  durationEnvOrDefault(envPollInterval, defaultPollInterval),
		CacheTTL:      durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		SourceTimeout: durationEnvOrDefault(envSourceTimeout, defaultSourceTimeout),
		Sources:       listEnvOrDefault(envSources, defaultSources),
		Clist:         loadClist(),
		History:       loadHistory(),
		Metrics:       loadMetrics(),
		RateLimit: RateLimitConfig{
			RPS:   floatEnvOrDefault(envRateLimitRPS, defaultRateLimitRPS),
			Burst: intEnvOrDefault(envRateLimitBurst, defaultRateLimitBurst),
		},
		AdminToken: envOrDefault(envAdminToken, ""),
		LogLevel:   envOrDefault(envLogLevel, "info"),
		LogFormat:  envOrDefault(envLogFormat, "text"),
	}
}
