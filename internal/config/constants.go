package config

import "time"

const (
	envPort           = "PORT"
	envPollInterval   = "POLL_INTERVAL"
	envCacheTTL       = "CACHE_TTL"
	envSources        = "SOURCES"
	envSourceTimeout  = "SOURCE_TIMEOUT"
	envAdminToken     = "ADMIN_TOKEN"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"
	envMetricsPort    = "METRICS_PORT"
	envMetricsOn      = "METRICS_ENABLED"
	envOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService    = "OTEL_SERVICE_NAME"
	envOtelInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"
	envRateLimitRPS   = "RATE_LIMIT_RPS"
	envRateLimitBurst = "RATE_LIMIT_BURST"

	defaultPort = "4000"
	// Poll and cache windows are aligned so a cycle's result lives exactly
	// until the next cycle lands.
	defaultPollInterval   = 5 * Duration(time.Minute)
	defaultCacheTTL       = 5 * Duration(time.Minute)
	defaultSourceTimeout  = 15 * Duration(time.Second)
	defaultMetricsPort    = "9090"
	defaultRateLimitRPS   = 10.0
	defaultRateLimitBurst = 20
)

// defaultSources is every per-platform adapter; clist is configured
// separately as the consolidated primary.
var defaultSources = []string{"codeforces", "leetcode", "codechef", "atcoder", "hackerrank"}
