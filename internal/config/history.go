package config

import "time"

const (
	envHistoryPath        = "HISTORY_PATH"
	envHistoryRetention   = "HISTORY_RETENTION"
	envHistoryCompression = "HISTORY_COMPRESSION"

	defaultHistoryPath        = "data/history"
	defaultHistoryRetention   = 30 * 24 * time.Hour
	defaultHistoryCompression = "zstd"
)

// HistoryConfig controls the on-disk snapshot archive.
type HistoryConfig struct {
	BasePath    string
	Retention   time.Duration
	Compression string // zstd or none
}

func loadHistory() HistoryConfig {
	compression := envOrDefault(envHistoryCompression, defaultHistoryCompression)
	if compression != "zstd" && compression != "none" {
		compression = defaultHistoryCompression
	}
	return HistoryConfig{
		BasePath:    envOrDefault(envHistoryPath, defaultHistoryPath),
		Retention:   durationEnvOrDefault(envHistoryRetention, defaultHistoryRetention),
		Compression: compression,
	}
}
