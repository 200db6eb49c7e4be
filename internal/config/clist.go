package config

import "time"

const (
	envClistBaseURL  = "CLIST_BASE_URL"
	envClistUsername = "CLIST_USERNAME"
	envClistAPIKey   = "CLIST_API_KEY"
	envClistInterval = "CLIST_MIN_INTERVAL"

	defaultClistBaseURL = "https://clist.by/api/v4"
	// clist.by free tier allows roughly one request per second.
	defaultClistInterval = 1 * time.Second
)

// ClistConfig controls the consolidated clist.by primary source.
type ClistConfig struct {
	BaseURL     string
	Username    string
	APIKey      string
	MinInterval time.Duration
}

// Enabled reports whether credentials are present; without them the
// per-platform adapters are the only sources.
func (c ClistConfig) Enabled() bool {
	return c.Username != "" && c.APIKey != ""
}

func loadClist() ClistConfig {
	return ClistConfig{
		BaseURL:     envOrDefault(envClistBaseURL, defaultClistBaseURL),
		Username:    envOrDefault(envClistUsername, ""),
		APIKey:      envOrDefault(envClistAPIKey, ""),
		MinInterval: durationEnvOrDefault(envClistInterval, defaultClistInterval),
	}
}
