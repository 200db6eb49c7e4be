package codeforces

import "time"

const (
	// SourceName tags codeforces records for the normalizer registry.
	SourceName  = "codeforces"
	displayName = "Codeforces"

	defaultBaseURL     = "https://codeforces.com/api"
	defaultHTTPTimeout = 10 * time.Second

	// Contests that finished more than this long ago are excluded at fetch
	// time; the upstream list reaches back years.
	endedCutoff = 7 * 24 * time.Hour
)
