package server

import (
	"log/slog"

	"github.com/rajeshuchil/contesthub/internal/aggregate"
	"github.com/rajeshuchil/contesthub/internal/config"
	"github.com/rajeshuchil/contesthub/internal/sources"
	"github.com/rajeshuchil/contesthub/internal/sources/atcoder"
	"github.com/rajeshuchil/contesthub/internal/sources/clist"
	"github.com/rajeshuchil/contesthub/internal/sources/codechef"
	"github.com/rajeshuchil/contesthub/internal/sources/codeforces"
	"github.com/rajeshuchil/contesthub/internal/sources/fixture"
	"github.com/rajeshuchil/contesthub/internal/sources/hackerrank"
	"github.com/rajeshuchil/contesthub/internal/sources/leetcode"
)

// newRegistry maps every known source name to its normalizer. Registration
// covers all adapters regardless of which ones the config enables; an
// unconfigured source simply never produces records.
func newRegistry() *aggregate.Registry {
	reg := aggregate.NewRegistry()
	reg.Register(codeforces.SourceName, codeforces.Normalize)
	reg.Register(leetcode.SourceName, leetcode.Normalize)
	reg.Register(codechef.SourceName, codechef.Normalize)
	reg.Register(atcoder.SourceName, atcoder.Normalize)
	reg.Register(hackerrank.SourceName, hackerrank.Normalize)
	reg.Register(clist.SourceName, clist.Normalize)
	reg.Register(fixture.SourceName, fixture.Normalize)
	return reg
}

// buildAdapters constructs the fallback fan-out adapters named in the
// config, each wrapped with retries.
func buildAdapters(cfg config.Config, logger *slog.Logger) []sources.Adapter {
	adapters := make([]sources.Adapter, 0, len(cfg.Sources))
	for _, name := range cfg.Sources {
		adapter := buildAdapter(name)
		if adapter == nil {
			if logger != nil {
				logger.Warn("unknown source in config, skipping", "source", name)
			}
			continue
		}
		adapters = append(adapters, sources.NewRetryingAdapter(adapter, logger, 0, 0))
	}
	return adapters
}

func buildAdapter(name string) sources.Adapter {
	switch name {
	case codeforces.SourceName:
		return codeforces.NewClient(codeforces.Config{})
	case leetcode.SourceName:
		return leetcode.NewClient(leetcode.Config{})
	case codechef.SourceName:
		return codechef.NewClient(codechef.Config{})
	case atcoder.SourceName:
		return atcoder.NewClient(atcoder.Config{})
	case hackerrank.SourceName:
		return hackerrank.NewClient(hackerrank.Config{})
	case fixture.SourceName:
		return fixture.New()
	default:
		return nil
	}
}

// buildPrimary constructs the consolidated clist primary, rate limited to
// the upstream quota. Returns nil when credentials are absent.
func buildPrimary(cfg config.Config, logger *slog.Logger) sources.Adapter {
	if !cfg.Clist.Enabled() {
		if logger != nil {
			logger.Info("clist credentials absent, using per-platform sources only")
		}
		return nil
	}
	client := clist.NewClient(clist.Config{
		BaseURL:  cfg.Clist.BaseURL,
		Username: cfg.Clist.Username,
		APIKey:   cfg.Clist.APIKey,
	})
	limited := sources.NewRateLimitedAdapter(client, cfg.Clist.MinInterval, logger)
	return sources.NewRetryingAdapter(limited, logger, 0, 0)
}
