package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wikiepisodes/internal/config"
	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/mediawiki"
	"wikiepisodes/internal/wikicache"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	noCacheFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, noCacheFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		noCacheFlag:  noCacheFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) cacheEnabled() bool {
	if c.noCacheFlag != nil && *c.noCacheFlag {
		return false
	}
	return c.config != nil && c.config.Cache.Enabled
}

// openFetcher builds the MediaWiki client, wrapped by the response cache when
// enabled. The returned close function releases the cache.
func (c *commandContext) openFetcher() (mediawiki.Fetcher, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	client, err := mediawiki.New(cfg.Wiki.APIURL,
		mediawiki.WithUserAgent(cfg.Wiki.UserAgent),
		mediawiki.WithTimeout(cfg.RequestTimeout()),
		mediawiki.WithRetry(cfg.Wiki.RetryAttempts, cfg.RetryBackoff()),
		mediawiki.WithRateLimit(cfg.Wiki.RequestsPerSecond),
		mediawiki.WithRedirects(cfg.Wiki.FollowRedirects),
		mediawiki.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	if !c.cacheEnabled() {
		return client, func() {}, nil
	}
	store, err := wikicache.Open(cfg.Cache.Path, cfg.CacheTTL(), logger)
	if err != nil {
		if errors.Is(err, wikicache.ErrSchemaMismatch) {
			return nil, nil, err
		}
		logging.WarnWithContext(logger, "response cache unavailable", "cache_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "every page is fetched from the wiki"),
			logging.String(logging.FieldErrorHint, "check cache.path permissions"),
		)
		return client, func() {}, nil
	}
	return store.Wrap(client), func() { _ = store.Close() }, nil
}

func (c *commandContext) openCache() (*wikicache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := wikicache.Open(cfg.Cache.Path, cfg.CacheTTL(), logger)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
