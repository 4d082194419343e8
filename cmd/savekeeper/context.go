package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"savekeeper/internal/cachefile"
	"savekeeper/internal/catalog"
	"savekeeper/internal/config"
	"savekeeper/internal/device"
	"savekeeper/internal/enumerator"
	"savekeeper/internal/logging"
	"savekeeper/internal/title"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
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

func (c *commandContext) cacheStore() (*cachefile.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return cachefile.NewStore(cfg.Paths.CachePath, logger), nil
}

// session bundles everything a catalog command needs.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *device.Registry
	store    *cachefile.Store
	catalog  *catalog.Catalog
}

func (s *session) Close() error {
	return s.registry.Close()
}

func (c *commandContext) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	registry, err := device.OpenRegistry(ctx, cfg.Device.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("open device registry: %w", err)
	}

	var service device.Service = registry
	if cfg.Device.CardDevice != "" {
		service = device.NewBlockCardProbe(registry, cfg.Device.CardDevice)
	}

	language := title.MatchLanguage(cfg.Catalog.MetadataLanguage)
	store := cachefile.NewStore(cfg.Paths.CachePath, logger)
	cat := catalog.New(catalog.Options{
		Store:  store,
		Device: service,
		Enumerator: enumerator.New(enumerator.Options{
			Service:  service,
			Language: language,
			Logger:   logger,
		}),
		Favorites: cfg,
		Language:  language,
		Logger:    logger,
	})
	return &session{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    store,
		catalog:  cat,
	}, nil
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
