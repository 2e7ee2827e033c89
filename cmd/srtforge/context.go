package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"srtforge/internal/config"
	"srtforge/internal/logging"
	"srtforge/internal/profile"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// registry builds the preset table with any seconds-per-MB overrides from
// config applied.
func (c *commandContext) registry() (*profile.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	registry := profile.NewRegistry()
	if len(cfg.Estimator.SecondsPerMB) > 0 {
		if err := registry.OverrideSecondsPerMB(cfg.Estimator.SecondsPerMB); err != nil {
			return nil, fmt.Errorf("apply estimator overrides: %w", err)
		}
	}
	return registry, nil
}

// selectProfile resolves the effective preset: the flag wins, then the
// configured default, then fast.
func (c *commandContext) selectProfile(flagValue string) (profile.Profile, error) {
	registry, err := c.registry()
	if err != nil {
		return profile.Profile{}, err
	}
	name := strings.ToLower(strings.TrimSpace(flagValue))
	if name == "" {
		cfg, cfgErr := c.ensureConfig()
		if cfgErr != nil {
			return profile.Profile{}, cfgErr
		}
		name = cfg.Transcriber.Profile
	}
	if name == "" {
		return registry.Default(), nil
	}
	preset, err := registry.Select(name)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("%w (available: %s)", err, strings.Join(registry.Names(), ", "))
	}
	return preset, nil
}

func (c *commandContext) buildLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		LogFile: cfg.LogFile(),
	})
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
