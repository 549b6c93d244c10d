package service

import (
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/config"
)

// ConfigOverrides are command-line values that win over the config file.
// Empty strings and nil pointers leave the file value untouched.
type ConfigOverrides struct {
	Format     string
	FailOn     string
	Color      string
	Disabled   []string
	Transitive *bool
}

// ConfigurationLoader resolves the configuration of one audit root
type ConfigurationLoader struct {
	logger *zap.Logger
}

// NewConfigurationLoader creates a loader. logger may be nil.
func NewConfigurationLoader(logger *zap.Logger) *ConfigurationLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationLoader{logger: logger}
}

// Load reads configPath, or the file discovered from target when configPath
// is empty, and applies overrides. The result is validated again after the
// overrides so a bad flag is a configuration error too.
func (c *ConfigurationLoader) Load(configPath, target string, overrides ConfigOverrides) (*config.Config, error) {
	if configPath == "" {
		if found := config.DiscoverConfigFile(target); found != "" {
			c.logger.Debug("config file discovered", zap.String("path", found), zap.String("target", target))
		}
	} else {
		c.logger.Debug("config file", zap.String("path", configPath))
	}

	cfg, err := config.LoadConfigWithTarget(configPath, target)
	if err != nil {
		return nil, err
	}
	return c.MergeConfig(cfg, overrides)
}

// MergeConfig applies overrides to a copy of base
func (c *ConfigurationLoader) MergeConfig(base *config.Config, overrides ConfigOverrides) (*config.Config, error) {
	merged := *base

	if overrides.Format != "" {
		merged.Output.Format = overrides.Format
	}
	if overrides.FailOn != "" {
		merged.Output.FailOn = overrides.FailOn
	}
	if overrides.Color != "" {
		merged.Output.Color = overrides.Color
	}
	if len(overrides.Disabled) > 0 {
		merged.Rules.Disabled = append(append([]string(nil), base.Rules.Disabled...), overrides.Disabled...)
	}
	if overrides.Transitive != nil {
		merged.Consumers.Transitive = *overrides.Transitive
	}

	merged.Normalize()
	if err := merged.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid command-line option", err)
	}
	return &merged, nil
}

// Resolver returns a ConfigResolver for ParallelExecutor using the same
// config path and overrides for every root
func (c *ConfigurationLoader) Resolver(configPath string, overrides ConfigOverrides) ConfigResolver {
	return func(root string) (*config.Config, error) {
		return c.Load(configPath, root, overrides)
	}
}
