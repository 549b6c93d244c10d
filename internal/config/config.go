package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ludo-technologies/fsdscan/domain"
)

// EnvPrefix prefixes environment overrides such as FSDSCAN_OUTPUT_FAIL_ON
const EnvPrefix = "FSDSCAN"

// Default scan and consumer settings
const (
	// DefaultMaxFileSize is the largest file parsed, in bytes
	DefaultMaxFileSize = 1 << 20

	// DefaultSharedMin is the consumer count from which a module is legitimately shared
	DefaultSharedMin = 3
)

// ConfigFileNames are the discovered configuration file names in order of preference
var ConfigFileNames = []string{
	"fsdscan.yaml",
	"fsdscan.yml",
	".fsdscan.yaml",
	".fsdscan.yml",
	"fsdscan.json",
	".fsdscan.json",
	".fsdscan.toml",
}

// Config represents the main configuration structure
type Config struct {
	Scan           ScanConfig           `json:"scan" mapstructure:"scan" yaml:"scan"`
	Layers         LayersConfig         `json:"layers" mapstructure:"layers" yaml:"layers"`
	Rules          RulesConfig          `json:"rules" mapstructure:"rules" yaml:"rules"`
	Thresholds     ThresholdsConfig     `json:"thresholds" mapstructure:"thresholds" yaml:"thresholds"`
	Consumers      ConsumersConfig      `json:"consumers" mapstructure:"consumers" yaml:"consumers"`
	Responsibility ResponsibilityConfig `json:"responsibility" mapstructure:"responsibility" yaml:"responsibility"`
	Output         OutputConfig         `json:"output" mapstructure:"output" yaml:"output"`
}

// ScanConfig controls which files are audited
type ScanConfig struct {
	// Ignore holds gitignore-style globs excluded from the scan
	Ignore []string `json:"ignore" mapstructure:"ignore" yaml:"ignore"`

	// RespectGitignore also applies the project's .gitignore
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	Extensions []string `json:"extensions" mapstructure:"extensions" yaml:"extensions"`

	// SourceRoots are folders under which layer folders are looked up (src)
	SourceRoots []string `json:"source_roots" mapstructure:"source_roots" yaml:"source_roots"`

	// MaxFileSize in bytes; larger files get a parse warning and no edges
	MaxFileSize int64 `json:"max_file_size" mapstructure:"max_file_size" yaml:"max_file_size"`
}

// LayersConfig describes the layered folder structure
type LayersConfig struct {
	// Folders are the recognized layer folder names
	Folders []string `json:"folders" mapstructure:"folders" yaml:"folders"`

	// Paths maps a layer name to additional root-relative folders
	Paths map[string][]string `json:"paths" mapstructure:"paths" yaml:"paths"`

	// Aliases maps an import prefix to a root-relative folder (@/ -> src/)
	Aliases map[string]string `json:"aliases" mapstructure:"aliases" yaml:"aliases"`
}

// RulesConfig adjusts the rule table
type RulesConfig struct {
	Disabled   []string          `json:"disabled" mapstructure:"disabled" yaml:"disabled"`
	Priorities map[string]string `json:"priorities" mapstructure:"priorities" yaml:"priorities"`
}

// ThresholdsConfig bounds the number of files in flat folders
type ThresholdsConfig struct {
	Hooks      int `json:"hooks" mapstructure:"hooks" yaml:"hooks"`
	Components int `json:"components" mapstructure:"components" yaml:"components"`
	Utils      int `json:"utils" mapstructure:"utils" yaml:"utils"`
}

// ConsumersConfig controls consumer counting
type ConsumersConfig struct {
	// Transitive follows importers outside features instead of counting direct importers only
	Transitive bool `json:"transitive" mapstructure:"transitive" yaml:"transitive"`

	SharedMin int `json:"shared_min" mapstructure:"shared_min" yaml:"shared_min"`
}

// ResponsibilityConfig feeds the responsibility rules
type ResponsibilityConfig struct {
	// NetworkModules are imports that count as direct network access from ui code
	NetworkModules []string `json:"network_modules" mapstructure:"network_modules" yaml:"network_modules"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// FailOn is the least severe priority that makes the run fail
	FailOn string `json:"fail_on" mapstructure:"fail_on" yaml:"fail_on"`

	// Color is auto, always or never
	Color string `json:"color" mapstructure:"color" yaml:"color"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Ignore:           []string{"node_modules", "dist", "build", ".git", "coverage"},
			RespectGitignore: true,
			Extensions:       []string{".ts", ".tsx", ".js", ".jsx"},
			SourceRoots:      []string{"src"},
			MaxFileSize:      DefaultMaxFileSize,
		},
		Layers: LayersConfig{
			Folders: append([]string(nil), domain.DefaultLayerFolders...),
			Paths:   map[string][]string{},
			Aliases: map[string]string{
				"@/": "src/",
				"~/": "src/",
			},
		},
		Rules: RulesConfig{
			Disabled:   []string{},
			Priorities: map[string]string{},
		},
		Thresholds: ThresholdsConfig{
			Hooks:      10,
			Components: 20,
			Utils:      5,
		},
		Consumers: ConsumersConfig{
			Transitive: false,
			SharedMin:  DefaultSharedMin,
		},
		Responsibility: ResponsibilityConfig{
			NetworkModules: []string{
				"axios", "ky", "node-fetch", "cross-fetch", "isomorphic-fetch", "got", "superagent", "http-client",
			},
		},
		Output: OutputConfig{
			Format: "text",
			FailOn: "P0",
			Color:  "auto",
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context. Without
// an explicit path the file is discovered from targetPath upward. Environment
// overrides apply in every case. Failures are configuration errors.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	cfg, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// DiscoverConfigFile returns the configuration file LoadConfigWithTarget would use
func DiscoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads, overlays environment variables and validates
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	setDefaults(v, config)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("scan.ignore", c.Scan.Ignore)
	v.SetDefault("scan.respect_gitignore", c.Scan.RespectGitignore)
	v.SetDefault("scan.extensions", c.Scan.Extensions)
	v.SetDefault("scan.source_roots", c.Scan.SourceRoots)
	v.SetDefault("scan.max_file_size", c.Scan.MaxFileSize)
	v.SetDefault("layers.folders", c.Layers.Folders)
	v.SetDefault("layers.paths", c.Layers.Paths)
	v.SetDefault("layers.aliases", c.Layers.Aliases)
	v.SetDefault("rules.disabled", c.Rules.Disabled)
	v.SetDefault("rules.priorities", c.Rules.Priorities)
	v.SetDefault("thresholds.hooks", c.Thresholds.Hooks)
	v.SetDefault("thresholds.components", c.Thresholds.Components)
	v.SetDefault("thresholds.utils", c.Thresholds.Utils)
	v.SetDefault("consumers.transitive", c.Consumers.Transitive)
	v.SetDefault("consumers.shared_min", c.Consumers.SharedMin)
	v.SetDefault("responsibility.network_modules", c.Responsibility.NetworkModules)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.fail_on", c.Output.FailOn)
	v.SetDefault("output.color", c.Output.Color)
}

// Normalize canonicalizes case-insensitive values
func (c *Config) Normalize() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	c.Output.FailOn = strings.ToUpper(strings.TrimSpace(c.Output.FailOn))
	c.Output.Color = strings.ToLower(strings.TrimSpace(c.Output.Color))
	for i, id := range c.Rules.Disabled {
		c.Rules.Disabled[i] = strings.ToUpper(strings.TrimSpace(id))
	}
	if len(c.Rules.Priorities) > 0 {
		priorities := make(map[string]string, len(c.Rules.Priorities))
		for id, p := range c.Rules.Priorities {
			priorities[strings.ToUpper(strings.TrimSpace(id))] = strings.ToUpper(strings.TrimSpace(p))
		}
		c.Rules.Priorities = priorities
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}
	if _, err := domain.ParsePriority(c.Output.FailOn); err != nil {
		return fmt.Errorf("invalid output.fail_on: %w", err)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid output.color '%s', must be one of: auto, always, never", c.Output.Color)
	}

	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions cannot be empty")
	}
	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("scan.extensions entry '%s' must start with a dot", ext)
		}
	}
	if c.Scan.MaxFileSize <= 0 {
		return fmt.Errorf("scan.max_file_size must be > 0, got %d", c.Scan.MaxFileSize)
	}

	if len(c.Layers.Folders) == 0 {
		return errors.New("layers.folders cannot be empty")
	}
	known := make(map[string]bool)
	for _, l := range []domain.Layer{
		domain.LayerApp, domain.LayerPages, domain.LayerWidgets, domain.LayerFeatures,
		domain.LayerEntities, domain.LayerShared, domain.LayerDomain, domain.LayerLib, domain.LayerTypes,
	} {
		known[string(l)] = true
	}
	for _, name := range c.Layers.Folders {
		if !known[name] {
			return fmt.Errorf("layers.folders entry '%s' is not a known layer", name)
		}
	}
	for _, name := range sortedKeys(c.Layers.Paths) {
		if !known[name] {
			return fmt.Errorf("layers.paths key '%s' is not a known layer", name)
		}
	}

	for _, id := range sortedKeys(c.Rules.Priorities) {
		if _, err := domain.ParsePriority(c.Rules.Priorities[id]); err != nil {
			return fmt.Errorf("invalid rules.priorities.%s: %w", id, err)
		}
	}

	if c.Thresholds.Hooks < 0 || c.Thresholds.Components < 0 || c.Thresholds.Utils < 0 {
		return errors.New("thresholds must be >= 0")
	}
	if c.Consumers.SharedMin < 2 {
		return fmt.Errorf("consumers.shared_min must be >= 2, got %d", c.Consumers.SharedMin)
	}
	return nil
}

// FailOnPriority returns the parsed fail threshold
func (c *Config) FailOnPriority() domain.Priority {
	p, err := domain.ParsePriority(c.Output.FailOn)
	if err != nil {
		return domain.PriorityP0
	}
	return p
}

// ThresholdMap returns thresholds keyed by folder name
func (c *Config) ThresholdMap() map[string]int {
	return map[string]int{
		"hooks":      c.Thresholds.Hooks,
		"components": c.Thresholds.Components,
		"utils":      c.Thresholds.Utils,
	}
}

// PriorityOverrides returns rules.priorities as domain priorities
func (c *Config) PriorityOverrides() map[string]domain.Priority {
	out := make(map[string]domain.Priority, len(c.Rules.Priorities))
	for id, p := range c.Rules.Priorities {
		out[id] = domain.Priority(p)
	}
	return out
}

// LoadDotEnv loads a .env file from dir into the process environment.
// Variables already set win and a missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return domain.NewConfigError("failed to load "+path, err)
	}
	return nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files from targetPath upward,
// then in the XDG directory, then at $FSDSCAN_CONFIG
func findDefaultConfig(targetPath string) string {
	if targetPath == "" {
		targetPath = "."
	}

	if absPath, err := filepath.Abs(targetPath); err == nil {
		// If it's a file, start from its directory
		if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
			absPath = filepath.Dir(absPath)
		}

		volume := filepath.VolumeName(absPath)
		for dir := absPath; ; dir = filepath.Dir(dir) {
			if config := searchConfigInDirectory(dir, ConfigFileNames); config != "" {
				return config
			}
			parent := filepath.Dir(dir)
			if parent == dir || dir == volume || (volume != "" && dir == volume+string(filepath.Separator)) {
				break
			}
		}
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "fsdscan"), ConfigFileNames); config != "" {
			return config
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", "fsdscan"), ConfigFileNames); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(EnvPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
