// Package config provides configuration management for docwalk using Viper
// for flexible configuration loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the DOCWALK_ prefix, and validation. It manages scan paths,
// exclude patterns, report formatting, duplicate-detection thresholds, and
// watch-mode settings.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Report ReportConfig `yaml:"report"`
	Dupes  DupesConfig  `yaml:"dupes"`
	Watch  WatchConfig  `yaml:"watch"`
}

type ScanConfig struct {
	Paths           []string `yaml:"paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type ReportConfig struct {
	Format          string `yaml:"format"`
	IncludeResolved bool   `yaml:"include_resolved"`
	IncludeExternal bool   `yaml:"include_external"`
	Strict          bool   `yaml:"strict"`
}

type DupesConfig struct {
	Threshold float64 `yaml:"threshold"`
}

type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Apply scan path defaults only if not explicitly set
	if !viper.IsSet("scan.paths") && len(config.Scan.Paths) == 0 {
		config.Scan.Paths = []string{"."}
	}

	// Handle slices set via viper (workaround for viper slice handling)
	if viper.IsSet("scan.paths") && len(config.Scan.Paths) == 0 {
		if paths := viper.GetStringSlice("scan.paths"); len(paths) > 0 {
			config.Scan.Paths = paths
		}
	}
	if viper.IsSet("scan.exclude_patterns") && len(config.Scan.ExcludePatterns) == 0 {
		if patterns := viper.GetStringSlice("scan.exclude_patterns"); len(patterns) > 0 {
			config.Scan.ExcludePatterns = patterns
		}
	}

	// Handle booleans set via viper (workaround for viper bool handling)
	if viper.IsSet("report.include_resolved") {
		config.Report.IncludeResolved = viper.GetBool("report.include_resolved")
	}
	if viper.IsSet("report.include_external") {
		config.Report.IncludeExternal = viper.GetBool("report.include_external")
	}
	if viper.IsSet("report.strict") {
		config.Report.Strict = viper.GetBool("report.strict")
	}

	// Apply remaining defaults
	if config.Report.Format == "" {
		config.Report.Format = "text"
	}
	if config.Dupes.Threshold == 0 {
		config.Dupes.Threshold = 0.8
	}
	if config.Watch.DebounceMillis == 0 {
		config.Watch.DebounceMillis = 300
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	for _, path := range config.Scan.Paths {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid scan path '%s': %w", path, err)
		}
	}

	switch config.Report.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported report format: %s", config.Report.Format)
	}

	if config.Dupes.Threshold < 0 || config.Dupes.Threshold > 1 {
		return fmt.Errorf("dupes threshold %v is not in range 0-1", config.Dupes.Threshold)
	}

	if config.Watch.DebounceMillis < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
