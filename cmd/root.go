// Package cmd provides the command-line interface for docwalk with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --format, etc.) - highest priority
//	2. DOCWALK_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DOCWALK_REPORT_FORMAT, etc.)
//	4. Configuration files (.docwalk.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docwalk",
	Short: "A link-integrity checker for Markdown document trees",
	Long: `Docwalk scans a directory tree of Markdown files, derives the anchor slug
of every heading, extracts every link, and resolves each internal link across
the whole document set. Dangling links fail the run, making docwalk usable as
a CI gate for documentation repositories.

Key Features:
  • GitHub-compatible anchor slugs, including duplicate-heading numbering
  • Cross-file link resolution with per-link line numbers
  • Fence-aware extraction (code blocks never produce headings or links)
  • Duplicate-section drift detection across README variants
  • Watch mode for editing sessions

Quick Start:
  docwalk check               Check the current directory
  docwalk check docs/         Check a specific tree
  docwalk list --anchors      Show every document's anchors
  docwalk dupes               Surface duplicated sections
  docwalk watch               Re-check on every save`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .docwalk.yml, can also use DOCWALK_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. DOCWALK_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .docwalk.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCWALK_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docwalk")
	}

	// Enable automatic environment variable binding with DOCWALK_ prefix
	// Examples: DOCWALK_REPORT_FORMAT, DOCWALK_DUPES_THRESHOLD
	viper.SetEnvPrefix("DOCWALK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files fall back to defaults without failing
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
