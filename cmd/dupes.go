package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/docwalk/docwalk/internal/config"
	"github.com/docwalk/docwalk/internal/dupes"
	"github.com/docwalk/docwalk/internal/logging"
)

var (
	dupesThreshold float64
	dupesFormat    string
	dupesAll       bool
)

// dupesCmd represents the dupes command.
var dupesCmd = &cobra.Command{
	Use:   "dupes [dir...]",
	Short: "Detect duplicated sections across documents",
	Long: `Group sections by heading text across all scanned documents and score how
similar their bodies are. Sections that share a heading but have drifted
apart are reported as diverged; near-identical copies are reported as
duplicates.

This is a maintenance aid for repositories carrying several copies of the
same appendix or README: it surfaces drift for a human to resolve, and never
merges or picks a canonical variant. The command always exits zero.

Examples:
  docwalk dupes                     # Report diverged duplicate sections
  docwalk dupes --all               # Include exact duplicates
  docwalk dupes --threshold 0.9     # Stricter divergence cutoff`,
	RunE: runDupesCommand,
}

func init() {
	rootCmd.AddCommand(dupesCmd)

	dupesCmd.Flags().
		Float64VarP(&dupesThreshold, "threshold", "t", 0, "Similarity below this counts as diverged (0-1, default from config)")
	dupesCmd.Flags().
		StringVarP(&dupesFormat, "format", "f", "text", "Output format (text, json)")
	dupesCmd.Flags().
		BoolVar(&dupesAll, "all", false, "Include exact duplicates in the report")

	addFlagValidation(dupesCmd, "format", formatValidator("text", "json"))
	addFlagValidation(dupesCmd, "threshold", validateThreshold)
}

func runDupesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	}).WithComponent("dupes")

	roots := scanRoots(cfg, args)
	result, err := runPipeline(cmd.Context(), logger, cfg, roots)
	if err != nil {
		return err
	}

	detector := dupes.NewDetector(effectiveThreshold(cmd.Flags(), cfg))

	// Section bodies need the raw source, which the extraction pipeline
	// does not retain; re-read each registered document from disk.
	for _, doc := range result.registry.GetAll() {
		source, readErr := readFromRoots(roots, doc.Path)
		if readErr != nil {
			logger.Warn(cmd.Context(), readErr, "skipping document", "path", doc.Path)
			continue
		}
		detector.AddDocument(doc, source)
	}

	pairs := detector.Pairs()
	if !dupesAll {
		filtered := pairs[:0]
		for _, pair := range pairs {
			if pair.Class != dupes.ClassExactDuplicate {
				filtered = append(filtered, pair)
			}
		}
		pairs = filtered
	}

	switch dupesFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(pairs)
	case "text":
		if len(pairs) == 0 {
			fmt.Println("No duplicated sections found")
			return nil
		}
		for _, pair := range pairs {
			fmt.Printf("%s: %q\n", pair.ClassName, pair.Heading)
			fmt.Printf("  %s:%d\n", pair.PathA, pair.LineA)
			fmt.Printf("  %s:%d\n", pair.PathB, pair.LineB)
			fmt.Printf("  similarity %.3f\n", pair.Similarity)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", dupesFormat)
	}
}

// effectiveThreshold returns the divergence cutoff. The flag wins whenever it
// was set explicitly, so --threshold 0 is honored rather than mistaken for
// "unset" and replaced by the configured default.
func effectiveThreshold(flags *pflag.FlagSet, cfg *config.Config) float64 {
	if flags.Changed("threshold") {
		return dupesThreshold
	}
	return cfg.Dupes.Threshold
}

// readFromRoots finds a registered document's file under one of the scan
// roots and returns its content.
func readFromRoots(roots []string, relPath string) ([]byte, error) {
	var lastErr error
	for _, root := range roots {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("reading %s: %w", relPath, lastErr)
}
