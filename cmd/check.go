package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docwalk/docwalk/internal/config"
	walkerrors "github.com/docwalk/docwalk/internal/errors"
	"github.com/docwalk/docwalk/internal/logging"
	"github.com/docwalk/docwalk/internal/registry"
	"github.com/docwalk/docwalk/internal/report"
	"github.com/docwalk/docwalk/internal/resolver"
	"github.com/docwalk/docwalk/internal/scanner"
	"github.com/docwalk/docwalk/internal/types"
	"github.com/spf13/viper"
)

var (
	checkFormat   string
	checkStrict   bool
	checkExternal bool
	checkResolved bool
	checkPaths    []string
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [dir...]",
	Short: "Check Markdown links across a document tree",
	Long: `Scan one or more directory trees for Markdown files, extract every heading
and link, and resolve each internal link across the whole document set.

Every internal link is classified as resolved, dangling-anchor (the target
file exists but the anchor slug does not), or dangling-file (the target file
is not in the scanned set). External http/https links are counted but never
resolved. The command exits non-zero if any dangling link is found.

Examples:
  docwalk check                       # Check the current directory
  docwalk check docs/ wiki/           # Check multiple trees
  docwalk check --format json         # Machine-readable report
  docwalk check --strict              # Warnings also fail the run`,
	RunE: runCheckCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().
		StringVarP(&checkFormat, "format", "f", "", "Output format (text, json, yaml)")
	checkCmd.Flags().
		BoolVar(&checkStrict, "strict", false, "Treat structural warnings and read failures as fatal")
	checkCmd.Flags().
		BoolVar(&checkExternal, "external", false, "Include external links in the itemized report")
	checkCmd.Flags().
		BoolVar(&checkResolved, "resolved", false, "Include resolved links in the itemized report")
	checkCmd.Flags().
		StringSliceVar(&checkPaths, "path", nil, "Additional directories to scan")

	addFlagValidation(checkCmd, "format", formatValidator("text", "json", "yaml"))
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	}).WithComponent("check")

	roots := scanRoots(cfg, args)
	result, err := runPipeline(cmd.Context(), logger, cfg, roots)
	if err != nil {
		return err
	}

	opts := report.Options{
		IncludeResolved: checkResolved || cfg.Report.IncludeResolved,
		IncludeExternal: checkExternal || cfg.Report.IncludeExternal,
	}
	rep := report.Build(result.registry.Count(), result.results, result.collector.All(), opts)

	format := checkFormat
	if format == "" {
		format = cfg.Report.Format
	}
	switch format {
	case "json":
		err = rep.WriteJSON(os.Stdout)
	case "yaml":
		err = rep.WriteYAML(os.Stdout)
	case "text":
		err = rep.WriteText(os.Stdout)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if rep.HasDangling() {
		return fmt.Errorf("link check failed: %d dangling anchors, %d dangling files",
			rep.Summary.DanglingAnchors, rep.Summary.DanglingFiles)
	}
	if (checkStrict || cfg.Report.Strict) && (rep.Summary.Warnings > 0 || rep.Summary.IOErrors > 0) {
		return fmt.Errorf("link check failed in strict mode: %d warnings, %d read failures",
			rep.Summary.Warnings, rep.Summary.IOErrors)
	}
	return nil
}

// pipelineResult bundles everything one scan-and-resolve pass produces.
type pipelineResult struct {
	registry  *registry.DocumentRegistry
	collector *walkerrors.Collector
	results   []types.ValidationResult
	roots     []string
}

// scanRoots merges positional arguments, the --path flag, and configured
// defaults into the list of directories to scan.
func scanRoots(cfg *config.Config, args []string) []string {
	roots := append([]string{}, args...)
	roots = append(roots, checkPaths...)
	if len(roots) == 0 {
		roots = cfg.Scan.Paths
	}
	return roots
}

// runPipeline scans every root and resolves all links. Extraction fans out
// per file inside the scanner; resolution runs only after the scan of every
// root has completed.
func runPipeline(ctx context.Context, logger logging.Logger, cfg *config.Config, roots []string) (*pipelineResult, error) {
	collector := walkerrors.NewCollector()
	reg := registry.NewDocumentRegistry()

	docScanner := scanner.NewDocumentScanner(reg, collector)
	defer docScanner.Close()
	docScanner.SetExcludePatterns(cfg.Scan.ExcludePatterns)

	for _, root := range roots {
		logger.Debug(ctx, "scanning", "root", root)
		if err := docScanner.ScanDirectory(root); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}
	logger.Info(ctx, "scan complete", "documents", reg.Count())

	results := resolver.New(reg).ResolveAll()
	return &pipelineResult{
		registry:  reg,
		collector: collector,
		results:   results,
		roots:     roots,
	}, nil
}
