package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docwalk/docwalk/internal/config"
	walkerrors "github.com/docwalk/docwalk/internal/errors"
	"github.com/docwalk/docwalk/internal/logging"
	"github.com/docwalk/docwalk/internal/registry"
	"github.com/docwalk/docwalk/internal/report"
	"github.com/docwalk/docwalk/internal/resolver"
	"github.com/docwalk/docwalk/internal/scanner"
	"github.com/docwalk/docwalk/internal/watcher"
)

var watchVerbose bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Watch for Markdown changes and re-check links",
	Long: `Watch a document tree and re-run the link check whenever Markdown files
change. Changes are debounced so one editing burst triggers one re-check, and
only the changed files are re-extracted; the document registry persists
between passes.

Examples:
  docwalk watch               # Watch the current directory
  docwalk watch docs/ -v      # Watch a tree with per-file change output`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Verbose output")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	}).WithComponent("watch")

	ctx := cmd.Context()
	roots := scanRoots(cfg, args)

	// One registry and scanner live for the whole session; re-checks only
	// re-extract what changed.
	collector := walkerrors.NewCollector()
	docScanner := scanner.NewDocumentScanner(registry.NewDocumentRegistry(), collector)
	defer docScanner.Close()
	docScanner.SetExcludePatterns(cfg.Scan.ExcludePatterns)
	reg := docScanner.GetRegistry()

	// Initial full pass
	for _, root := range roots {
		if err := docScanner.ScanDirectory(root); err != nil {
			return fmt.Errorf("scanning %s: %w", root, err)
		}
	}
	if err := printWatchReport(reg, collector, cfg); err != nil {
		return err
	}

	regEvents := reg.Watch()
	defer reg.UnWatch(regEvents)
	go func() {
		for event := range regEvents {
			logger.Debug(ctx, "registry updated",
				"path", event.Document.Path, "event", event.Type.String())
		}
	}()

	fileWatcher, err := watcher.NewFileWatcher(time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.MarkdownFilter)
	fileWatcher.AddFilter(watcher.NoVendorFilter)
	fileWatcher.AddFilter(watcher.NoGitFilter)

	res := resolver.New(reg)

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		// Read failures from the previous pass are stale once the file
		// may have changed again; each pass collects its own.
		collector.Clear()

		var changed []string
		for _, event := range events {
			root, rel, ok := rootFor(roots, event.Path)
			if !ok {
				continue
			}
			if event.Type == watcher.EventTypeDeleted || event.Type == watcher.EventTypeRenamed {
				reg.Remove(rel)
				continue
			}
			if err := docScanner.ScanFile(root, event.Path); err != nil {
				collector.AddIOError(rel, err)
				continue
			}
			changed = append(changed, rel)
		}

		if watchVerbose {
			for _, rel := range changed {
				doc, ok := reg.Get(rel)
				if !ok {
					continue
				}
				dangling := 0
				for _, result := range res.ResolveDocument(doc) {
					if result.Status.IsDangling() {
						dangling++
					}
				}
				fmt.Fprintf(os.Stderr, "%s: %d links, %d dangling\n", rel, len(doc.Links), dangling)
			}
		} else {
			fmt.Fprintf(os.Stderr, "%d file(s) changed\n", len(events))
		}

		// A changed document's anchors can flip links in distant
		// documents, so the report always covers the whole set; only
		// extraction is incremental.
		if err := printWatchReport(reg, collector, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "re-check failed: %v\n", err)
		}
		return nil
	})

	for _, root := range roots {
		if err := fileWatcher.AddRecursive(root); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	logger.Info(ctx, "watching for changes", "roots", roots)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-sigChan:
	}
	return nil
}

// printWatchReport resolves the current document set and prints a text
// report. Dangling links are reported but never stop the watch loop.
func printWatchReport(reg *registry.DocumentRegistry, collector *walkerrors.Collector, cfg *config.Config) error {
	results := resolver.New(reg).ResolveAll()
	rep := report.Build(reg.Count(), results, scanIssues(reg, collector), report.Options{
		IncludeExternal: cfg.Report.IncludeExternal,
		IncludeResolved: cfg.Report.IncludeResolved,
	})
	return rep.WriteText(os.Stdout)
}

// scanIssues merges read failures from the collector with the structural
// warnings carried on each registered document, so warnings in files that
// did not change survive an incremental re-check.
func scanIssues(reg *registry.DocumentRegistry, collector *walkerrors.Collector) []walkerrors.ScanError {
	issues := collector.BySeverity(walkerrors.SeverityIO)
	for _, doc := range reg.GetAll() {
		for _, w := range doc.Warnings {
			issues = append(issues, walkerrors.ScanError{
				Path:     w.Path,
				Line:     w.Line,
				Message:  w.Message,
				Severity: walkerrors.SeverityWarning,
			})
		}
	}
	return issues
}

// rootFor maps a changed file back to the scan root containing it and the
// registry path the document is keyed by.
func rootFor(roots []string, path string) (root, rel string, ok bool) {
	for _, r := range roots {
		cleanRoot := filepath.Clean(r)
		relPath, err := filepath.Rel(cleanRoot, path)
		if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			continue
		}
		return cleanRoot, filepath.ToSlash(relPath), true
	}
	return "", "", false
}
