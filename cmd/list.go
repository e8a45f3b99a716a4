package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docwalk/docwalk/internal/config"
	"github.com/docwalk/docwalk/internal/logging"
)

var (
	listAnchors bool
	listFormat  string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list [dir...]",
	Short: "List scanned documents with heading and link counts",
	Long: `Scan a document tree and list each Markdown file with the number of
headings, anchors, and links it defines.

Examples:
  docwalk list                  # List documents in the current directory
  docwalk list --anchors        # Also dump every anchor slug per document
  docwalk list --format json    # Machine-readable output`,
	RunE: runListCommand,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listAnchors, "anchors", false, "Dump every anchor slug per document")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "Output format (text, json)")
}

type listEntry struct {
	Path     string   `json:"path"`
	Headings int      `json:"headings"`
	Links    int      `json:"links"`
	Anchors  []string `json:"anchors,omitempty"`
}

func runListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	}).WithComponent("list")

	result, err := runPipeline(cmd.Context(), logger, cfg, scanRoots(cfg, args))
	if err != nil {
		return err
	}

	docs := result.registry.GetAll()
	if len(docs) == 0 {
		fmt.Println("No Markdown documents found")
		return nil
	}

	entries := make([]listEntry, 0, len(docs))
	for _, doc := range docs {
		entry := listEntry{
			Path:     doc.Path,
			Headings: len(doc.Headings),
			Links:    len(doc.Links),
		}
		if listAnchors {
			for _, h := range doc.Headings {
				entry.Anchors = append(entry.Anchors, h.Slug)
			}
		}
		entries = append(entries, entry)
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "text":
		for _, entry := range entries {
			fmt.Printf("%s  (%d headings, %d links)\n", entry.Path, entry.Headings, entry.Links)
			for _, anchor := range entry.Anchors {
				fmt.Printf("  #%s\n", anchor)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", listFormat)
	}
}
