// Package report assembles and renders the outcome of a validation run.
// One report covers the whole run: per-document link results with line
// numbers, structural warnings, per-file read failures, and summary counts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	walkerrors "github.com/docwalk/docwalk/internal/errors"
	"github.com/docwalk/docwalk/internal/types"
)

// Entry is one link's outcome in serializable form.
type Entry struct {
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
	Target string `json:"target" yaml:"target"`
	Status string `json:"status" yaml:"status"`
}

// DocumentReport groups a document's entries.
type DocumentReport struct {
	Path    string  `json:"path" yaml:"path"`
	Entries []Entry `json:"links" yaml:"links"`
}

// Problem is a structural warning or read failure in serializable form.
type Problem struct {
	Path     string `json:"path" yaml:"path"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
}

// Summary holds the run's aggregate counts.
type Summary struct {
	Documents       int `json:"documents" yaml:"documents"`
	Resolved        int `json:"resolved" yaml:"resolved"`
	DanglingAnchors int `json:"dangling_anchors" yaml:"dangling_anchors"`
	DanglingFiles   int `json:"dangling_files" yaml:"dangling_files"`
	ExternalLinks   int `json:"external_links" yaml:"external_links"`
	Warnings        int `json:"warnings" yaml:"warnings"`
	IOErrors        int `json:"io_errors" yaml:"io_errors"`
}

// Report is the complete outcome of one validation run.
type Report struct {
	Summary   Summary          `json:"summary" yaml:"summary"`
	Documents []DocumentReport `json:"documents" yaml:"documents"`
	Problems  []Problem        `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// Options controls what a built report includes.
type Options struct {
	// IncludeResolved keeps resolved links in the itemized listing; the
	// summary always counts them
	IncludeResolved bool
	// IncludeExternal keeps external links in the itemized listing
	IncludeExternal bool
}

// Build assembles a report from resolver results and collected problems.
func Build(documentCount int, results []types.ValidationResult, scanErrors []walkerrors.ScanError, opts Options) *Report {
	r := &Report{Summary: Summary{Documents: documentCount}}

	perDoc := make(map[string]*DocumentReport)
	var order []string

	for _, res := range results {
		switch res.Status {
		case types.StatusResolved:
			r.Summary.Resolved++
		case types.StatusDanglingAnchor:
			r.Summary.DanglingAnchors++
		case types.StatusDanglingFile:
			r.Summary.DanglingFiles++
		case types.StatusExternal:
			r.Summary.ExternalLinks++
		}

		if res.Status == types.StatusResolved && !opts.IncludeResolved {
			continue
		}
		if res.Status == types.StatusExternal && !opts.IncludeExternal {
			continue
		}

		doc, ok := perDoc[res.SourcePath]
		if !ok {
			doc = &DocumentReport{Path: res.SourcePath}
			perDoc[res.SourcePath] = doc
			order = append(order, res.SourcePath)
		}
		doc.Entries = append(doc.Entries, Entry{
			Line:   res.Link.Line,
			Text:   res.Link.Text,
			Target: res.Link.RawTarget,
			Status: res.Status.String(),
		})
	}

	sort.Strings(order)
	for _, path := range order {
		r.Documents = append(r.Documents, *perDoc[path])
	}

	for _, scanErr := range scanErrors {
		switch scanErr.Severity {
		case walkerrors.SeverityWarning:
			r.Summary.Warnings++
		case walkerrors.SeverityIO:
			r.Summary.IOErrors++
		}
		r.Problems = append(r.Problems, Problem{
			Path:     scanErr.Path,
			Line:     scanErr.Line,
			Severity: scanErr.Severity.String(),
			Message:  scanErr.Message,
		})
	}

	return r
}

// HasDangling reports whether the run should fail a CI gate.
func (r *Report) HasDangling() bool {
	return r.Summary.DanglingAnchors > 0 || r.Summary.DanglingFiles > 0
}

// WriteText renders the report for humans.
func (r *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Link check summary:\n")
	fmt.Fprintf(w, "  Documents:        %d\n", r.Summary.Documents)
	fmt.Fprintf(w, "  Resolved:         %d\n", r.Summary.Resolved)
	fmt.Fprintf(w, "  Dangling anchors: %d\n", r.Summary.DanglingAnchors)
	fmt.Fprintf(w, "  Dangling files:   %d\n", r.Summary.DanglingFiles)
	fmt.Fprintf(w, "  External links:   %d\n", r.Summary.ExternalLinks)
	if r.Summary.Warnings > 0 {
		fmt.Fprintf(w, "  Warnings:         %d\n", r.Summary.Warnings)
	}
	if r.Summary.IOErrors > 0 {
		fmt.Fprintf(w, "  Read failures:    %d\n", r.Summary.IOErrors)
	}
	fmt.Fprintln(w)

	for _, doc := range r.Documents {
		if len(doc.Entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", doc.Path)
		for _, entry := range doc.Entries {
			fmt.Fprintf(w, "  %d: [%s](%s) %s\n", entry.Line, entry.Text, entry.Target, entry.Status)
		}
	}

	for _, problem := range r.Problems {
		if problem.Line > 0 {
			fmt.Fprintf(w, "%s:%d: %s: %s\n", problem.Path, problem.Line, problem.Severity, problem.Message)
		} else {
			fmt.Fprintf(w, "%s: %s: %s\n", problem.Path, problem.Severity, problem.Message)
		}
	}

	if !r.HasDangling() {
		fmt.Fprintln(w, "All internal links resolved.")
	}
	return nil
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// WriteYAML renders the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(r)
}
