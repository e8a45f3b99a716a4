// Package types defines the core data model shared across docwalk: scanned
// Markdown documents, their headings and links, and the per-link validation
// results produced by the resolver.
package types

import (
	"fmt"
	"time"
)

// DocumentInfo holds everything extracted from a single Markdown file.
// A document is immutable for the duration of one validation run.
type DocumentInfo struct {
	// Path is the repository-relative, slash-separated path of the file
	Path string
	// Headings lists the document's headings in order of appearance
	Headings []Heading
	// Links lists the document's links in order of appearance
	Links []Link
	// Warnings holds structural problems found during extraction
	Warnings []StructuralWarning
	// LastMod is the file modification time at scan time
	LastMod time.Time
	// Hash is a CRC32 content hash used for change detection in watch mode
	Hash string
}

// AnchorSet returns the set of anchor slugs defined by the document.
func (d *DocumentInfo) AnchorSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Headings))
	for _, h := range d.Headings {
		set[h.Slug] = struct{}{}
	}
	return set
}

// Heading is a single Markdown heading and its derived anchor slug.
type Heading struct {
	// Level is the heading depth, 1 through 6
	Level int
	// Text is the rendered display text of the heading
	Text string
	// Slug is the anchor identifier, unique within the document
	Slug string
	// Line is the 1-based source line of the heading marker
	Line int
}

// LinkKind distinguishes how a link target should be resolved.
type LinkKind int

const (
	// LinkKindInternal targets a document and/or anchor in the scanned tree
	LinkKindInternal LinkKind = iota
	// LinkKindExternal targets an http/https/mailto URL and is never resolved
	LinkKindExternal
)

// String returns the string representation of the link kind.
func (k LinkKind) String() string {
	switch k {
	case LinkKindInternal:
		return "internal"
	case LinkKindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Link is a single Markdown link occurrence.
type Link struct {
	// Text is the link's display text
	Text string
	// RawTarget is the target exactly as written in the source
	RawTarget string
	// Path is the normalized repository-relative target path; empty means
	// the link targets its own document
	Path string
	// Anchor is the fragment after the first '#', without the '#'; empty
	// means top of the target document
	Anchor string
	// Kind reports whether the link is internal or external
	Kind LinkKind
	// Line is the 1-based source line where the link starts
	Line int
}

// LinkStatus classifies the outcome of resolving one internal link.
type LinkStatus int

const (
	// StatusResolved means the target document and anchor both exist
	StatusResolved LinkStatus = iota
	// StatusDanglingAnchor means the target document exists but the anchor
	// slug does not
	StatusDanglingAnchor
	// StatusDanglingFile means the target document is not in the scanned set
	StatusDanglingFile
	// StatusExternal marks links that were counted but never resolved
	StatusExternal
)

// String returns the string representation of the status.
func (s LinkStatus) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusDanglingAnchor:
		return "dangling-anchor"
	case StatusDanglingFile:
		return "dangling-file"
	case StatusExternal:
		return "external"
	default:
		return "unknown"
	}
}

// IsDangling reports whether the status should gate a CI run.
func (s LinkStatus) IsDangling() bool {
	return s == StatusDanglingAnchor || s == StatusDanglingFile
}

// ValidationResult is the resolver's verdict for a single link. Results are
// produced fresh on every run and never persisted.
type ValidationResult struct {
	// SourcePath is the document containing the link
	SourcePath string
	// Link is the occurrence that was resolved
	Link Link
	// Status is the classification outcome
	Status LinkStatus
}

// String renders the result in file:line style for text reports.
func (r ValidationResult) String() string {
	return fmt.Sprintf("%s:%d: [%s](%s) %s", r.SourcePath, r.Link.Line, r.Link.Text, r.Link.RawTarget, r.Status)
}

// StructuralWarning reports a recoverable problem in a document's structure,
// such as an unterminated code fence. Warnings never abort extraction.
type StructuralWarning struct {
	// Path is the document the warning was raised for
	Path string
	// Line is the 1-based line the problem was detected at
	Line int
	// Message describes the problem
	Message string
}

// String renders the warning in file:line style.
func (w StructuralWarning) String() string {
	return fmt.Sprintf("%s:%d: %s", w.Path, w.Line, w.Message)
}
