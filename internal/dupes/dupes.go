// Package dupes surfaces duplicated sections across documents. The checked
// repositories tend to accumulate near-identical copies of the same appendix
// under multiple files; this detector groups sections by normalized heading
// text and scores how far their bodies have drifted apart, so a human can
// decide which copy is canonical. It is informational only and never affects
// the run's exit code.
package dupes

import (
	"sort"
	"strings"

	"github.com/docwalk/docwalk/internal/types"
)

// Class labels how a pair of same-heading sections compare.
type Class int

const (
	// ClassDiverged means the bodies differ beyond the similarity threshold
	ClassDiverged Class = iota
	// ClassNearDuplicate means the bodies differ only slightly
	ClassNearDuplicate
	// ClassExactDuplicate means the bodies are identical after whitespace
	// normalization
	ClassExactDuplicate
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case ClassDiverged:
		return "diverged"
	case ClassNearDuplicate:
		return "near-duplicate"
	case ClassExactDuplicate:
		return "exact-duplicate"
	default:
		return "unknown"
	}
}

// Pair reports one cross-document section comparison.
type Pair struct {
	Heading    string  `json:"heading" yaml:"heading"`
	PathA      string  `json:"path_a" yaml:"path_a"`
	LineA      int     `json:"line_a" yaml:"line_a"`
	PathB      string  `json:"path_b" yaml:"path_b"`
	LineB      int     `json:"line_b" yaml:"line_b"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Class      Class   `json:"-" yaml:"-"`
	ClassName  string  `json:"class" yaml:"class"`
}

// section is one heading plus its body text, sliced from the raw source.
type section struct {
	path    string
	line    int
	heading string
	body    string
}

// Detector accumulates sections from scanned documents and reports
// duplicated ones on demand.
type Detector struct {
	// Threshold separates diverged pairs from near-duplicates
	Threshold float64
	// ExactThreshold separates near-duplicates from exact duplicates
	ExactThreshold float64

	sections map[string][]section
}

// NewDetector creates a detector with the given divergence threshold.
func NewDetector(threshold float64) *Detector {
	return &Detector{
		Threshold:      threshold,
		ExactThreshold: 0.995,
		sections:       make(map[string][]section),
	}
}

// AddDocument slices a document's raw source into per-heading sections and
// indexes them by normalized heading text. A section's body runs from the
// line after its heading to the line before the next heading, regardless of
// level, mirroring how a reader compares two copies of the same appendix.
func (d *Detector) AddDocument(doc *types.DocumentInfo, source []byte) {
	if len(doc.Headings) == 0 {
		return
	}

	lines := strings.Split(string(source), "\n")
	for i, h := range doc.Headings {
		start := h.Line // body starts on the line after the heading (1-based)
		end := len(lines)
		if i+1 < len(doc.Headings) {
			end = doc.Headings[i+1].Line - 1
		}
		if start > len(lines) {
			start = len(lines)
		}
		if end < start {
			end = start
		}

		key := normalizeHeading(h.Text)
		d.sections[key] = append(d.sections[key], section{
			path:    doc.Path,
			line:    h.Line,
			heading: h.Text,
			body:    strings.Join(lines[start:end], "\n"),
		})
	}
}

// Pairs compares every same-heading section pair across distinct documents
// and returns them sorted by heading, then by path.
func (d *Detector) Pairs() []Pair {
	var pairs []Pair
	for _, group := range d.sections {
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.path == b.path {
					// Repeated headings inside one file are the
					// slugger's problem, not duplication drift.
					continue
				}
				score := similarity(a.body, b.body)
				pair := Pair{
					Heading:    a.heading,
					PathA:      a.path,
					LineA:      a.line,
					PathB:      b.path,
					LineB:      b.line,
					Similarity: score,
					Class:      d.classify(score),
				}
				pair.ClassName = pair.Class.String()
				pairs = append(pairs, pair)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Heading != pairs[j].Heading {
			return pairs[i].Heading < pairs[j].Heading
		}
		if pairs[i].PathA != pairs[j].PathA {
			return pairs[i].PathA < pairs[j].PathA
		}
		return pairs[i].PathB < pairs[j].PathB
	})
	return pairs
}

// classify maps a similarity score to a class using the detector thresholds.
func (d *Detector) classify(score float64) Class {
	switch {
	case score >= d.ExactThreshold:
		return ClassExactDuplicate
	case score >= d.Threshold:
		return ClassNearDuplicate
	default:
		return ClassDiverged
	}
}

// normalizeHeading canonicalizes heading text for grouping: lowercase with
// collapsed whitespace.
func normalizeHeading(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// similarity computes the Jaccard overlap of the two bodies' token sets.
// Tokenizing on whitespace makes the score insensitive to trailing spaces
// and re-wrapped lines, which is exactly the noise copy-pasted sections
// accumulate.
func similarity(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1.0
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		set[token] = struct{}{}
	}
	return set
}
