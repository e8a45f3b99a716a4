// Package slug derives anchor identifiers from Markdown heading text using
// GitHub's slugging rules, since GitHub is the renderer the checked documents
// are published through. Other renderers (GitLab, Pandoc, VSCode preview)
// slugify differently; mixing algorithms produces false dangling-anchor
// reports on links like "#-vs-" for a heading titled "== vs ===".
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make converts heading text to its anchor slug without collision handling:
// NFC-normalize, lowercase, drop every rune that is not a letter, mark,
// digit, space, hyphen or underscore, then replace spaces with hyphens.
func Make(text string) string {
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugger assigns document-scoped anchor slugs, numbering collisions the way
// GitHub does: the first "appendix" stays "appendix", the second becomes
// "appendix-1", the Nth "appendix-(N-1)".
type Slugger struct {
	seen map[string]int
}

// New creates a Slugger with an empty collision table. Use one Slugger per
// document; collision numbering never crosses document boundaries.
func New() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns the anchor for heading text, applying collision numbering in
// order of appearance.
func (s *Slugger) Slug(text string) string {
	base := Make(text)
	n, dup := s.seen[base]
	s.seen[base] = n + 1
	if !dup {
		return base
	}
	// A later heading may literally be titled "appendix-1"; keep probing
	// until the numbered form is itself unused.
	for {
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := s.seen[candidate]; !taken {
			s.seen[candidate] = 1
			return candidate
		}
		n++
		s.seen[base] = n + 1
	}
}
