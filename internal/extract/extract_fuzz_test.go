package extract

import (
	"testing"
)

// FuzzExtract verifies the extractor never panics and stays deterministic on
// arbitrary input, including malformed fence nesting and broken link syntax.
func FuzzExtract(f *testing.F) {
	f.Add("# Title\n\n[link](other.md#anchor)\n")
	f.Add("```\n# fenced\n")
	f.Add("## A\n## A\n## A\n")
	f.Add("[x](#)\n[y]()\n[z](#a#b)\n")
	f.Add("Visit <https://example.com> now\n")
	f.Add("[ref][1]\n\n[1]: target.md\n")

	extractor := NewExtractor()

	f.Fuzz(func(t *testing.T, source string) {
		first := extractor.Extract("fuzz.md", []byte(source))
		second := extractor.Extract("fuzz.md", []byte(source))

		if len(first.Headings) != len(second.Headings) || len(first.Links) != len(second.Links) {
			t.Fatalf("extraction not deterministic for %q", source)
		}

		// Slugs must be unique within a document regardless of input.
		seen := make(map[string]bool, len(first.Headings))
		for _, h := range first.Headings {
			if seen[h.Slug] {
				t.Fatalf("duplicate slug %q for %q", h.Slug, source)
			}
			seen[h.Slug] = true
		}
	})
}
