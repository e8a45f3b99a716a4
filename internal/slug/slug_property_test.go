//go:build property
// +build property

package slug

import (
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSlugProperties tests invariant properties of the slugger
func TestSlugProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: slugging is deterministic
	properties.Property("slug determinism", prop.ForAll(
		func(heading string) bool {
			return Make(heading) == Make(heading)
		},
		gen.AnyString(),
	))

	// Property 2: a slug is already in canonical form, so slugging it
	// again is a no-op
	properties.Property("slug idempotency", prop.ForAll(
		func(heading string) bool {
			slug := Make(heading)
			return Make(slug) == slug
		},
		gen.AnyString(),
	))

	// Property 3: slugs never contain spaces or uppercase letters
	properties.Property("slug canonical alphabet", prop.ForAll(
		func(heading string) bool {
			slug := Make(heading)
			if strings.ContainsRune(slug, ' ') {
				return false
			}
			for _, r := range slug {
				if unicode.IsUpper(r) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	// Property 4: within one document, every emitted slug is unique
	properties.Property("slugger uniqueness", prop.ForAll(
		func(headings []string) bool {
			s := New()
			seen := make(map[string]bool)
			for _, heading := range headings {
				slug := s.Slug(heading)
				if seen[slug] {
					return false
				}
				seen[slug] = true
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
