// Package resolver classifies every link in the scanned document set.
//
// Resolution is a pure fan-in step: it runs only after all documents are
// registered and mutates nothing, so it needs no locking beyond the
// registry's own snapshot methods. A dangling link is data, not an error;
// the resolver always returns the full result set and never fails partway.
package resolver

import (
	"github.com/docwalk/docwalk/internal/registry"
	"github.com/docwalk/docwalk/internal/types"
)

// Resolver resolves links against a document registry.
type Resolver struct {
	registry *registry.DocumentRegistry
}

// New creates a resolver over the given registry.
func New(reg *registry.DocumentRegistry) *Resolver {
	return &Resolver{registry: reg}
}

// ResolveAll classifies every link of every registered document, in document
// path order and source order within a document.
func (r *Resolver) ResolveAll() []types.ValidationResult {
	anchors := r.registry.AnchorSets()

	var results []types.ValidationResult
	for _, doc := range r.registry.GetAll() {
		for _, link := range doc.Links {
			results = append(results, types.ValidationResult{
				SourcePath: doc.Path,
				Link:       link,
				Status:     classify(doc, link, anchors),
			})
		}
	}
	return results
}

// ResolveDocument classifies the links of a single document against the
// whole registry, for incremental re-checks in watch mode.
func (r *Resolver) ResolveDocument(doc *types.DocumentInfo) []types.ValidationResult {
	anchors := r.registry.AnchorSets()

	results := make([]types.ValidationResult, 0, len(doc.Links))
	for _, link := range doc.Links {
		results = append(results, types.ValidationResult{
			SourcePath: doc.Path,
			Link:       link,
			Status:     classify(doc, link, anchors),
		})
	}
	return results
}

// classify applies the resolution policy for one link:
//
//   - external links are never resolved, only counted;
//   - an empty target path means the link resolves against its own
//     document's anchors, nothing else;
//   - a target path with no anchor means "top of file" and resolves iff the
//     file is in the scanned set;
//   - path comparison is exact and case-sensitive, matching the Linux
//     filesystems the documents are served from, even though anchor slugs
//     themselves are already lowercase.
func classify(source *types.DocumentInfo, link types.Link, anchors map[string]map[string]struct{}) types.LinkStatus {
	if link.Kind == types.LinkKindExternal {
		return types.StatusExternal
	}

	targetPath := link.Path
	if targetPath == "" {
		targetPath = source.Path
	}

	targetAnchors, exists := anchors[targetPath]
	if !exists {
		return types.StatusDanglingFile
	}
	if link.Anchor == "" {
		return types.StatusResolved
	}
	if _, ok := targetAnchors[link.Anchor]; ok {
		return types.StatusResolved
	}
	return types.StatusDanglingAnchor
}
