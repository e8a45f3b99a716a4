package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwalk/docwalk/internal/extract"
	"github.com/docwalk/docwalk/internal/registry"
	"github.com/docwalk/docwalk/internal/types"
)

// buildRegistry extracts the given path -> source pairs into a registry.
func buildRegistry(t *testing.T, docs map[string]string) *registry.DocumentRegistry {
	t.Helper()
	reg := registry.NewDocumentRegistry()
	extractor := extract.NewExtractor()
	for path, source := range docs {
		reg.Register(extractor.Extract(path, []byte(source)))
	}
	return reg
}

func statusOf(t *testing.T, results []types.ValidationResult, rawTarget string) types.LinkStatus {
	t.Helper()
	for _, res := range results {
		if res.Link.RawTarget == rawTarget {
			return res.Status
		}
	}
	t.Fatalf("no result for target %q", rawTarget)
	return 0
}

func TestResolveSelfAnchor(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"readme.md": "## Appendix\n\n[back](#appendix)\n",
	})

	results := New(reg).ResolveAll()

	require.Len(t, results, 1)
	assert.Equal(t, types.StatusResolved, results[0].Status)
}

func TestResolveDanglingAnchor(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"a.md":         "[see B](OtherFile.md#missing-section)\n",
		"OtherFile.md": "# Present Section\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusDanglingAnchor, statusOf(t, results, "OtherFile.md#missing-section"))
}

func TestResolveDanglingFile(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"a.md": "[see C](Nonexistent.md#x)\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusDanglingFile, statusOf(t, results, "Nonexistent.md#x"))
}

func TestResolvePathOnlyLink(t *testing.T) {
	// A link with a target path but no anchor means "top of document" and
	// resolves whenever the file exists.
	reg := buildRegistry(t, map[string]string{
		"a.md": "[other](b.md)\n[gone](missing.md)\n",
		"b.md": "no headings here\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusResolved, statusOf(t, results, "b.md"))
	assert.Equal(t, types.StatusDanglingFile, statusOf(t, results, "missing.md"))
}

func TestResolveCaseSensitivePaths(t *testing.T) {
	// Path comparison follows the host filesystem, which is case-sensitive
	// on the Linux deployments the documents are served from.
	reg := buildRegistry(t, map[string]string{
		"a.md":      "[readme](README.md)\n",
		"readme.md": "# Readme\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusDanglingFile, statusOf(t, results, "README.md"))
}

func TestResolveSelfAnchorNeverConsultsOtherDocuments(t *testing.T) {
	// An anchor-only link resolves against its own document even when
	// another document defines the slug.
	reg := buildRegistry(t, map[string]string{
		"a.md": "[jump](#shared)\n",
		"b.md": "# Shared\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusDanglingAnchor, statusOf(t, results, "#shared"))
}

func TestResolveRelativePathAcrossDirectories(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"doc1.md":         "# Document One\n\n[broken](non-existing-file.md)\n",
		"subdir/doc2.md":  "# Document Two\n\n[up](../doc1.md#document-one)\n[bad][1]\n\n[1]: #invalid-ref\n",
		"subdir/other.md": "# Other\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusDanglingFile, statusOf(t, results, "non-existing-file.md"))
	assert.Equal(t, types.StatusResolved, statusOf(t, results, "../doc1.md#document-one"))
	assert.Equal(t, types.StatusDanglingAnchor, statusOf(t, results, "#invalid-ref"))
}

func TestResolveDuplicateHeadingAnchors(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"readme.md": "## Appendix\n\n## Appendix\n\n[first](#appendix)\n[second](#appendix-1)\n[third](#appendix-2)\n",
	})

	results := New(reg).ResolveAll()

	assert.Equal(t, types.StatusResolved, statusOf(t, results, "#appendix"))
	assert.Equal(t, types.StatusResolved, statusOf(t, results, "#appendix-1"))
	assert.Equal(t, types.StatusDanglingAnchor, statusOf(t, results, "#appendix-2"))
}

func TestResolveExternalLinksNeverResolved(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"readme.md": "[site](https://example.com/missing)\n",
	})

	results := New(reg).ResolveAll()

	require.Len(t, results, 1)
	assert.Equal(t, types.StatusExternal, results[0].Status)
}

func TestResolveRoundTripSelfSlugs(t *testing.T) {
	// A link built from any heading's own slug must always resolve.
	source := "# Intro\n\n## == vs ===\n\n## 100 Percent Tested\n"
	extractor := extract.NewExtractor()
	doc := extractor.Extract("readme.md", []byte(source))

	var links string
	for _, h := range doc.Headings {
		links += "[x](#" + h.Slug + ")\n"
	}

	reg := buildRegistry(t, map[string]string{
		"readme.md": source + "\n" + links,
	})

	results := New(reg).ResolveAll()
	require.Len(t, results, len(doc.Headings))
	for _, res := range results {
		assert.Equal(t, types.StatusResolved, res.Status, "link %q", res.Link.RawTarget)
	}
}

func TestResolveDocument(t *testing.T) {
	reg := buildRegistry(t, map[string]string{
		"a.md": "[see](b.md#section)\n",
		"b.md": "# Section\n",
	})

	doc, ok := reg.Get("a.md")
	require.True(t, ok)

	results := New(reg).ResolveDocument(doc)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusResolved, results[0].Status)
	assert.Equal(t, "a.md", results[0].SourcePath)
}

func TestResolveAllNeverFails(t *testing.T) {
	// The resolver accumulates every result instead of stopping at the
	// first dangling link.
	reg := buildRegistry(t, map[string]string{
		"a.md": "[one](x.md)\n[two](y.md)\n[three](#gone)\n",
	})

	results := New(reg).ResolveAll()
	assert.Len(t, results, 3)
}
