package dupes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwalk/docwalk/internal/extract"
)

func addDoc(t *testing.T, d *Detector, path, source string) {
	t.Helper()
	doc := extract.NewExtractor().Extract(path, []byte(source))
	d.AddDocument(doc, []byte(source))
}

func TestDetectExactDuplicateIgnoringTrailingWhitespace(t *testing.T) {
	detector := NewDetector(0.8)

	body := "Decorators run in a fixed order:\nparam, method, then class.\n"
	addDoc(t, detector, "README.md", "## NestJS Decorator Execution Order\n\n"+body)
	addDoc(t, detector, "README_v2.md", "## NestJS Decorator Execution Order  \n\n"+body+"   \n")

	pairs := detector.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, ClassExactDuplicate, pairs[0].Class)
	assert.InDelta(t, 1.0, pairs[0].Similarity, 0.001)
}

func TestDetectDivergedSections(t *testing.T) {
	detector := NewDetector(0.8)

	addDoc(t, detector, "a.md", "## Event Loop\n\nThe event loop processes the microtask queue first.\n")
	addDoc(t, detector, "b.md", "## Event Loop\n\nCompletely rewritten answer about phases, timers, and poll behavior in detail.\n")

	pairs := detector.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, ClassDiverged, pairs[0].Class)
	assert.Less(t, pairs[0].Similarity, 0.8)
}

func TestDetectNearDuplicate(t *testing.T) {
	detector := NewDetector(0.5)

	addDoc(t, detector, "a.md", "## CAP Theorem\n\nconsistency availability partition tolerance pick two always\n")
	addDoc(t, detector, "b.md", "## CAP Theorem\n\nconsistency availability partition tolerance pick two sometimes\n")

	pairs := detector.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, ClassNearDuplicate, pairs[0].Class)
}

func TestHeadingGroupingIsCaseInsensitive(t *testing.T) {
	detector := NewDetector(0.8)

	addDoc(t, detector, "a.md", "## Appendix\n\nshared body text here\n")
	addDoc(t, detector, "b.md", "## APPENDIX\n\nshared body text here\n")

	pairs := detector.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, ClassExactDuplicate, pairs[0].Class)
}

func TestRepeatedHeadingWithinOneFileNotReported(t *testing.T) {
	detector := NewDetector(0.8)

	addDoc(t, detector, "a.md", "## Appendix\n\nfirst\n\n## Appendix\n\nsecond\n")

	assert.Empty(t, detector.Pairs())
}

func TestUniqueHeadingsNotReported(t *testing.T) {
	detector := NewDetector(0.8)

	addDoc(t, detector, "a.md", "## Only Here\n\nbody\n")
	addDoc(t, detector, "b.md", "## Only There\n\nbody\n")

	assert.Empty(t, detector.Pairs())
}

func TestPairsSortedAndCarryLines(t *testing.T) {
	detector := NewDetector(0.8)

	addDoc(t, detector, "b.md", "intro\n\n## Shared\n\nsame body\n")
	addDoc(t, detector, "a.md", "## Shared\n\nsame body\n")

	pairs := detector.Pairs()
	require.Len(t, pairs, 1)
	// Pair order follows insertion within a group; both paths and their
	// heading lines must be reported.
	assert.Equal(t, "b.md", pairs[0].PathA)
	assert.Equal(t, 3, pairs[0].LineA)
	assert.Equal(t, "a.md", pairs[0].PathB)
	assert.Equal(t, 1, pairs[0].LineB)
}

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, 1.0, similarity("", ""))
	assert.Equal(t, 0.0, similarity("words here", ""))
	assert.Equal(t, 1.0, similarity("a b c", "c  b a"))
	assert.Equal(t, 0.0, similarity("x y", "p q"))
}
