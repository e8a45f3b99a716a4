package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	walkerrors "github.com/docwalk/docwalk/internal/errors"
	"github.com/docwalk/docwalk/internal/types"
)

func sampleResults() []types.ValidationResult {
	return []types.ValidationResult{
		{
			SourcePath: "readme.md",
			Link:       types.Link{Text: "intro", RawTarget: "#intro", Line: 3},
			Status:     types.StatusResolved,
		},
		{
			SourcePath: "readme.md",
			Link:       types.Link{Text: "gone", RawTarget: "other.md#gone", Line: 7},
			Status:     types.StatusDanglingAnchor,
		},
		{
			SourcePath: "guide.md",
			Link:       types.Link{Text: "missing", RawTarget: "nope.md", Line: 2},
			Status:     types.StatusDanglingFile,
		},
		{
			SourcePath: "guide.md",
			Link:       types.Link{Text: "site", RawTarget: "https://example.com", Line: 9, Kind: types.LinkKindExternal},
			Status:     types.StatusExternal,
		},
	}
}

func TestBuildSummaryCounts(t *testing.T) {
	rep := Build(2, sampleResults(), nil, Options{})

	assert.Equal(t, 2, rep.Summary.Documents)
	assert.Equal(t, 1, rep.Summary.Resolved)
	assert.Equal(t, 1, rep.Summary.DanglingAnchors)
	assert.Equal(t, 1, rep.Summary.DanglingFiles)
	assert.Equal(t, 1, rep.Summary.ExternalLinks)
	assert.True(t, rep.HasDangling())
}

func TestBuildFiltering(t *testing.T) {
	rep := Build(2, sampleResults(), nil, Options{})

	// Only dangling entries survive by default, grouped per document in
	// path order.
	require.Len(t, rep.Documents, 2)
	assert.Equal(t, "guide.md", rep.Documents[0].Path)
	require.Len(t, rep.Documents[0].Entries, 1)
	assert.Equal(t, "dangling-file", rep.Documents[0].Entries[0].Status)
	assert.Equal(t, "readme.md", rep.Documents[1].Path)

	withAll := Build(2, sampleResults(), nil, Options{IncludeResolved: true, IncludeExternal: true})
	total := 0
	for _, doc := range withAll.Documents {
		total += len(doc.Entries)
	}
	assert.Equal(t, 4, total)
}

func TestBuildProblems(t *testing.T) {
	scanErrors := []walkerrors.ScanError{
		{Path: "broken.md", Line: 4, Message: "unterminated code fence", Severity: walkerrors.SeverityWarning},
		{Path: "locked.md", Message: "permission denied", Severity: walkerrors.SeverityIO},
	}

	rep := Build(3, nil, scanErrors, Options{})

	assert.Equal(t, 1, rep.Summary.Warnings)
	assert.Equal(t, 1, rep.Summary.IOErrors)
	require.Len(t, rep.Problems, 2)
	assert.False(t, rep.HasDangling())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	rep := Build(2, sampleResults(), nil, Options{})
	require.NoError(t, rep.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Documents:        2")
	assert.Contains(t, out, "Dangling anchors: 1")
	assert.Contains(t, out, "guide.md")
	assert.Contains(t, out, "2: [missing](nope.md) dangling-file")
	assert.NotContains(t, out, "All internal links resolved.")
}

func TestWriteTextCleanRun(t *testing.T) {
	var buf bytes.Buffer
	rep := Build(1, []types.ValidationResult{
		{SourcePath: "a.md", Link: types.Link{RawTarget: "#x"}, Status: types.StatusResolved},
	}, nil, Options{})
	require.NoError(t, rep.WriteText(&buf))

	assert.Contains(t, buf.String(), "All internal links resolved.")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rep := Build(2, sampleResults(), nil, Options{})
	require.NoError(t, rep.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.Summary, decoded.Summary)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	rep := Build(2, sampleResults(), nil, Options{})
	require.NoError(t, rep.WriteYAML(&buf))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.Summary, decoded.Summary)
	assert.True(t, strings.Contains(buf.String(), "dangling_anchors: 1"))
}
