package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwalk/docwalk/internal/types"
)

func newDoc(path string, slugs ...string) *types.DocumentInfo {
	doc := &types.DocumentInfo{Path: path}
	for _, s := range slugs {
		doc.Headings = append(doc.Headings, types.Heading{Level: 2, Text: s, Slug: s})
	}
	return doc
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(newDoc("readme.md", "intro"))

	doc, exists := reg.Get("readme.md")
	require.True(t, exists)
	assert.Equal(t, "readme.md", doc.Path)
	assert.Equal(t, 1, reg.Count())

	_, exists = reg.Get("missing.md")
	assert.False(t, exists)
}

func TestRegisterReplacesExisting(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(newDoc("readme.md", "old"))
	reg.Register(newDoc("readme.md", "new"))

	doc, _ := reg.Get("readme.md")
	assert.Equal(t, "new", doc.Headings[0].Slug)
	assert.Equal(t, 1, reg.Count())
}

func TestGetAllSorted(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(newDoc("z.md"))
	reg.Register(newDoc("a.md"))
	reg.Register(newDoc("m.md"))

	docs := reg.GetAll()
	require.Len(t, docs, 3)
	assert.Equal(t, "a.md", docs[0].Path)
	assert.Equal(t, "m.md", docs[1].Path)
	assert.Equal(t, "z.md", docs[2].Path)
}

func TestAnchorSets(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(newDoc("a.md", "intro", "appendix"))
	reg.Register(newDoc("b.md"))

	sets := reg.AnchorSets()
	require.Len(t, sets, 2)
	assert.Contains(t, sets["a.md"], "intro")
	assert.Contains(t, sets["a.md"], "appendix")
	assert.Empty(t, sets["b.md"])
}

func TestRemove(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(newDoc("a.md"))
	reg.Remove("a.md")
	reg.Remove("never-existed.md")

	assert.Equal(t, 0, reg.Count())
}

func TestWatchEvents(t *testing.T) {
	reg := NewDocumentRegistry()
	events := reg.Watch()
	defer reg.UnWatch(events)

	reg.Register(newDoc("a.md"))
	event := <-events
	assert.Equal(t, EventTypeAdded, event.Type)
	assert.Equal(t, "a.md", event.Document.Path)

	reg.Register(newDoc("a.md"))
	event = <-events
	assert.Equal(t, EventTypeUpdated, event.Type)

	reg.Remove("a.md")
	event = <-events
	assert.Equal(t, EventTypeRemoved, event.Type)
}
