// Package registry maintains the set of scanned documents for a validation
// run. The registry is the fan-in point between per-file extraction and the
// cross-file resolver, and broadcasts change events so watch mode can re-run
// resolution when documents are added, updated, or removed.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/docwalk/docwalk/internal/types"
)

// DocumentRegistry manages all scanned documents keyed by their
// repository-relative path.
type DocumentRegistry struct {
	documents map[string]*types.DocumentInfo
	mutex     sync.RWMutex
	watchers  []chan DocumentEvent
}

// DocumentEvent represents a change in the document registry.
type DocumentEvent struct {
	Type      EventType
	Document  *types.DocumentInfo
	Timestamp time.Time
}

// EventType represents the type of document event.
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewDocumentRegistry creates an empty document registry.
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		documents: make(map[string]*types.DocumentInfo),
		watchers:  make([]chan DocumentEvent, 0),
	}
}

// Register adds or updates a document in the registry.
func (r *DocumentRegistry) Register(doc *types.DocumentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.documents[doc.Path]; exists {
		eventType = EventTypeUpdated
	}

	r.documents[doc.Path] = doc
	r.notify(DocumentEvent{Type: eventType, Document: doc, Timestamp: time.Now()})
}

// Get retrieves a document by repository-relative path.
func (r *DocumentRegistry) Get(path string) (*types.DocumentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, exists := r.documents[path]
	return doc, exists
}

// GetAll returns all registered documents sorted by path, so reports come
// out in a stable order regardless of scan concurrency.
func (r *DocumentRegistry) GetAll() []*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.DocumentInfo, 0, len(r.documents))
	for _, doc := range r.documents {
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// AnchorSets returns a path -> anchor-set mapping for the resolver. Path
// comparison downstream is case-sensitive, matching Linux filesystems.
func (r *DocumentRegistry) AnchorSets() map[string]map[string]struct{} {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sets := make(map[string]map[string]struct{}, len(r.documents))
	for path, doc := range r.documents {
		sets[path] = doc.AnchorSet()
	}
	return sets
}

// Remove removes a document from the registry.
func (r *DocumentRegistry) Remove(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, exists := r.documents[path]
	if !exists {
		return
	}

	delete(r.documents, path)
	r.notify(DocumentEvent{Type: EventTypeRemoved, Document: doc, Timestamp: time.Now()})
}

// Watch returns a channel that receives document events.
func (r *DocumentRegistry) Watch() <-chan DocumentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan DocumentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *DocumentRegistry) UnWatch(ch <-chan DocumentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered documents.
func (r *DocumentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.documents)
}

// notify sends an event to all watchers without blocking. Callers must hold
// the write lock.
func (r *DocumentRegistry) notify(event DocumentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
