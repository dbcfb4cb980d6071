package docstore

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrNotFound is returned when a document does not exist in its collection.
var ErrNotFound = errors.New("document not found")

// Event describes a completed write against a collection. Watchers receive
// one event per successful Put, Patch, or Delete.
type Event struct {
	Collection string
	DocID      string
	Kind       EventKind
}

// EventKind identifies the write that produced an Event.
type EventKind string

const (
	EventPut    EventKind = "put"
	EventPatch  EventKind = "patch"
	EventDelete EventKind = "delete"
)

// Store is the document store capability contract: schemaless JSON documents
// grouped into named collections and keyed by id.
//
// Patch merges the supplied fields into the existing document; it never
// replaces the whole document. Delete of an absent id is a no-op success.
// Watch registers a subscriber that observes every subsequent write to a
// collection until the returned unsubscribe function is called.
type Store interface {
	Put(collection, id string, doc any) error
	Patch(collection, id string, fields map[string]any) error
	Delete(collection, id string) error
	Get(collection, id string) (json.RawMessage, error)
	GetAll(collection string) ([]json.RawMessage, error)
	Watch(collection string, fn func(Event)) (unsubscribe func())
}

// watchHub fans write events out to per-collection subscribers. Both store
// implementations embed it so subscription semantics are identical.
type watchHub struct {
	mu       sync.RWMutex
	nextID   int
	watchers map[string]map[int]func(Event)
}

func (h *watchHub) Watch(collection string, fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.watchers == nil {
		h.watchers = make(map[string]map[int]func(Event))
	}
	if h.watchers[collection] == nil {
		h.watchers[collection] = make(map[int]func(Event))
	}
	id := h.nextID
	h.nextID++
	h.watchers[collection][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.watchers[collection], id)
	}
}

// notify invokes every subscriber of the event's collection. Callbacks run
// synchronously on the writer's goroutine, after the write has committed.
func (h *watchHub) notify(ev Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.watchers[ev.Collection]))
	for _, fn := range h.watchers[ev.Collection] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
