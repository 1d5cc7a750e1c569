package store

import (
	"context"
	"sync"

	"github.com/pfrederiksen/gt-events/internal/event"
)

// Memory is an in-process Store used by tests and local experimentation.
type Memory struct {
	mu     sync.Mutex
	events map[string]*event.Event
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]*event.Event)}
}

// FindByFingerprint returns the stored events matching a data source and
// fingerprint.
func (m *Memory) FindByFingerprint(ctx context.Context, dataSource, eventSHA string) ([]*event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []*event.Event
	for _, evt := range m.events {
		if evt.DataSource == dataSource && evt.EventSHA == eventSHA {
			copied := *evt
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

// Put stores a copy of the record keyed by its id.
func (m *Memory) Put(ctx context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *evt
	m.events[evt.ID] = &copied
	return nil
}

// Delete removes the record with the given id.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return ErrNotFound
	}
	delete(m.events, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
