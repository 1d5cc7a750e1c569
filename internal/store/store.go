package store

import (
	"context"
	"errors"

	"github.com/pfrederiksen/gt-events/internal/event"
)

// ErrNotFound indicates a delete targeting an id with no stored record.
var ErrNotFound = errors.New("event not found")

// Store is the event persistence contract consumed by the reconciler.
type Store interface {
	// FindByFingerprint scans for stored events matching a data source and
	// fingerprint. Order is unspecified; an empty result is not an error.
	FindByFingerprint(ctx context.Context, dataSource, eventSHA string) ([]*event.Event, error)

	// Put writes a full record keyed by its id, overwriting any existing
	// record under the same id.
	Put(ctx context.Context, evt *event.Event) error

	// Delete removes the record with the given id. Returns ErrNotFound if
	// no such record exists.
	Delete(ctx context.Context, id string) error

	// Close releases any underlying connections.
	Close() error
}
