// Package reconcile enforces at-most-one stored record per event fingerprint.
//
// Reconciliation is a delete-old-then-insert-new protocol, not an in-place
// update. The two store operations are not atomic: a concurrent run can
// still race this sequence into duplicates or a lost record. The deployment
// is expected to schedule one collector run at a time; this package does not
// lock or transact around the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/gt-events/internal/event"
	"github.com/pfrederiksen/gt-events/internal/logger"
	"github.com/pfrederiksen/gt-events/internal/store"
)

// Outcome reports what reconciling one event did to the store.
type Outcome int

const (
	// Inserted means no record with the event's fingerprint existed.
	Inserted Outcome = iota

	// Replaced means a stale record was deleted before the insert.
	Replaced
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	if o == Replaced {
		return "replaced"
	}
	return "inserted"
}

// Reconciler upserts events against a Store by fingerprint.
type Reconciler struct {
	store store.Store
}

// New creates a Reconciler backed by the given store.
func New(s store.Store) *Reconciler {
	return &Reconciler{store: s}
}

// Reconcile scans for a stored record with the event's (dataSource, eventSHA)
// pair, deletes the first match if one exists, then inserts the new event.
// Only one stale record is deleted even if a prior race left several; store
// errors surface to the caller without retry.
func (r *Reconciler) Reconcile(ctx context.Context, evt *event.Event) (Outcome, error) {
	matches, err := r.store.FindByFingerprint(ctx, evt.DataSource, evt.EventSHA)
	if err != nil {
		return Inserted, fmt.Errorf("scanning for fingerprint %s: %w", evt.EventSHA, err)
	}

	outcome := Inserted
	if len(matches) > 0 {
		stale := matches[0]
		if err := r.store.Delete(ctx, stale.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return Inserted, fmt.Errorf("deleting stale record %s: %w", stale.ID, err)
		}
		outcome = Replaced
	}

	if err := r.store.Put(ctx, evt); err != nil {
		return outcome, fmt.Errorf("storing event %s: %w", evt.ID, err)
	}

	logger.Debug("reconciled event", logger.Fields{
		"event_sha": evt.EventSHA,
		"outcome":   outcome.String(),
	})
	return outcome, nil
}
