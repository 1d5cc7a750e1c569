// Package pipeline orchestrates one collector run: fetch the listing page,
// extract canonical events, reconcile each against the store in extraction
// order, and summarize the outcome.
//
// A fetch or parse failure aborts the run with no partial results. A store
// failure on a single event does not: it is recorded in the summary and the
// run moves on to the next event. Without a configured store the pipeline
// runs dry - it still fetches, extracts and logs, but mutates nothing.
package pipeline

import (
	"context"
	"time"

	"github.com/pfrederiksen/gt-events/internal/logger"
	"github.com/pfrederiksen/gt-events/internal/reconcile"
	"github.com/pfrederiksen/gt-events/internal/scraper"
	"github.com/pfrederiksen/gt-events/internal/store"
)

// Status is the top-level result reported to the external scheduler.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Failure records one event that could not be reconciled.
type Failure struct {
	EventName string `json:"event_name"`
	EventSHA  string `json:"event_sha"`
	Error     string `json:"error"`
}

// Summary reports what one run did.
type Summary struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Inserted  int       `json:"inserted"`
	Replaced  int       `json:"replaced"`
	DryRun    bool      `json:"dry_run"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Driver runs the fetch-extract-reconcile pipeline.
type Driver struct {
	scraper *scraper.Scraper
	store   store.Store
}

// New creates a Driver. A nil store selects dry-run mode.
func New(s *scraper.Scraper, st store.Store) *Driver {
	return &Driver{scraper: s, store: st}
}

// Run executes one collection pass. The returned error is non-nil only for
// run-fatal failures (fetch or parse); per-event store failures are collected
// into the summary instead.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	result, err := d.scraper.FetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Skipped: result.Skipped,
		DryRun:  d.store == nil,
	}

	if summary.DryRun {
		summary.Processed = len(result.Events)
		logger.Info("dry run: no store configured, skipping mutations", logger.Fields{
			"events": len(result.Events),
		})
	} else {
		rec := reconcile.New(d.store)
		for _, evt := range result.Events {
			outcome, err := rec.Reconcile(ctx, evt)
			if err != nil {
				summary.Failures = append(summary.Failures, Failure{
					EventName: evt.EventName,
					EventSHA:  evt.EventSHA,
					Error:     err.Error(),
				})
				logger.Error("failed to reconcile event", logger.Fields{
					"event_name": evt.EventName,
					"event_sha":  evt.EventSHA,
				}, err)
				logger.IncrCounter("events.failed", 1)
				continue
			}

			summary.Processed++
			switch outcome {
			case reconcile.Replaced:
				summary.Replaced++
				logger.IncrCounter("events.replaced", 1)
			default:
				summary.Inserted++
				logger.IncrCounter("events.inserted", 1)
			}
		}
	}

	logger.RecordTiming("run", time.Since(start))
	logger.Info("run complete", logger.Fields{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"inserted":  summary.Inserted,
		"replaced":  summary.Replaced,
		"failures":  len(summary.Failures),
		"dry_run":   summary.DryRun,
	})

	return summary, nil
}

// Handle is the no-argument trigger for external schedulers. It reports
// failure only when fetch or parse failed; per-event failures are visible in
// logs and the summary, not in the status.
func (d *Driver) Handle(ctx context.Context) Status {
	if _, err := d.Run(ctx); err != nil {
		logger.Error("run failed", nil, err)
		return StatusFailure
	}
	return StatusSuccess
}
