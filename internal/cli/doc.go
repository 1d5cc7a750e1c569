// Package cli implements the gt-events command-line interface.
//
// The binary performs exactly one collection run per invocation and is meant
// to be triggered by an external scheduler (cron, CI, a serverless timer).
// The event store is selected by --redis-url or the REDIS_URL environment
// variable; when neither is set the run is a dry run.
package cli
