// Package store persists canonical events in a key-value store with a
// secondary fingerprint scan.
//
// The contract is deliberately small: put a full record by id, delete by id,
// and scan for records matching a (dataSource, eventSHA) pair. The Redis
// implementation is the production backend; Memory backs tests and local
// experimentation. Neither enforces fingerprint uniqueness itself - that is
// the reconciler's job.
package store
