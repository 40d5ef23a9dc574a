// Package storage selects a lesson storage backend at runtime and exposes
// a uniform CRUD façade over whichever one is active.
//
// Two backend variants exist: the transactional SQLite store (preferred,
// effectively unbounded) and the fallback store, a small quota-limited
// key-value file. The choice is made once per Store lifetime, on the first
// public operation, and is never re-evaluated: if the database becomes
// unavailable later, the process does not re-detect it.
//
// # Degradation policy
//
// Initialization never fails. If the transactional store cannot be opened,
// the error is logged and the Store silently degrades to the fallback
// backend. Likewise, read failures on any backend are absorbed into
// empty/absent results rather than surfacing errors; this favors
// availability over strict correctness and is visible in the façade's
// signatures (GetAllLessons returns a bare slice, GetLesson an ok-bool).
// Write failures propagate to the caller, except for the fallback's
// capacity errors on SaveAllLessons which are translated into
// QuotaExceededError with user guidance.
//
// # Migration
//
// On the first successful transactional open against a database that has
// never migrated, legacy records held by the fallback store are copied
// forward once, record by record, in order. The copy runs as a detached
// task: initialization returns before it finishes, so a caller reading
// immediately after startup may observe a partially migrated store. Callers
// that need the copy to have settled can block on AwaitMigration. The
// "migrated" flag is persisted in the database itself, so the copy happens
// at most once per database lifetime, not once per process, and is recorded
// even when there was nothing to copy.
//
// # Concurrency
//
// Concurrent first calls share a single backend-open attempt. No further
// coordination is provided: SaveAllLessons clears and reinserts without a
// wrapping transaction, so a concurrent reader can observe an empty or
// partial collection mid-replace. Operations run to completion; none is
// abandoned mid-flight.
package storage
