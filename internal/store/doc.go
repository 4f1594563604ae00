// Package store provides the SQLite-backed answer cache.
//
// The store is the durable source of truth between invocations. It keeps:
//   - Answers: one record per (year, day, part) with the computed value,
//     its submission status and the fingerprint it was computed from
//   - Submissions: an append-only log of remote submission attempts
//
// # Ordering
//
// All ordering uses the seq column (a logical clock), never timestamps.
// Queries that return several rows order by seq ASC, attempt_id ASC so the
// history reads the same on every run.
//
// # Database Configuration
//
//   - WAL mode: readers do not block the writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Concurrent invocations against the same puzzle may still race between a
// read and the following write. That usage is not supported.
package store
