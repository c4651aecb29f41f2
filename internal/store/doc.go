// Package store provides SQLite-backed durable storage for panel datasets and
// event-study run history.
//
// A dataset is persisted as:
//   - datasets: name, row count, declared sort key (JSON array)
//   - columns: name, position, storage kind, variable label
//   - cells: sparse values; only non-zero cells are written, missing cells
//     are written as NULL, absent cells load as 0
//   - value_labels: integer code -> text per column
//
// SaveFrame replaces a dataset atomically in one transaction, so a failed
// save leaves the previous version intact.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity (cascading deletes)
package store
