// Package store provides the persisted project/history stores behind
// the history machine: a SQLite store for real sessions and an
// in-memory store for tests and ephemeral editing.
//
// Both keep each project's log densely indexed in insertion order and
// implement the linear-history contract: appending while the project's
// pointer is behind the tail first discards everything beyond the
// pointer.
package store
