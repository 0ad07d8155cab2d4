// Package store persists aggregated word groups into the two output
// SQLite databases: the "complex" store (words plus one child row per
// audio file) and the "simple" store (a flat mdx table for generic
// dictionary lookup formats). Writes are batched into transactions so
// that an interrupted run loses at most the current batch, and upserts
// are insert-or-replace per key so that a re-run converges to the same
// stores.
package store
