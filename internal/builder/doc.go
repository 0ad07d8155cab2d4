// Package builder orchestrates a full database build: it validates the
// dump directory layout, loads the country mappings, streams and
// aggregates the metadata log, renders the HTML snippets and flushes
// everything into the two output stores. It is the coordinator between
// all other components.
package builder
