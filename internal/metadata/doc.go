// Package metadata streams a Forvo metadata log (newline-delimited JSON,
// one audio record per line) and aggregates the records into word groups
// keyed by (language, headword). Only records whose audio file actually
// exists in the dump survive aggregation; malformed lines are skipped and
// never abort a run.
package metadata
