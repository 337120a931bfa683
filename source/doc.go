// Package source turns Go values into sequences.
//
// With accepts almost any value and picks an adapter by its shape; the typed
// constructors (FromSlice, FromReader, FromQuery, Range, ...) do the same
// without reflection.
//
// Sources come in two kinds. Rewindable sources (slices, maps, strings,
// generator functions, ranges, SQL queries) start over on every Iter.
// One-shot sources (readers, channels, *sql.Rows, raw iterators) serve the
// first Iter only; any later Iter fails with SOURCE_CONSUMED. Wrap a one-shot
// source in a cache to read it more than once.
//
// Resource-backed sources release their handle as soon as they are drained,
// fail, or are closed early, whichever comes first.
package source
