// Package sequence defines the vocabulary shared by every stage of a lazy
// key/value pipeline.
//
// A sequence is an ordered, possibly infinite stream of Pair values. Keys are
// not unique: a sequence is a list of pairs, never a map. Values are pulled
// one at a time through an Iterator, and an Iterable starts an independent run
// each time Iter is called.
//
// # Protocol
//
//   - Next returns (Pair{}, false, nil) once the sequence is exhausted.
//   - Close releases whatever the iterator holds and may be called more than once.
//   - Whoever opens an iterator closes it, on every exit path.
//
// Operations receive their upstream as an Iterable rather than an Iterator so
// that stages like Cycle can start the upstream again.
package sequence
