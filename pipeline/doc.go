// Package pipeline provides the immutable, lazy pipeline over key/value
// sequences.
//
// A Pipeline is a source plus an ordered list of operations. Chaining an
// operation returns a new Pipeline and leaves the receiver untouched, so two
// chains built from the same prefix are independent. No operation and no
// user callback runs until a terminal (Count, Values, Implode, ...) or Iter
// pulls from the pipeline.
//
// # Usage
//
//	words := pipeline.With("the quick the lazy", " ").
//	    Distinct().
//	    Sort(operation.SortByValues)
//	out, err := words.Implode(ctx, ",") // "lazy,quick,the"
//
// Construction errors (a bad parameter, an unknown source shape) are kept in
// the node that caused them and inherited by every node chained after it.
// Err reports them eagerly; terminals return them.
//
// # Terminals
//
// Every terminal closes what it opens, on every exit path. Short-circuit
// terminals (First, Get, Current, Key, Contains, Has, Truthy, Falsy,
// Nullsy) stop pulling as soon as the answer is known, which makes them safe
// on infinite pipelines. Each terminal runs in a pipeline.<terminal> span.
//
// # Replay
//
// Iterating a pipeline twice recomputes it. Pipelines over one-shot sources
// (readers, channels, rows) fail the second time with SOURCE_CONSUMED unless
// Cache was called first.
package pipeline
