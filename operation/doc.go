// Package operation provides the transformations a pipeline chains together.
//
// Every constructor binds its parameters once and returns a
// sequence.Operation. Applying the operation never pulls from upstream;
// per-run state (seen sets, buffers, counters) lives in the iterator that
// Apply returns, so one operation value can serve any number of runs.
//
// Streaming operations pull only as far as they need to produce their next
// element. Buffering operations (Sort, Reverse, Frequency, Group, Shuffle,
// Random, Unzip) read the whole upstream on the first pull and never finish
// on an infinite sequence.
//
// Constructors that check their parameters return (sequence.Operation,
// error). Invalid parameters are reported as CONFIGURATION_ERROR, or
// OUT_OF_BOUNDS for Limit. Errors returned by user callbacks reach the caller
// unchanged.
package operation
