package sequence

import "context"

// Pair is a single key/value element of a sequence.
type Pair struct {
	Key   any
	Value any
}

// P builds a Pair.
func P(key, value any) Pair { return Pair{Key: key, Value: value} }

// Iterator provides pull-based sequential access to a stream of pairs.
type Iterator interface {
	// Next returns the next pair. Returns (Pair{}, false, nil) when exhausted.
	Next(ctx context.Context) (Pair, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Iterable produces a fresh Iterator for each run.
type Iterable interface {
	Iter(ctx context.Context) Iterator
}

// IterableFunc adapts a factory function to Iterable.
type IterableFunc func(ctx context.Context) Iterator

// Iter calls f.
func (f IterableFunc) Iter(ctx context.Context) Iterator { return f(ctx) }

// Operation is a configured transformation of an upstream sequence.
// Apply must not pull from upstream; pulling starts with the first Next call
// on the returned iterator.
type Operation interface {
	Apply(ctx context.Context, upstream Iterable) Iterator
}

// OperationFunc adapts a function to Operation.
type OperationFunc func(ctx context.Context, upstream Iterable) Iterator

// Apply calls f.
func (f OperationFunc) Apply(ctx context.Context, upstream Iterable) Iterator {
	return f(ctx, upstream)
}

// Named is implemented by operations that report a stable name for logs and spans.
type Named interface {
	Name() string
}

// NameOf returns op's name, or "custom" when it does not implement Named.
func NameOf(op Operation) string {
	if n, ok := op.(Named); ok {
		return n.Name()
	}
	return "custom"
}
