package sequence

import (
	"context"
	"iter"
)

// Slice returns an Iterator over a fixed list of pairs.
func Slice(pairs []Pair) Iterator {
	return &sliceIter{items: pairs}
}

// Values returns an Iterator over values keyed by their index.
func Values(values ...any) Iterator {
	pairs := make([]Pair, len(values))
	for i, v := range values {
		pairs[i] = Pair{Key: i, Value: v}
	}
	return &sliceIter{items: pairs}
}

// Empty returns an exhausted Iterator.
func Empty() Iterator { return &sliceIter{} }

// Fail returns an Iterator whose first Next reports err.
func Fail(err error) Iterator { return &failIter{err: err} }

// Func builds an Iterator from a next function and an optional close function.
func Func(next func(ctx context.Context) (Pair, bool, error), closeFn func() error) Iterator {
	return &funcIter{next: next, close: closeFn}
}

// Pairs returns an Iterable that replays pairs on every run.
func Pairs(pairs []Pair) Iterable {
	return IterableFunc(func(_ context.Context) Iterator {
		return Slice(pairs)
	})
}

// Collect runs src and returns all pairs. On error it returns the pairs
// collected so far along with the error.
func Collect(ctx context.Context, src Iterable) ([]Pair, error) {
	it := src.Iter(ctx)
	defer it.Close()
	var out []Pair
	for {
		p, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, p)
	}
}

// CollectValues runs src and returns its values in order.
func CollectValues(ctx context.Context, src Iterable) ([]any, error) {
	pairs, err := Collect(ctx, src)
	values := make([]any, len(pairs))
	for i, p := range pairs {
		values[i] = p.Value
	}
	return values, err
}

// Seq adapts src to a range-over-func sequence. The iterator is closed when the
// loop ends, including on break. An error is yielded once, as the last element.
func Seq(ctx context.Context, src Iterable) iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		it := src.Iter(ctx)
		defer it.Close()
		for {
			p, ok, err := it.Next(ctx)
			if err != nil {
				yield(Pair{}, err)
				return
			}
			if !ok || !yield(p, nil) {
				return
			}
		}
	}
}

// --- Internal iterators ---

type sliceIter struct {
	items []Pair
	index int
}

func (it *sliceIter) Next(_ context.Context) (Pair, bool, error) {
	if it.index >= len(it.items) {
		return Pair{}, false, nil
	}
	p := it.items[it.index]
	it.index++
	return p, true, nil
}

func (it *sliceIter) Close() error { return nil }

type failIter struct {
	err error
}

func (it *failIter) Next(_ context.Context) (Pair, bool, error) {
	return Pair{}, false, it.err
}

func (it *failIter) Close() error { return nil }

type funcIter struct {
	next   func(ctx context.Context) (Pair, bool, error)
	close  func() error
	closed bool
}

func (it *funcIter) Next(ctx context.Context) (Pair, bool, error) {
	if it.closed {
		return Pair{}, false, nil
	}
	return it.next(ctx)
}

func (it *funcIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.close != nil {
		return it.close()
	}
	return nil
}
