package source

import (
	"cmp"
	"context"
	"iter"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/validation"
)

// Empty returns a sequence with no elements.
func Empty() sequence.Iterable {
	return sequence.Pairs(nil)
}

// FromPairs returns a sequence of the given pairs, duplicate keys included.
func FromPairs(pairs ...sequence.Pair) sequence.Iterable {
	return sequence.Pairs(pairs)
}

// FromSlice returns the elements of items keyed by index.
func FromSlice[T any](items []T) sequence.Iterable {
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		i := 0
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			if i >= len(items) {
				return sequence.Pair{}, false, nil
			}
			p := sequence.Pair{Key: i, Value: items[i]}
			i++
			return p, true, nil
		}, nil)
	})
}

// FromValues returns values keyed by index.
func FromValues(values ...any) sequence.Iterable {
	return FromSlice(values)
}

// FromMap returns the entries of m in ascending key order.
func FromMap[K cmp.Ordered, V any](m map[K]V) sequence.Iterable {
	keys := slices.Sorted(maps.Keys(m))
	pairs := make([]sequence.Pair, len(keys))
	for i, k := range keys {
		pairs[i] = sequence.Pair{Key: k, Value: m[k]}
	}
	return sequence.Pairs(pairs)
}

// FromString returns the characters of s, or its parts split on sep when a
// non-empty separator is given. Elements are strings keyed by index.
func FromString(s string, sep ...string) sequence.Iterable {
	var parts []string
	if len(sep) > 0 && sep[0] != "" {
		parts = strings.Split(s, sep[0])
	} else {
		parts = make([]string, 0, len(s))
		for _, r := range s {
			parts = append(parts, string(r))
		}
	}
	return FromSlice(parts)
}

// FromSeq adapts a range-over-func generator. The generator runs again on
// every Iter and may be infinite; it is stopped when the iterator is closed.
func FromSeq[T any](seq iter.Seq[T]) sequence.Iterable {
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		var (
			next func() (T, bool)
			stop func()
			i    int
		)
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			if next == nil {
				next, stop = iter.Pull(seq)
			}
			v, ok := next()
			if !ok {
				return sequence.Pair{}, false, nil
			}
			p := sequence.Pair{Key: i, Value: v}
			i++
			return p, true, nil
		}, func() error {
			if stop != nil {
				stop()
			}
			return nil
		})
	})
}

// FromSeq2 adapts a key/value generator, keeping the keys it yields.
func FromSeq2[K, V any](seq iter.Seq2[K, V]) sequence.Iterable {
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		var (
			next func() (K, V, bool)
			stop func()
		)
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			if next == nil {
				next, stop = iter.Pull2(seq)
			}
			k, v, ok := next()
			if !ok {
				return sequence.Pair{}, false, nil
			}
			return sequence.Pair{Key: k, Value: v}, true, nil
		}, func() error {
			if stop != nil {
				stop()
			}
			return nil
		})
	})
}

// FromIterator wraps an already open iterator as a one-shot source.
func FromIterator(it sequence.Iterator) sequence.Iterable {
	return oneShot(kindIterator, func(context.Context) sequence.Iterator {
		return it
	})
}

// Range yields start, start+step, ... while below end (above end for a
// negative step). Values are float64 keyed by index. An end of math.Inf(1)
// makes the sequence infinite, and a zero step repeats start forever.
func Range(start, end, step float64) sequence.Iterable {
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		i := 0
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			cur := start + float64(i)*step
			if (step > 0 && cur >= end) || (step < 0 && cur <= end) || (step == 0 && start >= end) {
				return sequence.Pair{}, false, nil
			}
			p := sequence.Pair{Key: i, Value: cur}
			i++
			return p, true, nil
		}, nil)
	})
}

// Infinite returns Range's default upper bound.
func Infinite() float64 { return math.Inf(1) }

// Times yields fn(1) ... fn(n) keyed 0 ... n-1. A nil fn yields 1 ... n.
// A negative n is a configuration error.
func Times(n int, fn func(i int) (any, error)) (sequence.Iterable, error) {
	if err := validation.New("times").NonNegative("count", n).Validate(); err != nil {
		return nil, err
	}
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		i := 0
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			if i >= n {
				return sequence.Pair{}, false, nil
			}
			i++
			if fn == nil {
				return sequence.Pair{Key: i - 1, Value: i}, true, nil
			}
			v, err := fn(i)
			if err != nil {
				return sequence.Pair{}, false, err
			}
			return sequence.Pair{Key: i - 1, Value: v}, true, nil
		}, nil)
	}), nil
}

// Unfold applies fn to the current state, starting from seeds, and yields
// every new state forever. A state of one value is yielded as that value,
// larger states as []any.
func Unfold(fn func(state ...any) ([]any, error), seeds ...any) (sequence.Iterable, error) {
	if fn == nil {
		return nil, errors.Configuration("unfold", "callback is required")
	}
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		state := slices.Clone(seeds)
		i := 0
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			next, err := fn(state...)
			if err != nil {
				return sequence.Pair{}, false, err
			}
			state = next
			var v any = next
			if len(next) == 1 {
				v = next[0]
			}
			p := sequence.Pair{Key: i, Value: v}
			i++
			return p, true, nil
		}, nil)
	}), nil
}
