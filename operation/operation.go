package operation

import (
	"context"

	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/validation"
)

// Predicate tests a single element.
type Predicate func(value, key any) bool

// Mapper transforms a value.
type Mapper func(value, key any) (any, error)

// Reducer folds a value into an accumulator.
type Reducer func(carry, value, key any) (any, error)

// Comparator orders two values. It returns a negative number when a sorts
// before b, zero when they are equivalent and a positive number otherwise.
type Comparator func(a, b any) int

// Callback observes an element.
type Callback func(value, key any) error

// op is the common Operation implementation: a name plus a factory for the
// iterator of one run.
type op struct {
	name string
	open func(ctx context.Context, upstream sequence.Iterable) sequence.Iterator
}

func (o *op) Name() string { return o.name }

func (o *op) Apply(ctx context.Context, upstream sequence.Iterable) sequence.Iterator {
	return o.open(ctx, upstream)
}

// stream builds an operation whose runs pass every upstream pair through a
// fresh step function.
func stream(name string, newStep func() stepFunc) *op {
	return &op{name: name, open: func(ctx context.Context, upstream sequence.Iterable) sequence.Iterator {
		return &stepIter{source: upstream.Iter(ctx), step: newStep()}
	}}
}

// expand builds an operation whose runs turn each upstream pair into zero or
// more pairs, with an optional flush once upstream is exhausted.
func expand(name string, newStage func() (expandFunc, flushFunc)) *op {
	return &op{name: name, open: func(ctx context.Context, upstream sequence.Iterable) sequence.Iterator {
		step, flush := newStage()
		return &expandIter{source: upstream.Iter(ctx), step: step, flush: flush}
	}}
}

// buffered builds an operation that materializes upstream on the first pull
// and emits whatever build returns.
func buffered(name string, build func(ctx context.Context, pairs []sequence.Pair) ([]sequence.Pair, error)) *op {
	return &op{name: name, open: func(ctx context.Context, upstream sequence.Iterable) sequence.Iterator {
		return &bufferedIter{source: upstream.Iter(ctx), build: build}
	}}
}

// requireCallbacks reports a configuration error for nil callbacks.
func requireCallbacks[F any](name string, fns []F, isNil func(F) bool) error {
	v := validation.New(name)
	for _, fn := range fns {
		if isNil(fn) {
			v.NotNil("callback", true)
			break
		}
	}
	return v.Validate()
}

func nilPredicate(p Predicate) bool { return p == nil }
func nilMapper(m Mapper) bool       { return m == nil }

// allHold reports whether every predicate holds for the element.
func allHold(preds []Predicate, value, key any) bool {
	for _, p := range preds {
		if !p(value, key) {
			return false
		}
	}
	return true
}

// anyHolds reports whether at least one predicate holds for the element.
func anyHolds(preds []Predicate, value, key any) bool {
	for _, p := range preds {
		if p(value, key) {
			return true
		}
	}
	return false
}

func valuesOf(pairs []sequence.Pair) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = p.Value
	}
	return out
}

func indexed(values []any) []sequence.Pair {
	out := make([]sequence.Pair, len(values))
	for i, v := range values {
		out[i] = sequence.Pair{Key: i, Value: v}
	}
	return out
}
