package operation

import (
	"context"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/util"
	"github.com/kbukum/collection/validation"
)

// Map applies mappers to every value, left to right. Keys are kept.
func Map(mappers ...Mapper) (sequence.Operation, error) {
	if err := requireCallbacks("map", mappers, nilMapper); err != nil {
		return nil, err
	}
	return stream("map", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			v := p.Value
			for _, m := range mappers {
				var err error
				if v, err = m(v, p.Key); err != nil {
					return sequence.Pair{}, halt, err
				}
			}
			return sequence.Pair{Key: p.Key, Value: v}, emit, nil
		}
	}), nil
}

// Filter keeps elements for which every predicate holds. With no predicates
// it keeps truthy values.
func Filter(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("filter", preds, nilPredicate); err != nil {
		return nil, err
	}
	return stream("filter", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if keep(preds, p) {
				return p, emit, nil
			}
			return p, skip, nil
		}
	}), nil
}

// Reject drops the elements Filter would keep.
func Reject(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("reject", preds, nilPredicate); err != nil {
		return nil, err
	}
	return stream("reject", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if keep(preds, p) {
				return p, skip, nil
			}
			return p, emit, nil
		}
	}), nil
}

func keep(preds []Predicate, p sequence.Pair) bool {
	if len(preds) == 0 {
		return util.Truthy(p.Value)
	}
	return allHold(preds, p.Value, p.Key)
}

// Limit keeps at most count elements after skipping offset of them. It
// stops pulling from upstream as soon as count elements were emitted, so it
// is safe on infinite sequences. A count below 1 is out of bounds.
func Limit(count int, offset ...int) (sequence.Operation, error) {
	if count < 1 {
		return nil, errors.OutOfBounds("limit", "count", count)
	}
	skipN := 0
	if len(offset) > 0 {
		skipN = offset[0]
	}
	if err := validation.New("limit").NonNegative("offset", skipN).Validate(); err != nil {
		return nil, err
	}
	return limit("limit", skipN, count), nil
}

func limit(name string, offset, count int) *op {
	return stream(name, func() stepFunc {
		seen, taken := 0, 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if seen < offset {
				seen++
				return p, skip, nil
			}
			taken++
			if taken >= count {
				return p, emitLast, nil
			}
			return p, emit, nil
		}
	})
}

// Drop skips the first elements. Several counts are added up.
func Drop(counts ...int) (sequence.Operation, error) {
	v := validation.New("drop")
	total := 0
	for _, c := range counts {
		v.NonNegative("count", c)
		total += c
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return drop("drop", total), nil
}

func drop(name string, n int) *op {
	return stream(name, func() stepFunc {
		seen := 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if seen < n {
				seen++
				return p, skip, nil
			}
			return p, emit, nil
		}
	})
}

// DropWhile skips elements while every predicate holds, then keeps the rest.
func DropWhile(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("drop_while", preds, nilPredicate); err != nil {
		return nil, err
	}
	return stream("drop_while", func() stepFunc {
		dropping := true
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if dropping && allHold(preds, p.Value, p.Key) {
				return p, skip, nil
			}
			dropping = false
			return p, emit, nil
		}
	}), nil
}

// TakeWhile keeps elements while every predicate holds and ends at the first
// element that fails one.
func TakeWhile(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("take_while", preds, nilPredicate); err != nil {
		return nil, err
	}
	return stream("take_while", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if allHold(preds, p.Value, p.Key) {
				return p, emit, nil
			}
			return p, halt, nil
		}
	}), nil
}

// Until keeps elements up to and including the first one for which any
// predicate holds.
func Until(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("until", preds, nilPredicate); err != nil {
		return nil, err
	}
	return stream("until", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if anyHolds(preds, p.Value, p.Key) {
				return p, emitLast, nil
			}
			return p, emit, nil
		}
	}), nil
}

// Since skips elements until every predicate holds for one, then keeps that
// element and everything after it.
func Since(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("since", preds, nilPredicate); err != nil {
		return nil, err
	}
	return stream("since", func() stepFunc {
		started := false
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if !started && !allHold(preds, p.Value, p.Key) {
				return p, skip, nil
			}
			started = true
			return p, emit, nil
		}
	}), nil
}

type sliceParams struct {
	Offset int `mapstructure:"offset" validate:"gte=0"`
	Length int `mapstructure:"length" validate:"gte=0"`
}

// Slice skips offset elements and keeps the next length of them, or all the
// rest when no length is given.
func Slice(offset int, length ...int) (sequence.Operation, error) {
	params := sliceParams{Offset: offset, Length: -1}
	if len(length) > 0 {
		params.Length = length[0]
		if err := validation.Operation("slice", params); err != nil {
			return nil, err
		}
	} else if err := validation.New("slice").NonNegative("offset", offset).Validate(); err != nil {
		return nil, err
	}
	switch params.Length {
	case -1:
		return drop("slice", offset), nil
	case 0:
		return emptyOp("slice"), nil
	}
	return limit("slice", offset, params.Length), nil
}

func emptyOp(name string) *op {
	return &op{name: name, open: func(context.Context, sequence.Iterable) sequence.Iterator {
		return sequence.Empty()
	}}
}

type nthParams struct {
	Step   int `mapstructure:"step" validate:"gte=1"`
	Offset int `mapstructure:"offset" validate:"gte=0"`
}

// Nth keeps every step-th element, counting positions from zero and keeping
// those whose position modulo step equals offset.
func Nth(step int, offset ...int) (sequence.Operation, error) {
	params := nthParams{Step: step}
	if len(offset) > 0 {
		params.Offset = offset[0]
	}
	if err := validation.Operation("nth", params); err != nil {
		return nil, err
	}
	return stream("nth", func() stepFunc {
		pos := 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			hit := pos%params.Step == params.Offset
			pos++
			if hit {
				return p, emit, nil
			}
			return p, skip, nil
		}
	}), nil
}

// Head keeps the first element only.
func Head() sequence.Operation { return limit("head", 0, 1) }

// Tail drops the first element.
func Tail() sequence.Operation { return drop("tail", 1) }

// Init drops the last element. It holds one element back to know whether it
// is the last.
func Init() sequence.Operation {
	return expand("init", func() (expandFunc, flushFunc) {
		var (
			held sequence.Pair
			has  bool
		)
		return func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			prev, had := held, has
			held, has = p, true
			if had {
				return []sequence.Pair{prev}, nil
			}
			return nil, nil
		}, nil
	})
}

// Append adds values after the sequence, keyed by their position in values.
func Append(values ...any) sequence.Operation {
	tail := sequence.Pairs(indexed(values))
	return &op{name: "append", open: func(_ context.Context, upstream sequence.Iterable) sequence.Iterator {
		return concat(upstream, tail)
	}}
}

// Prepend adds values before the sequence, keyed by their position in values.
func Prepend(values ...any) sequence.Operation {
	head := sequence.Pairs(indexed(values))
	return &op{name: "prepend", open: func(_ context.Context, upstream sequence.Iterable) sequence.Iterator {
		return concat(head, upstream)
	}}
}

// Merge adds the pairs of others after the sequence, keeping their keys.
func Merge(others ...sequence.Iterable) sequence.Operation {
	return &op{name: "merge", open: func(_ context.Context, upstream sequence.Iterable) sequence.Iterator {
		return concat(append([]sequence.Iterable{upstream}, others...)...)
	}}
}

// Keys replaces each element with its key, re-keyed by position.
func Keys() sequence.Operation {
	return stream("keys", func() stepFunc {
		i := 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			out := sequence.Pair{Key: i, Value: p.Key}
			i++
			return out, emit, nil
		}
	})
}

// Normalize re-keys the sequence 0, 1, 2, ...
func Normalize() sequence.Operation {
	return stream("normalize", func() stepFunc {
		i := 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			out := sequence.Pair{Key: i, Value: p.Value}
			i++
			return out, emit, nil
		}
	})
}

// Flip swaps keys and values.
func Flip() sequence.Operation {
	return stream("flip", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			return sequence.Pair{Key: p.Value, Value: p.Key}, emit, nil
		}
	})
}
