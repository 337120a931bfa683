package operation

import (
	"context"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/util"
	"github.com/kbukum/collection/validation"
)

// Zip combines the sequence with others element by element. Each output
// value is a []any holding one value per sequence; the output is as long as
// the longest input, with nil standing in for exhausted ones. Keys are
// positions.
func Zip(others ...sequence.Iterable) sequence.Operation {
	return &op{name: "zip", open: func(ctx context.Context, upstream sequence.Iterable) sequence.Iterator {
		iters := make([]sequence.Iterator, 0, len(others)+1)
		iters = append(iters, upstream.Iter(ctx))
		for _, o := range others {
			iters = append(iters, o.Iter(ctx))
		}
		live := make([]bool, len(iters))
		for i := range live {
			live[i] = true
		}
		return &zipIter{iters: iters, live: live}
	}}
}

type zipIter struct {
	iters []sequence.Iterator
	live  []bool
	pos   int
}

func (it *zipIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	row := make([]any, len(it.iters))
	got := false
	for i, src := range it.iters {
		if !it.live[i] {
			continue
		}
		p, ok, err := src.Next(ctx)
		if err != nil {
			return sequence.Pair{}, false, err
		}
		if !ok {
			it.live[i] = false
			continue
		}
		row[i] = p.Value
		got = true
	}
	if !got {
		return sequence.Pair{}, false, nil
	}
	p := sequence.Pair{Key: it.pos, Value: row}
	it.pos++
	return p, true, nil
}

func (it *zipIter) Close() error {
	var first error
	for _, src := range it.iters {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type intersperseParams struct {
	Every   int `mapstructure:"every" validate:"gte=1"`
	StartAt int `mapstructure:"start_at" validate:"gte=0"`
}

// Intersperse inserts element before every every-th value, counting from
// startAt. opts are every (default 1) and startAt (default 0). The output is
// re-keyed by position. An every of 0 is rejected rather than read as
// "never": every must be at least 1 and startAt must not be negative.
func Intersperse(element any, opts ...int) (sequence.Operation, error) {
	params := intersperseParams{Every: 1}
	if len(opts) > 0 {
		params.Every = opts[0]
	}
	if len(opts) > 1 {
		params.StartAt = opts[1]
	}
	if err := validation.Operation("intersperse", params); err != nil {
		return nil, err
	}
	return expand("intersperse", func() (expandFunc, flushFunc) {
		counter, pos := params.StartAt, 0
		return func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			var out []sequence.Pair
			if counter%params.Every == 0 {
				out = append(out, sequence.Pair{Key: pos, Value: element})
				pos++
			}
			counter++
			out = append(out, sequence.Pair{Key: pos, Value: p.Value})
			pos++
			return out, nil
		}, nil
	}), nil
}

// Pad appends value until the sequence holds at least size elements. Padding
// elements are keyed by their position.
func Pad(size int, value any) (sequence.Operation, error) {
	if err := validation.New("pad").NonNegative("size", size).Validate(); err != nil {
		return nil, err
	}
	return expand("pad", func() (expandFunc, flushFunc) {
		n := 0
		step := func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			n++
			return []sequence.Pair{p}, nil
		}
		flush := func(context.Context) ([]sequence.Pair, error) {
			var out []sequence.Pair
			for ; n < size; n++ {
				out = append(out, sequence.Pair{Key: n, Value: value})
			}
			return out, nil
		}
		return step, flush
	}), nil
}

// Compact removes the given values, or nil values when none are given.
func Compact(values ...any) sequence.Operation {
	if len(values) == 0 {
		values = []any{nil}
	}
	return matchValues("compact", values, false)
}

// Diff removes values equal to any of values.
func Diff(values ...any) sequence.Operation { return matchValues("diff", values, false) }

// Intersect keeps only values equal to one of values.
func Intersect(values ...any) sequence.Operation { return matchValues("intersect", values, true) }

// DiffKeys removes elements whose key equals one of keys.
func DiffKeys(keys ...any) sequence.Operation { return matchKeys("diff_keys", keys, false) }

// IntersectKeys keeps only elements whose key equals one of keys.
func IntersectKeys(keys ...any) sequence.Operation { return matchKeys("intersect_keys", keys, true) }

func matchValues(name string, values []any, want bool) *op {
	set := util.NewSet(values...)
	return stream(name, func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if set.Contains(p.Value) == want {
				return p, emit, nil
			}
			return p, skip, nil
		}
	})
}

func matchKeys(name string, keys []any, want bool) *op {
	set := util.NewSet(keys...)
	return stream(name, func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if set.Contains(p.Key) == want {
				return p, emit, nil
			}
			return p, skip, nil
		}
	})
}

// Combine replaces the keys of the sequence with keys, in order. The
// sequence and keys must be the same length; a mismatch fails the run with
// LENGTH_MISMATCH when it is detected.
func Combine(keys ...any) sequence.Operation {
	return expand("combine", func() (expandFunc, flushFunc) {
		i := 0
		step := func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			if i >= len(keys) {
				return nil, errors.LengthMismatch("combine", len(keys), i+1)
			}
			out := sequence.Pair{Key: keys[i], Value: p.Value}
			i++
			return []sequence.Pair{out}, nil
		}
		flush := func(context.Context) ([]sequence.Pair, error) {
			if i != len(keys) {
				return nil, errors.LengthMismatch("combine", len(keys), i)
			}
			return nil, nil
		}
		return step, flush
	})
}

// Apply calls every callback on each element and passes the element on.
// The first callback error ends the run.
func Apply(callbacks ...Callback) (sequence.Operation, error) {
	if err := requireCallbacks("apply", callbacks, func(c Callback) bool { return c == nil }); err != nil {
		return nil, err
	}
	return stream("apply", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			for _, c := range callbacks {
				if err := c(p.Value, p.Key); err != nil {
					return p, halt, err
				}
			}
			return p, emit, nil
		}
	}), nil
}

// IfThenElse maps values matching cond with then and the others with
// otherwise. A nil otherwise leaves non-matching values unchanged.
func IfThenElse(cond Predicate, then Mapper, otherwise Mapper) (sequence.Operation, error) {
	v := validation.New("if_then_else").
		NotNil("condition", cond == nil).
		NotNil("then", then == nil)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return stream("if_then_else", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			m := then
			if !cond(p.Value, p.Key) {
				if otherwise == nil {
					return p, emit, nil
				}
				m = otherwise
			}
			out, err := m(p.Value, p.Key)
			if err != nil {
				return p, halt, err
			}
			return sequence.Pair{Key: p.Key, Value: out}, emit, nil
		}
	}), nil
}

// Reduction emits the running result of folding reducer over the sequence,
// starting from initial. Keys are kept.
func Reduction(reducer Reducer, initial any) (sequence.Operation, error) {
	if err := validation.New("reduction").NotNil("callback", reducer == nil).Validate(); err != nil {
		return nil, err
	}
	return stream("reduction", func() stepFunc {
		carry := initial
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			next, err := reducer(carry, p.Value, p.Key)
			if err != nil {
				return p, halt, err
			}
			carry = next
			return sequence.Pair{Key: p.Key, Value: carry}, emit, nil
		}
	}), nil
}
