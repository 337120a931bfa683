package operation

import (
	"context"
	"math/rand/v2"
	"reflect"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/source"
	"github.com/kbukum/collection/util"
	"github.com/kbukum/collection/validation"
)

// Flatten replaces list values (slices, arrays and nested sequences) with
// their elements, up to depth levels deep. The output is keyed by position.
func Flatten(depth int) (sequence.Operation, error) {
	if err := validation.New("flatten").Min("depth", depth, 1).Validate(); err != nil {
		return nil, err
	}
	return expand("flatten", func() (expandFunc, flushFunc) {
		pos := 0
		return func(ctx context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			flat, err := flatten(ctx, p.Value, depth)
			if err != nil {
				return nil, err
			}
			out := make([]sequence.Pair, len(flat))
			for i, v := range flat {
				out[i] = sequence.Pair{Key: pos, Value: v}
				pos++
			}
			return out, nil
		}, nil
	}), nil
}

func flatten(ctx context.Context, v any, depth int) ([]any, error) {
	items, ok, err := listOf(ctx, v)
	if err != nil {
		return nil, err
	}
	if !ok || depth == 0 {
		return []any{v}, nil
	}
	var out []any
	for _, item := range items {
		sub, err := flatten(ctx, item, depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// listOf returns the elements of v when it is a list or a nested sequence.
func listOf(ctx context.Context, v any) ([]any, bool, error) {
	if it, ok := v.(sequence.Iterable); ok {
		values, err := sequence.CollectValues(ctx, it)
		return values, true, err
	}
	if util.IsList(v) {
		return util.ListValues(v), true, nil
	}
	return nil, false, nil
}

// Collapse replaces list values with their elements and drops every other
// value. The output is keyed by position.
func Collapse() sequence.Operation {
	return expand("collapse", func() (expandFunc, flushFunc) {
		pos := 0
		return func(ctx context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			items, ok, err := listOf(ctx, p.Value)
			if err != nil || !ok {
				return nil, err
			}
			out := make([]sequence.Pair, len(items))
			for i, v := range items {
				out[i] = sequence.Pair{Key: pos, Value: v}
				pos++
			}
			return out, nil
		}, nil
	})
}

// Unwrap replaces list and map values with their own pairs, keeping the
// inner keys. Map entries come out in natural key order. Other values pass
// through.
func Unwrap() sequence.Operation {
	return expand("unwrap", func() (expandFunc, flushFunc) {
		return func(ctx context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			if !util.IsList(p.Value) && !isMap(p.Value) {
				return []sequence.Pair{p}, nil
			}
			src, err := source.With(p.Value)
			if err != nil {
				return nil, err
			}
			return sequence.Collect(ctx, src)
		}, nil
	})
}

func isMap(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
}

// Wrap turns each pair into a one-entry map{key: value}, keyed by position.
func Wrap() sequence.Operation {
	return stream("wrap", func() stepFunc {
		i := 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if !util.Hashable(p.Key) {
				return p, halt, errors.UnhashableKey("wrap", p.Key)
			}
			out := sequence.Pair{Key: i, Value: map[any]any{p.Key: p.Value}}
			i++
			return out, emit, nil
		}
	})
}

// Pack turns each pair into a []any{key, value}, keyed by position.
func Pack() sequence.Operation {
	return stream("pack", func() stepFunc {
		i := 0
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			out := sequence.Pair{Key: i, Value: []any{p.Key, p.Value}}
			i++
			return out, emit, nil
		}
	})
}

// Unpack reverses Pack: two-element list values become pairs. Other values
// are dropped.
func Unpack() sequence.Operation {
	return stream("unpack", func() stepFunc {
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if !util.IsList(p.Value) {
				return p, skip, nil
			}
			kv := util.ListValues(p.Value)
			if len(kv) != 2 {
				return p, skip, nil
			}
			return sequence.Pair{Key: kv[0], Value: kv[1]}, emit, nil
		}
	})
}

// Pair reads values two at a time and emits the first as key and the second
// as value. A trailing odd value gets a nil value.
func Pair() sequence.Operation {
	return expand("pair", func() (expandFunc, flushFunc) {
		var (
			key    any
			hasKey bool
		)
		step := func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			if !hasKey {
				key, hasKey = p.Value, true
				return nil, nil
			}
			hasKey = false
			return []sequence.Pair{{Key: key, Value: p.Value}}, nil
		}
		flush := func(context.Context) ([]sequence.Pair, error) {
			if !hasKey {
				return nil, nil
			}
			return []sequence.Pair{{Key: key}}, nil
		}
		return step, flush
	})
}

// Unpair reverses Pair: every key and value become two consecutive values,
// keyed by position.
func Unpair() sequence.Operation {
	return expand("unpair", func() (expandFunc, flushFunc) {
		pos := 0
		return func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			out := []sequence.Pair{{Key: pos, Value: p.Key}, {Key: pos + 1, Value: p.Value}}
			pos += 2
			return out, nil
		}, nil
	})
}

// Explode cuts the values into []any chunks at every value equal to one of
// separators. Separators are dropped and so are empty chunks. Chunks are
// keyed by position.
func Explode(separators ...any) sequence.Operation {
	seps := util.NewSet(separators...)
	return expand("explode", func() (expandFunc, flushFunc) {
		var (
			buf []any
			pos int
		)
		cut := func() []sequence.Pair {
			if len(buf) == 0 {
				return nil
			}
			out := []sequence.Pair{{Key: pos, Value: buf}}
			buf = nil
			pos++
			return out
		}
		step := func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			if seps.Contains(p.Value) {
				return cut(), nil
			}
			buf = append(buf, p.Value)
			return nil, nil
		}
		flush := func(context.Context) ([]sequence.Pair, error) {
			return cut(), nil
		}
		return step, flush
	})
}

// RSample keeps each element with the given probability. With a seed the
// selection is the same on every run.
func RSample(probability float64, seed ...uint64) (sequence.Operation, error) {
	if err := validation.New("rsample").Probability("probability", probability).Validate(); err != nil {
		return nil, err
	}
	return stream("rsample", func() stepFunc {
		rng := newRand(seed)
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if rng.Float64() < probability {
				return p, emit, nil
			}
			return p, skip, nil
		}
	}), nil
}

// newRand returns a generator seeded with seed[0], or a randomly seeded one.
func newRand(seed []uint64) *rand.Rand {
	if len(seed) > 0 {
		return rand.New(rand.NewPCG(seed[0], seed[0]))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
