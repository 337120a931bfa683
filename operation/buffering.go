package operation

import (
	"context"
	"slices"

	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/util"
	"github.com/kbukum/collection/validation"
)

// Distinct drops values equal to one seen earlier, keeping the first
// occurrence with its original key. Equality is util.Equal: hashable values
// are tracked in a map, the rest with a linear scan.
func Distinct() sequence.Operation {
	return stream("distinct", func() stepFunc {
		seen := util.NewSet()
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if seen.Add(p.Value) {
				return p, emit, nil
			}
			return p, skip, nil
		}
	})
}

type windowParams struct {
	Size int `mapstructure:"size" validate:"gte=0"`
}

// Window replaces each value with a []any of that value and up to size
// values before it. The first values produce growing windows, every later
// one a full window of size+1. Keys are kept. A size of 0 passes the
// sequence through unchanged.
func Window(size int) (sequence.Operation, error) {
	if err := validation.Operation("window", windowParams{Size: size}); err != nil {
		return nil, err
	}
	if size == 0 {
		return &op{name: "window", open: func(ctx context.Context, upstream sequence.Iterable) sequence.Iterator {
			return upstream.Iter(ctx)
		}}, nil
	}
	return stream("window", func() stepFunc {
		buf := make([]any, 0, size+1)
		return func(_ context.Context, p sequence.Pair) (sequence.Pair, verdict, error) {
			if len(buf) == size+1 {
				buf = buf[1:]
			}
			buf = append(buf, p.Value)
			return sequence.Pair{Key: p.Key, Value: slices.Clone(buf)}, emit, nil
		}
	}), nil
}

// Split cuts the values into []any chunks. An element for which any
// predicate holds closes the current chunk, if it is not empty, and opens
// the next one. Chunks are keyed by position.
func Split(preds ...Predicate) (sequence.Operation, error) {
	if err := requireCallbacks("split", preds, nilPredicate); err != nil {
		return nil, err
	}
	return expand("split", func() (expandFunc, flushFunc) {
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
			var out []sequence.Pair
			if anyHolds(preds, p.Value, p.Key) {
				out = cut()
			}
			buf = append(buf, p.Value)
			return out, nil
		}
		flush := func(context.Context) ([]sequence.Pair, error) {
			return cut(), nil
		}
		return step, flush
	}), nil
}

type chunkParams struct {
	Size int `mapstructure:"size" validate:"gte=0"`
	Step int `mapstructure:"step" validate:"gte=1"`
}

// Chunk groups values into []any chunks of size, starting a new chunk every
// step values (size by default). A step below size makes chunks overlap, a
// step above size skips values between chunks. A trailing partial chunk is
// emitted only if it holds values no earlier chunk did. A size of 0 yields
// an empty sequence. Chunks are keyed by position.
func Chunk(size int, step ...int) (sequence.Operation, error) {
	params := chunkParams{Size: size, Step: size}
	if len(step) > 0 {
		params.Step = step[0]
	}
	if size == 0 {
		if err := validation.New("chunk").NonNegative("step", params.Step).Validate(); err != nil {
			return nil, err
		}
		return emptyOp("chunk"), nil
	}
	if err := validation.Operation("chunk", params); err != nil {
		return nil, err
	}
	return expand("chunk", func() (expandFunc, flushFunc) {
		var (
			buf   []any // values from index start onward
			start int   // index of the next chunk's first value
			index int
			pos   int
		)
		lastEmit := -1
		step := func(_ context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			i := index
			index++
			if i < start {
				return nil, nil
			}
			buf = append(buf, p.Value)
			if i != start+params.Size-1 {
				return nil, nil
			}
			out := []sequence.Pair{{Key: pos, Value: slices.Clone(buf[:params.Size])}}
			pos++
			lastEmit = i
			start += params.Step
			if drop := min(params.Step, len(buf)); drop > 0 {
				buf = buf[drop:]
			}
			return out, nil
		}
		flush := func(context.Context) ([]sequence.Pair, error) {
			if len(buf) == 0 || index-1 <= lastEmit {
				return nil, nil
			}
			return []sequence.Pair{{Key: pos, Value: buf}}, nil
		}
		return step, flush
	}), nil
}

// Cycle replays the upstream sequence limit times, or forever when limit is
// 0 or omitted. Each pass starts a new run of upstream, so a one-shot source
// must be cached first. A pass that yields nothing ends the cycle.
func Cycle(limit ...int) (sequence.Operation, error) {
	passes := 0
	if len(limit) > 0 {
		passes = limit[0]
	}
	if err := validation.New("cycle").NonNegative("limit", passes).Validate(); err != nil {
		return nil, err
	}
	return &op{name: "cycle", open: func(_ context.Context, upstream sequence.Iterable) sequence.Iterator {
		return &cycleIter{upstream: upstream, limit: passes}
	}}, nil
}

type cycleIter struct {
	upstream sequence.Iterable
	current  sequence.Iterator
	limit    int
	passes   int
	emitted  bool
	done     bool
}

func (it *cycleIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	for !it.done {
		if it.current == nil {
			if err := ctx.Err(); err != nil {
				return sequence.Pair{}, false, err
			}
			it.current = it.upstream.Iter(ctx)
			it.emitted = false
		}
		p, ok, err := it.current.Next(ctx)
		if err != nil {
			return sequence.Pair{}, false, err
		}
		if ok {
			it.emitted = true
			return p, true, nil
		}
		if err := it.current.Close(); err != nil {
			return sequence.Pair{}, false, err
		}
		it.current = nil
		it.passes++
		if !it.emitted || (it.limit > 0 && it.passes >= it.limit) {
			it.done = true
		}
	}
	return sequence.Pair{}, false, nil
}

func (it *cycleIter) Close() error {
	it.done = true
	if it.current != nil {
		err := it.current.Close()
		it.current = nil
		return err
	}
	return nil
}

// SortBy selects what Sort orders on.
type SortBy string

const (
	// SortByValues orders pairs by value.
	SortByValues SortBy = "values"
	// SortByKeys orders pairs by key.
	SortByKeys SortBy = "keys"
)

type sortParams struct {
	By string `mapstructure:"by" validate:"oneof=values keys"`
}

// Sort orders the pairs by value or key with cmp, util.Compare by default.
// The sort is stable and reads the whole sequence first.
func Sort(by SortBy, cmp ...Comparator) (sequence.Operation, error) {
	if err := validation.Operation("sort", sortParams{By: string(by)}); err != nil {
		return nil, err
	}
	compare := Comparator(util.Compare)
	if len(cmp) > 0 && cmp[0] != nil {
		compare = cmp[0]
	}
	return buffered("sort", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		slices.SortStableFunc(pairs, func(a, b sequence.Pair) int {
			if by == SortByKeys {
				return compare(a.Key, b.Key)
			}
			return compare(a.Value, b.Value)
		})
		return pairs, nil
	}), nil
}

// Reverse emits the pairs in reverse order.
func Reverse() sequence.Operation {
	return buffered("reverse", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		slices.Reverse(pairs)
		return pairs, nil
	})
}

// Frequency emits each distinct value once, in first-seen order, keyed by
// the number of times it occurs.
func Frequency() sequence.Operation {
	return buffered("frequency", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		var (
			idx    valueIndex
			values []any
			counts []int
		)
		for _, p := range pairs {
			i, ok := idx.lookup(p.Value)
			if !ok {
				i = len(values)
				idx.add(p.Value, i)
				values = append(values, p.Value)
				counts = append(counts, 0)
			}
			counts[i]++
		}
		out := make([]sequence.Pair, len(values))
		for i, v := range values {
			out[i] = sequence.Pair{Key: counts[i], Value: v}
		}
		return out, nil
	})
}

// GroupFunc computes the group of an element.
type GroupFunc func(value, key any) any

// Group collects values into []any groups keyed by fn(value, key), or by
// the element's own key when fn is omitted. Groups come out in first-seen
// order.
func Group(fn ...GroupFunc) sequence.Operation {
	groupOf := func(_, key any) any { return key }
	if len(fn) > 0 && fn[0] != nil {
		groupOf = fn[0]
	}
	return buffered("group", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		var (
			idx    valueIndex
			keys   []any
			groups [][]any
		)
		for _, p := range pairs {
			g := groupOf(p.Value, p.Key)
			i, ok := idx.lookup(g)
			if !ok {
				i = len(keys)
				idx.add(g, i)
				keys = append(keys, g)
				groups = append(groups, nil)
			}
			groups[i] = append(groups[i], p.Value)
		}
		out := make([]sequence.Pair, len(keys))
		for i, k := range keys {
			out[i] = sequence.Pair{Key: k, Value: groups[i]}
		}
		return out, nil
	})
}

// valueIndex maps values to positions under util.Equal.
type valueIndex struct {
	hashed  map[any]int
	rest    []any
	restPos []int
}

func (x *valueIndex) lookup(v any) (int, bool) {
	if util.Keyable(v) {
		i, ok := x.hashed[v]
		return i, ok
	}
	if j := util.IndexOf(x.rest, v); j >= 0 {
		return x.restPos[j], true
	}
	return 0, false
}

func (x *valueIndex) add(v any, i int) {
	if util.Keyable(v) {
		if x.hashed == nil {
			x.hashed = make(map[any]int)
		}
		x.hashed[v] = i
		return
	}
	x.rest = append(x.rest, v)
	x.restPos = append(x.restPos, i)
}

// Shuffle emits the pairs in random order. With a seed the order is the same
// on every run.
func Shuffle(seed ...uint64) sequence.Operation {
	return buffered("shuffle", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		rng := newRand(seed)
		rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		return pairs, nil
	})
}

// Random emits count pairs picked at random, fewer if the sequence is
// shorter.
func Random(count int, seed ...uint64) (sequence.Operation, error) {
	if err := validation.New("random").Min("count", count, 1).Validate(); err != nil {
		return nil, err
	}
	return buffered("random", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		rng := newRand(seed)
		rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		return pairs[:min(count, len(pairs))], nil
	}), nil
}

// Product emits the cartesian product of the values with the values of
// others as []any tuples, keyed by position. others are read in full on the
// first pull; the sequence itself is streamed.
func Product(others ...sequence.Iterable) sequence.Operation {
	return expand("product", func() (expandFunc, flushFunc) {
		var (
			lists  [][]any
			loaded bool
			pos    int
		)
		return func(ctx context.Context, p sequence.Pair) ([]sequence.Pair, error) {
			if !loaded {
				loaded = true
				for _, o := range others {
					values, err := sequence.CollectValues(ctx, o)
					if err != nil {
						return nil, err
					}
					lists = append(lists, values)
				}
			}
			var out []sequence.Pair
			for _, tuple := range cartesian([]any{p.Value}, lists) {
				out = append(out, sequence.Pair{Key: pos, Value: tuple})
				pos++
			}
			return out, nil
		}, nil
	})
}

func cartesian(prefix []any, lists [][]any) [][]any {
	if len(lists) == 0 {
		return [][]any{slices.Clone(prefix)}
	}
	var out [][]any
	for _, v := range lists[0] {
		out = append(out, cartesian(append(prefix, v), lists[1:])...)
	}
	return out
}

// Unzip reverses Zip: list values are read as rows and emitted as columns.
// Short rows are padded with nil. Columns are keyed by position.
func Unzip() sequence.Operation {
	return buffered("unzip", func(_ context.Context, pairs []sequence.Pair) ([]sequence.Pair, error) {
		rows := make([][]any, 0, len(pairs))
		width := 0
		for _, p := range pairs {
			var row []any
			if util.IsList(p.Value) {
				row = util.ListValues(p.Value)
			} else {
				row = []any{p.Value}
			}
			rows = append(rows, row)
			width = max(width, len(row))
		}
		cols := make([]any, width)
		for c := range cols {
			col := make([]any, len(rows))
			for r, row := range rows {
				if c < len(row) {
					col[r] = row[c]
				}
			}
			cols[c] = col
		}
		return indexed(cols), nil
	})
}
