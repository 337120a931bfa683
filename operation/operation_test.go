package operation

import (
	"context"
	stderrors "errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/source"
)

func run(t *testing.T, op sequence.Operation, input any) []sequence.Pair {
	t.Helper()
	pairs, err := runErr(op, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pairs
}

func runErr(op sequence.Operation, input any) ([]sequence.Pair, error) {
	src := source.MustWith(input)
	stage := sequence.IterableFunc(func(ctx context.Context) sequence.Iterator {
		return op.Apply(ctx, src)
	})
	return sequence.Collect(context.Background(), stage)
}

func vals(pairs []sequence.Pair) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = p.Value
	}
	return out
}

func keysOf(pairs []sequence.Pair) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = p.Key
	}
	return out
}

func must(t *testing.T) func(sequence.Operation, error) sequence.Operation {
	return func(op sequence.Operation, err error) sequence.Operation {
		t.Helper()
		if err != nil {
			t.Fatalf("constructor error: %v", err)
		}
		return op
	}
}

func letters(from, to rune) []string {
	var out []string
	for r := from; r <= to; r++ {
		out = append(out, string(r))
	}
	return out
}

func naturals() sequence.Iterable {
	return source.Range(0, source.Infinite(), 1)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		input any
		size  int
		step  []int
		want  []any
	}{
		{"even split", letters('A', 'F'), 2, nil, []any{[]any{"A", "B"}, []any{"C", "D"}, []any{"E", "F"}}},
		{"trailing partial", letters('A', 'E'), 2, nil, []any{[]any{"A", "B"}, []any{"C", "D"}, []any{"E"}}},
		{"overlapping", letters('A', 'E'), 3, []int{1}, []any{[]any{"A", "B", "C"}, []any{"B", "C", "D"}, []any{"C", "D", "E"}}},
		{"skipping", letters('A', 'G'), 2, []int{3}, []any{[]any{"A", "B"}, []any{"D", "E"}, []any{"G"}}},
		{"zero size", letters('A', 'F'), 0, nil, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vals(run(t, must(t)(Chunk(tt.size, tt.step...)), tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunk_NegativeIsConfiguration(t *testing.T) {
	if _, err := Chunk(-1); !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
	if _, err := Chunk(2, -1); !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

func TestLimit(t *testing.T) {
	if _, err := Limit(0); !errors.IsCode(err, errors.ErrCodeOutOfBounds) {
		t.Fatalf("expected OUT_OF_BOUNDS, got %v", err)
	}
	if !errors.IsConfiguration(func() error { _, err := Limit(0); return err }()) {
		t.Error("out of bounds should count as a configuration error")
	}

	got := vals(run(t, must(t)(Limit(3)), naturals()))
	if !reflect.DeepEqual(got, []any{0.0, 1.0, 2.0}) {
		t.Errorf("got %v", got)
	}

	got = vals(run(t, must(t)(Limit(2, 1)), []int{1, 2, 3, 4}))
	if !reflect.DeepEqual(got, []any{2, 3}) {
		t.Errorf("with offset: got %v", got)
	}
}

func TestLimit_StopsPulling(t *testing.T) {
	pulled := 0
	src := source.FromSeq[int](func(yield func(int) bool) {
		for i := 0; ; i++ {
			pulled++
			if !yield(i) {
				return
			}
		}
	})
	_ = run(t, must(t)(Limit(2)), src)
	if pulled != 2 {
		t.Errorf("expected 2 pulls, got %d", pulled)
	}
}

func TestDistinct(t *testing.T) {
	pairs := run(t, Distinct(), []int{1, 1, 2, 2, 3, 3})
	if got := vals(pairs); !reflect.DeepEqual(got, []any{1, 2, 3}) {
		t.Errorf("values: got %v", got)
	}
	if got := keysOf(pairs); !reflect.DeepEqual(got, []any{0, 2, 4}) {
		t.Errorf("keys: got %v", got)
	}
}

func TestDistinct_StrictAndUnhashable(t *testing.T) {
	input := []any{1, int64(1), "1", []int{1}, []int{1}, map[string]int{"a": 1}, map[string]int{"a": 1}}
	got := vals(run(t, Distinct(), input))
	want := []any{1, int64(1), "1", []int{1}, map[string]int{"a": 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDistinct_NaN(t *testing.T) {
	input := []float64{math.NaN(), math.NaN(), 1}
	got := vals(run(t, Distinct(), input))
	if len(got) != 2 || !math.IsNaN(got[0].(float64)) || got[1] != 1.0 {
		t.Errorf("expected one NaN and 1, got %v", got)
	}

	freq := run(t, Frequency(), input)
	if len(freq) != 2 || freq[0].Key != 2 || !math.IsNaN(freq[0].Value.(float64)) {
		t.Errorf("expected NaN counted twice, got %v", freq)
	}
}

func TestWindow(t *testing.T) {
	got := vals(run(t, must(t)(Window(2)), letters('a', 'e')))
	want := []any{
		[]any{"a"},
		[]any{"a", "b"},
		[]any{"a", "b", "c"},
		[]any{"b", "c", "d"},
		[]any{"c", "d", "e"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := vals(run(t, must(t)(Window(0)), []int{1, 2})); !reflect.DeepEqual(got, []any{1, 2}) {
		t.Errorf("window 0 should pass through, got %v", got)
	}
	if _, err := Window(-1); !errors.IsConfiguration(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestWindow_Infinite(t *testing.T) {
	got := vals(run(t, must(t)(Limit(2)), sequence.IterableFunc(func(ctx context.Context) sequence.Iterator {
		return must(t)(Window(1)).Apply(ctx, naturals())
	})))
	want := []any{[]any{0.0}, []any{0.0, 1.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplit(t *testing.T) {
	isUpper := func(v, _ any) bool {
		s := v.(string)
		return s == strings.ToUpper(s)
	}
	got := vals(run(t, must(t)(Split(isUpper)), "HelloWorldFoo"))
	want := []any{
		[]any{"H", "e", "l", "l", "o"},
		[]any{"W", "o", "r", "l", "d"},
		[]any{"F", "o", "o"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCycle(t *testing.T) {
	got := vals(run(t, must(t)(Cycle(2)), []int{1, 2}))
	if !reflect.DeepEqual(got, []any{1, 2, 1, 2}) {
		t.Errorf("got %v", got)
	}

	got = vals(run(t, must(t)(Limit(5)), sequence.IterableFunc(func(ctx context.Context) sequence.Iterator {
		return must(t)(Cycle()).Apply(ctx, source.MustWith([]string{"a", "b"}))
	})))
	if !reflect.DeepEqual(got, []any{"a", "b", "a", "b", "a"}) {
		t.Errorf("infinite: got %v", got)
	}

	if got := run(t, must(t)(Cycle()), []int{}); len(got) != 0 {
		t.Errorf("empty upstream should end the cycle, got %v", got)
	}
}

func TestCycle_OneShotUpstream(t *testing.T) {
	_, err := runErr(must(t)(Cycle(2)), source.FromIterator(sequence.Values("a")))
	if !errors.IsCode(err, errors.ErrCodeSourceConsumed) {
		t.Errorf("expected SOURCE_CONSUMED, got %v", err)
	}
}

func TestSort(t *testing.T) {
	input := map[string]int{"c": 1, "a": 3, "b": 2}

	byValue := run(t, must(t)(Sort(SortByValues)), input)
	if got := keysOf(byValue); !reflect.DeepEqual(got, []any{"c", "b", "a"}) {
		t.Errorf("by values: got keys %v", got)
	}

	desc := func(a, b any) int { return b.(int) - a.(int) }
	byValueDesc := run(t, must(t)(Sort(SortByValues, desc)), input)
	if got := vals(byValueDesc); !reflect.DeepEqual(got, []any{3, 2, 1}) {
		t.Errorf("custom comparator: got %v", got)
	}

	byKey := run(t, must(t)(Sort(SortByKeys)), []sequence.Pair{sequence.P(2, "x"), sequence.P(1, "y")})
	if got := vals(byKey); !reflect.DeepEqual(got, []any{"y", "x"}) {
		t.Errorf("by keys: got %v", got)
	}

	if _, err := Sort("sideways"); !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

func TestSort_StableAndIdempotent(t *testing.T) {
	input := []sequence.Pair{sequence.P("a", 2), sequence.P("b", 1), sequence.P("c", 2), sequence.P("d", 1)}
	once := run(t, must(t)(Sort(SortByValues)), input)
	if got := keysOf(once); !reflect.DeepEqual(got, []any{"b", "d", "a", "c"}) {
		t.Errorf("stable order: got %v", got)
	}
	twice := run(t, must(t)(Sort(SortByValues)), once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sort is not idempotent: %v vs %v", once, twice)
	}
}

func TestIntersperse(t *testing.T) {
	tests := []struct {
		name    string
		every   int
		startAt int
		want    []any
	}{
		{"every element", 1, 0, []any{"|", "a", "|", "b", "|", "c"}},
		{"every second", 2, 0, []any{"|", "a", "b", "|", "c"}},
		{"offset start", 2, 1, []any{"a", "|", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := run(t, must(t)(Intersperse("|", tt.every, tt.startAt)), []string{"a", "b", "c"})
			if got := vals(pairs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for i, p := range pairs {
				if p.Key != i {
					t.Errorf("expected sequential keys, got %v at %d", p.Key, i)
				}
			}
		})
	}

	t.Run("defaults", func(t *testing.T) {
		pairs := run(t, must(t)(Intersperse("|")), []string{"a", "b"})
		if got, want := vals(pairs), []any{"|", "a", "|", "b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	for _, bad := range [][2]int{{-1, 0}, {0, 0}, {1, -1}} {
		if _, err := Intersperse("|", bad[0], bad[1]); !errors.IsConfiguration(err) {
			t.Errorf("Intersperse(%d, %d): expected configuration error, got %v", bad[0], bad[1], err)
		}
	}
}

func TestFlipRoundTrip(t *testing.T) {
	input := []sequence.Pair{sequence.P("a", 1), sequence.P("b", 2)}
	once := run(t, Flip(), input)
	back := run(t, Flip(), once)
	if !reflect.DeepEqual(back, input) {
		t.Errorf("got %v, want %v", back, input)
	}
}

func TestZipUnzipRoundTrip(t *testing.T) {
	b := source.MustWith([]int{1, 2, 3})
	c := source.MustWith([]bool{true})
	zipped := run(t, Zip(b, c), []string{"x", "y"})
	wantZip := []any{[]any{"x", 1, true}, []any{"y", 2, nil}, []any{nil, 3, nil}}
	if got := vals(zipped); !reflect.DeepEqual(got, wantZip) {
		t.Fatalf("zip: got %v, want %v", got, wantZip)
	}

	cols := vals(run(t, Unzip(), zipped))
	want := []any{
		[]any{"x", "y", nil},
		[]any{1, 2, 3},
		[]any{true, nil, nil},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("unzip: got %v, want %v", cols, want)
	}
}

func TestStreamingOps(t *testing.T) {
	double := func(v, _ any) (any, error) { return v.(int) * 2, nil }
	gt := func(n int) Predicate { return func(v, _ any) bool { return v.(int) > n } }
	lt := func(n int) Predicate { return func(v, _ any) bool { return v.(int) < n } }
	input := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		op   sequence.Operation
		want []any
	}{
		{"map", must(t)(Map(double)), []any{2, 4, 6, 8, 10}},
		{"filter", must(t)(Filter(gt(2), lt(5))), []any{3, 4}},
		{"reject", must(t)(Reject(gt(2))), []any{1, 2}},
		{"drop", must(t)(Drop(1, 2)), []any{4, 5}},
		{"drop while", must(t)(DropWhile(lt(3))), []any{3, 4, 5}},
		{"take while", must(t)(TakeWhile(lt(3))), []any{1, 2}},
		{"until", must(t)(Until(gt(2))), []any{1, 2, 3}},
		{"since", must(t)(Since(gt(3))), []any{4, 5}},
		{"slice", must(t)(Slice(1, 2)), []any{2, 3}},
		{"slice rest", must(t)(Slice(3)), []any{4, 5}},
		{"slice empty", must(t)(Slice(1, 0)), []any{}},
		{"nth", must(t)(Nth(2)), []any{1, 3, 5}},
		{"nth offset", must(t)(Nth(2, 1)), []any{2, 4}},
		{"head", Head(), []any{1}},
		{"tail", Tail(), []any{2, 3, 4, 5}},
		{"init", Init(), []any{1, 2, 3, 4}},
		{"append", Append(6), []any{1, 2, 3, 4, 5, 6}},
		{"prepend", Prepend(0), []any{0, 1, 2, 3, 4, 5}},
		{"keys", Keys(), []any{0, 1, 2, 3, 4}},
		{"pad", must(t)(Pad(7, 0)), []any{1, 2, 3, 4, 5, 0, 0}},
		{"pad shorter", must(t)(Pad(2, 0)), []any{1, 2, 3, 4, 5}},
		{"diff", Diff(2, 4), []any{1, 3, 5}},
		{"intersect", Intersect(2, 4, 9), []any{2, 4}},
		{"diff keys", DiffKeys(0, 1), []any{3, 4, 5}},
		{"intersect keys", IntersectKeys(4), []any{5}},
		{"reduction", must(t)(Reduction(func(c, v, _ any) (any, error) { return c.(int) + v.(int), nil }, 0)), []any{1, 3, 6, 10, 15}},
		{"if then else", must(t)(IfThenElse(gt(3), double, nil)), []any{1, 2, 3, 8, 10}},
		{"rsample all", must(t)(RSample(1)), []any{1, 2, 3, 4, 5}},
		{"rsample none", must(t)(RSample(0)), []any{}},
		{"reverse", Reverse(), []any{5, 4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vals(run(t, tt.op, input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_DefaultTruthy(t *testing.T) {
	got := vals(run(t, must(t)(Filter()), []any{0, 1, "", "a", nil, false, "0", []int{}}))
	if !reflect.DeepEqual(got, []any{1, "a"}) {
		t.Errorf("got %v", got)
	}
}

func TestCompact(t *testing.T) {
	got := vals(run(t, Compact(), []any{1, nil, 2, nil}))
	if !reflect.DeepEqual(got, []any{1, 2}) {
		t.Errorf("default: got %v", got)
	}
	got = vals(run(t, Compact(nil, 0), []any{1, nil, 0, 2}))
	if !reflect.DeepEqual(got, []any{1, 2}) {
		t.Errorf("custom: got %v", got)
	}
}

func TestCallbackErrorPropagatesUnchanged(t *testing.T) {
	boom := stderrors.New("boom")
	calls := 0
	op := must(t)(Map(func(v, _ any) (any, error) {
		calls++
		if v.(int) == 2 {
			return nil, boom
		}
		return v, nil
	}))
	_, err := runErr(op, []int{1, 2, 3})
	if err != boom {
		t.Errorf("got %v, want the callback's own error", err)
	}
	if calls != 2 {
		t.Errorf("expected the run to stop at the failing element, got %d calls", calls)
	}
}

func TestNilCallbacks(t *testing.T) {
	if _, err := Map(nil); !errors.IsConfiguration(err) {
		t.Errorf("Map(nil): got %v", err)
	}
	if _, err := Filter(nil); !errors.IsConfiguration(err) {
		t.Errorf("Filter(nil): got %v", err)
	}
	if _, err := Reduction(nil, 0); !errors.IsConfiguration(err) {
		t.Errorf("Reduction(nil): got %v", err)
	}
}

func TestCombine(t *testing.T) {
	pairs := run(t, Combine("a", "b"), []int{1, 2})
	if pairs[0] != sequence.P("a", 1) || pairs[1] != sequence.P("b", 2) {
		t.Errorf("got %v", pairs)
	}

	for _, input := range [][]int{{1}, {1, 2, 3}} {
		if _, err := runErr(Combine("a", "b"), input); !errors.IsCode(err, errors.ErrCodeLengthMismatch) {
			t.Errorf("%v: expected LENGTH_MISMATCH, got %v", input, err)
		}
	}
}

func TestMerge(t *testing.T) {
	pairs := run(t, Merge(source.MustWith(map[string]int{"z": 9})), []int{1})
	want := []sequence.Pair{sequence.P(0, 1), sequence.P("z", 9)}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestFlattenAndCollapse(t *testing.T) {
	input := []any{1, []any{2, []any{3, []int{4}}}, "x"}
	if got := vals(run(t, must(t)(Flatten(1)), input)); !reflect.DeepEqual(got, []any{1, 2, []any{3, []int{4}}, "x"}) {
		t.Errorf("depth 1: got %v", got)
	}
	if got := vals(run(t, must(t)(Flatten(10)), input)); !reflect.DeepEqual(got, []any{1, 2, 3, 4, "x"}) {
		t.Errorf("depth 10: got %v", got)
	}
	if got := vals(run(t, Collapse(), input)); !reflect.DeepEqual(got, []any{2, []any{3, []int{4}}}) {
		t.Errorf("collapse: got %v", got)
	}
}

func TestPackUnpackPairUnpair(t *testing.T) {
	input := []sequence.Pair{sequence.P("a", 1), sequence.P("b", 2)}

	packed := run(t, Pack(), input)
	if got := vals(packed); !reflect.DeepEqual(got, []any{[]any{"a", 1}, []any{"b", 2}}) {
		t.Errorf("pack: got %v", got)
	}
	if got := run(t, Unpack(), packed); !reflect.DeepEqual(got, input) {
		t.Errorf("unpack: got %v", got)
	}

	flat := run(t, Unpair(), input)
	if got := vals(flat); !reflect.DeepEqual(got, []any{"a", 1, "b", 2}) {
		t.Errorf("unpair: got %v", got)
	}
	if got := run(t, Pair(), flat); !reflect.DeepEqual(got, input) {
		t.Errorf("pair: got %v", got)
	}
	if got := run(t, Pair(), []string{"k"}); !reflect.DeepEqual(got, []sequence.Pair{{Key: "k"}}) {
		t.Errorf("odd pair: got %v", got)
	}
}

func TestWrapUnwrap(t *testing.T) {
	wrapped := vals(run(t, Wrap(), []sequence.Pair{sequence.P("a", 1)}))
	if !reflect.DeepEqual(wrapped, []any{map[any]any{"a": 1}}) {
		t.Errorf("wrap: got %v", wrapped)
	}
	unwrapped := run(t, Unwrap(), []any{map[string]int{"b": 2, "a": 1}, 5})
	want := []sequence.Pair{sequence.P("a", 1), sequence.P("b", 2), sequence.P(1, 5)}
	if !reflect.DeepEqual(unwrapped, want) {
		t.Errorf("unwrap: got %v, want %v", unwrapped, want)
	}
}

func TestExplode(t *testing.T) {
	got := vals(run(t, Explode(" "), "to be  or"))
	want := []any{[]any{"t", "o"}, []any{"b", "e"}, []any{"o", "r"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFrequencyAndGroup(t *testing.T) {
	freq := run(t, Frequency(), []string{"a", "b", "a", "c", "a"})
	want := []sequence.Pair{sequence.P(3, "a"), sequence.P(1, "b"), sequence.P(1, "c")}
	if !reflect.DeepEqual(freq, want) {
		t.Errorf("frequency: got %v, want %v", freq, want)
	}

	parity := func(v, _ any) any { return v.(int) % 2 }
	groups := run(t, Group(parity), []int{1, 2, 3, 4})
	wantGroups := []sequence.Pair{sequence.P(1, []any{1, 3}), sequence.P(0, []any{2, 4})}
	if !reflect.DeepEqual(groups, wantGroups) {
		t.Errorf("group: got %v, want %v", groups, wantGroups)
	}
}

func TestShuffleAndRandomSeeded(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}
	a := vals(run(t, Shuffle(42), input))
	b := vals(run(t, Shuffle(42), input))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed should give the same order: %v vs %v", a, b)
	}
	if len(a) != len(input) {
		t.Errorf("shuffle lost elements: %v", a)
	}

	picked := vals(run(t, must(t)(Random(3, 7)), input))
	if len(picked) != 3 {
		t.Errorf("expected 3 picks, got %v", picked)
	}
	if _, err := Random(0); !errors.IsConfiguration(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestProduct(t *testing.T) {
	got := vals(run(t, Product(source.MustWith([]string{"x", "y"})), []int{1, 2}))
	want := []any{[]any{1, "x"}, []any{1, "y"}, []any{2, "x"}, []any{2, "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApply(t *testing.T) {
	var seen []any
	op := must(t)(Apply(func(v, _ any) error {
		seen = append(seen, v)
		return nil
	}))
	_ = run(t, op, []int{1, 2})
	if !reflect.DeepEqual(seen, []any{1, 2}) {
		t.Errorf("got %v", seen)
	}
}

func TestApplyDoesNotPull(t *testing.T) {
	pulled := false
	src := sequence.IterableFunc(func(context.Context) sequence.Iterator {
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			pulled = true
			return sequence.Pair{}, false, nil
		}, nil)
	})
	ops := []sequence.Operation{Distinct(), Reverse(), must(t)(Window(2)), must(t)(Chunk(2)), must(t)(Cycle(1))}
	for _, op := range ops {
		it := op.Apply(context.Background(), src)
		_ = it.Close()
	}
	if pulled {
		t.Error("Apply must not pull from upstream")
	}
}

func TestName(t *testing.T) {
	if got := sequence.NameOf(Distinct()); got != "distinct" {
		t.Errorf("got %q", got)
	}
}
