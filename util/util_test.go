package util

import (
	"math"
	"slices"
	"testing"
)

type point struct{ X, Y int }

func TestEqual(t *testing.T) {
	p := &point{1, 2}
	q := &point{1, 2}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"same int", 1, 1, true},
		{"int vs int64", 1, int64(1), false},
		{"int vs float", 1, 1.0, false},
		{"int vs string", 1, "1", false},
		{"strings", "a", "a", true},
		{"structs", point{1, 2}, point{1, 2}, true},
		{"pointer identity", p, p, true},
		{"distinct pointers", p, q, false},
		{"slices", []int{1, 2}, []int{1, 2}, true},
		{"slices differ", []int{1, 2}, []int{2, 1}, false},
		{"maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"nested any", []any{1, "a"}, []any{1, "a"}, true},
		{"NaN", math.NaN(), math.NaN(), true},
		{"NaN float32", float32(math.NaN()), float32(math.NaN()), true},
		{"NaN vs float32 NaN", math.NaN(), float32(math.NaN()), false},
		{"NaN vs number", math.NaN(), 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestHashable(t *testing.T) {
	if !Hashable(point{}) {
		t.Error("struct of ints should be hashable")
	}
	if Hashable([]int{1}) {
		t.Error("slice should not be hashable")
	}
	if Hashable([1]any{[]int{1}}) {
		t.Error("array holding a slice should not be hashable")
	}
	if !Hashable([2]any{1, "a"}) {
		t.Error("array of scalars should be hashable")
	}
}

func TestSet(t *testing.T) {
	s := NewSet()
	for _, v := range []any{1, 1, "1", []int{1}, []int{1}, int64(1)} {
		s.Add(v)
	}
	if s.Len() != 4 {
		t.Errorf("expected 4 distinct values, got %d", s.Len())
	}
	if !s.Contains([]int{1}) {
		t.Error("expected set to contain []int{1}")
	}
	if s.Contains(2) {
		t.Error("expected set not to contain 2")
	}
}

func TestSet_NaN(t *testing.T) {
	s := NewSet()
	if !s.Add(math.NaN()) {
		t.Fatal("first NaN should be added")
	}
	if s.Add(math.NaN()) {
		t.Error("second NaN should already be present")
	}
	if !s.Contains(math.NaN()) || s.Len() != 1 {
		t.Errorf("expected one NaN, got len %d", s.Len())
	}
	if Keyable(math.NaN()) || !Keyable(1.5) {
		t.Error("NaN must not be keyable, other floats must")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 1, 2, -1},
		{"mixed numbers", 2, 1.5, 1},
		{"uint vs int", uint(3), 3, 0},
		{"strings", "b", "a", 1},
		{"nil first", nil, 0, -1},
		{"bool before number", true, 0, -1},
		{"number before string", 10, "1", -1},
		{"false before true", false, true, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare_SortsMixed(t *testing.T) {
	got := []any{"b", 3, nil, "a", 1.5, true}
	slices.SortStableFunc(got, Compare)
	want := []any{nil, true, 1.5, 3, "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTruthy(t *testing.T) {
	var nilPtr *point
	falsy := []any{nil, false, 0, 0.0, "", "0", []int{}, map[string]int{}, nilPtr}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("expected %#v to be falsy", v)
		}
	}
	truthy := []any{true, 1, -1, 0.5, "a", "false", []int{0}, &point{}, point{}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("expected %#v to be truthy", v)
		}
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"a", "a"},
		{[]byte("bytes"), "bytes"},
		{42, "42"},
		{1.5, "1.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListValues(t *testing.T) {
	if !IsList([]string{"a"}) || IsList("a") || IsList([]byte("a")) {
		t.Error("IsList misclassified input")
	}
	got := ListValues([2]int{1, 2})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}
