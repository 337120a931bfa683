package definition

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/operation"
	"github.com/kbukum/collection/pipeline"
	"github.com/kbukum/collection/sequence"
)

func writeDef(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("words", []byte(`
name: words
description: unique words
steps:
  - op: explode
    params: {separators: [" "]}
  - op: distinct
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "words" || len(d.Steps) != 2 {
		t.Fatalf("unexpected definition %+v", d)
	}
	if d.Steps[1].Op != "distinct" || d.Steps[1].Params != nil {
		t.Errorf("unexpected step %+v", d.Steps[1])
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "name: [unclosed"},
		{"not a mapping", "- distinct\n- reverse\n"},
		{"empty op", "name: x\nsteps:\n  - op: \"\"\n"},
		{"missing op", "name: x\nsteps:\n  - params: {size: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("x", []byte(tt.doc))
			if !errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
				t.Errorf("expected INVALID_DEFINITION, got %v", err)
			}
		})
	}
}

func TestFileLoader(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeDef(t, second, "short.yml", "steps:\n  - op: head\n")
	writeDef(t, first, "broken.yaml", "name: [")

	loader := NewFileLoader(first, second)
	ctx := context.Background()

	d, err := loader.Load(ctx, "short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "short" {
		t.Errorf("name should default to the file name, got %q", d.Name)
	}

	if _, err := loader.Load(ctx, "nonexistent"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, err := loader.Load(ctx, "broken"); !errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
		t.Errorf("expected INVALID_DEFINITION, got %v", err)
	}
}

func TestRoundTripMatchesFluentAPI(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, dir, "words.yaml", `
name: words
steps:
  - op: explode
    params: {separators: [" "]}
  - op: distinct
  - op: chunk
    params: {size: "2", step: 1}
  - op: limit
    params: {count: 2}
`)
	ctx := context.Background()
	r := NewResolver(nil, NewFileLoader(dir))

	input := "to be or not to be"
	declared, err := r.Apply(ctx, "words", pipeline.With(input))
	if err != nil {
		t.Fatal(err)
	}
	fluent := pipeline.With(input).Explode(" ").Distinct().Chunk(2, 1).Limit(2)

	got, err := declared.Values(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want, err := fluent.Values(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !reflect.DeepEqual(got, want) {
		t.Errorf("definition = %v, fluent = %v", got, want)
	}
}

func TestResolve_OmittedParams(t *testing.T) {
	loader := MapLoader{
		"pipes": {Name: "pipes", Steps: []Step{{Op: "intersperse", Params: map[string]any{"element": "|"}}}},
		"flat":  {Name: "flat", Steps: []Step{{Op: "flatten"}}},
	}
	ctx := context.Background()
	r := NewResolver(nil, loader)

	tests := []struct {
		name  string
		def   string
		input any
		want  []any
	}{
		{"intersperse every defaults to 1", "pipes", []string{"a", "b"}, []any{"|", "a", "|", "b"}},
		{"flatten depth defaults to 1", "flat", []any{[]any{1, []any{2}}, 3}, []any{1, []any{2}, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Apply(ctx, tt.def, pipeline.With(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			got, err := p.Values(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_Includes(t *testing.T) {
	loader := MapLoader{
		"base":  {Name: "base", Steps: []Step{{Op: "reverse"}}},
		"outer": {Name: "outer", Includes: []string{"base"}, Steps: []Step{{Op: "head"}}},
		"loopA": {Name: "loopA", Includes: []string{"loopB"}},
		"loopB": {Name: "loopB", Includes: []string{"loopA"}},
	}
	ctx := context.Background()
	r := NewResolver(nil, loader)

	p, err := r.Apply(ctx, "outer", pipeline.With([]int{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if v, _, err := p.First(ctx); err != nil || v != 3 {
		t.Errorf("First = %v, %v", v, err)
	}

	if _, err := r.Load(ctx, "loopA"); !errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
		t.Errorf("expected INVALID_DEFINITION for a cycle, got %v", err)
	}
	if _, err := r.Load(ctx, "missing"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestResolve_StepErrors(t *testing.T) {
	tests := []struct {
		name string
		step Step
		code errors.ErrorCode
	}{
		{"unknown op", Step{Op: "teleport"}, errors.ErrCodeNotFound},
		{"out of range", Step{Op: "window", Params: map[string]any{"size": -1}}, errors.ErrCodeConfiguration},
		{"limit zero", Step{Op: "limit", Params: map[string]any{"count": 0}}, errors.ErrCodeOutOfBounds},
		{"unknown param", Step{Op: "window", Params: map[string]any{"width": 2}}, errors.ErrCodeConfiguration},
		{"wrong type", Step{Op: "window", Params: map[string]any{"size": "wide"}}, errors.ErrCodeConfiguration},
		{"params on static op", Step{Op: "reverse", Params: map[string]any{"x": 1}}, errors.ErrCodeConfiguration},
		{"bad sort key", Step{Op: "sort", Params: map[string]any{"by": "weight"}}, errors.ErrCodeConfiguration},
	}
	r := NewResolver(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), &Definition{Name: "d", Steps: []Step{tt.step}})
			if !errors.IsCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			e, _ := errors.As(err)
			if e.Details["step"] != 0 {
				t.Errorf("expected step detail, got %v", e.Details)
			}
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range []string{"limit", "chunk", "window", "sort", "explode", "distinct", "flip", "filter"} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("%s is not registered", name)
		}
	}
	names := r.List()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("List is not sorted: %v", names)
		}
	}

	op, err := r.Build("sort", map[string]any{"by": "keys"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := pipeline.With(map[string]int{"b": 1, "a": 2}).Run(op).Values(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []any{2, 1}) {
		t.Errorf("sort by keys = %v", got)
	}
}

func TestRegistry_Custom(t *testing.T) {
	r := NewRegistry()
	r.Register("evens", Static("evens", func() sequence.Operation {
		op, _ := operation.Filter(func(v, _ any) bool { return v.(int)%2 == 0 })
		return op
	}))
	op, err := r.Build("evens", nil)
	if err != nil {
		t.Fatal(err)
	}
	n, err := pipeline.With([]int{1, 2, 3, 4}).Run(op).Count(context.Background())
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v", n, err)
	}
}
