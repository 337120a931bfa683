package definition

import (
	"github.com/kbukum/collection/operation"
	"github.com/kbukum/collection/sequence"
)

type limitParams struct {
	Count  int `mapstructure:"count"`
	Offset int `mapstructure:"offset"`
}

type countParams struct {
	Count int `mapstructure:"count"`
}

type sliceParams struct {
	Offset int  `mapstructure:"offset"`
	Length *int `mapstructure:"length"`
}

type nthParams struct {
	Step   int `mapstructure:"step"`
	Offset int `mapstructure:"offset"`
}

type sizeParams struct {
	Size int `mapstructure:"size"`
}

type chunkParams struct {
	Size int  `mapstructure:"size"`
	Step *int `mapstructure:"step"`
}

type cycleParams struct {
	Limit int `mapstructure:"limit"`
}

type sortParams struct {
	By string `mapstructure:"by"`
}

type seedParams struct {
	Seed *uint64 `mapstructure:"seed"`
}

type randomParams struct {
	Count int     `mapstructure:"count"`
	Seed  *uint64 `mapstructure:"seed"`
}

type sampleParams struct {
	Probability float64 `mapstructure:"probability"`
	Seed        *uint64 `mapstructure:"seed"`
}

type valuesParams struct {
	Values []any `mapstructure:"values"`
}

type keysParams struct {
	Keys []any `mapstructure:"keys"`
}

type intersperseParams struct {
	Element any  `mapstructure:"element"`
	Every   *int `mapstructure:"every"`
	StartAt int  `mapstructure:"start_at"`
}

type padParams struct {
	Size  int `mapstructure:"size"`
	Value any `mapstructure:"value"`
}

type flattenParams struct {
	Depth *int `mapstructure:"depth"`
}

type explodeParams struct {
	Separators []any `mapstructure:"separators"`
}

func seeds(seed *uint64) []uint64 {
	if seed == nil {
		return nil
	}
	return []uint64{*seed}
}

func ints(v *int) []int {
	if v == nil {
		return nil
	}
	return []int{*v}
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func ok(op sequence.Operation) (sequence.Operation, error) { return op, nil }

// DefaultRegistry returns a registry holding every operation that can be
// expressed without callbacks. Filter without parameters keeps truthy values.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("limit", Bind("limit", func(p limitParams) (sequence.Operation, error) {
		return operation.Limit(p.Count, p.Offset)
	}))
	r.Register("drop", Bind("drop", func(p countParams) (sequence.Operation, error) {
		return operation.Drop(p.Count)
	}))
	r.Register("slice", Bind("slice", func(p sliceParams) (sequence.Operation, error) {
		return operation.Slice(p.Offset, ints(p.Length)...)
	}))
	r.Register("nth", Bind("nth", func(p nthParams) (sequence.Operation, error) {
		return operation.Nth(p.Step, p.Offset)
	}))
	r.Register("window", Bind("window", func(p sizeParams) (sequence.Operation, error) {
		return operation.Window(p.Size)
	}))
	r.Register("chunk", Bind("chunk", func(p chunkParams) (sequence.Operation, error) {
		return operation.Chunk(p.Size, ints(p.Step)...)
	}))
	r.Register("cycle", Bind("cycle", func(p cycleParams) (sequence.Operation, error) {
		return operation.Cycle(p.Limit)
	}))
	r.Register("sort", Bind("sort", func(p sortParams) (sequence.Operation, error) {
		by := operation.SortBy(p.By)
		if by == "" {
			by = operation.SortByValues
		}
		return operation.Sort(by)
	}))
	r.Register("shuffle", Bind("shuffle", func(p seedParams) (sequence.Operation, error) {
		return ok(operation.Shuffle(seeds(p.Seed)...))
	}))
	r.Register("random", Bind("random", func(p randomParams) (sequence.Operation, error) {
		return operation.Random(p.Count, seeds(p.Seed)...)
	}))
	r.Register("rsample", Bind("rsample", func(p sampleParams) (sequence.Operation, error) {
		return operation.RSample(p.Probability, seeds(p.Seed)...)
	}))
	r.Register("append", Bind("append", func(p valuesParams) (sequence.Operation, error) {
		return ok(operation.Append(p.Values...))
	}))
	r.Register("prepend", Bind("prepend", func(p valuesParams) (sequence.Operation, error) {
		return ok(operation.Prepend(p.Values...))
	}))
	r.Register("compact", Bind("compact", func(p valuesParams) (sequence.Operation, error) {
		return ok(operation.Compact(p.Values...))
	}))
	r.Register("diff", Bind("diff", func(p valuesParams) (sequence.Operation, error) {
		return ok(operation.Diff(p.Values...))
	}))
	r.Register("intersect", Bind("intersect", func(p valuesParams) (sequence.Operation, error) {
		return ok(operation.Intersect(p.Values...))
	}))
	r.Register("diff_keys", Bind("diff_keys", func(p keysParams) (sequence.Operation, error) {
		return ok(operation.DiffKeys(p.Keys...))
	}))
	r.Register("intersect_keys", Bind("intersect_keys", func(p keysParams) (sequence.Operation, error) {
		return ok(operation.IntersectKeys(p.Keys...))
	}))
	r.Register("combine", Bind("combine", func(p keysParams) (sequence.Operation, error) {
		return ok(operation.Combine(p.Keys...))
	}))
	r.Register("intersperse", Bind("intersperse", func(p intersperseParams) (sequence.Operation, error) {
		return operation.Intersperse(p.Element, orDefault(p.Every, 1), p.StartAt)
	}))
	r.Register("pad", Bind("pad", func(p padParams) (sequence.Operation, error) {
		return operation.Pad(p.Size, p.Value)
	}))
	r.Register("flatten", Bind("flatten", func(p flattenParams) (sequence.Operation, error) {
		return operation.Flatten(orDefault(p.Depth, 1))
	}))
	r.Register("explode", Bind("explode", func(p explodeParams) (sequence.Operation, error) {
		return ok(operation.Explode(p.Separators...))
	}))
	r.Register("filter", Static("filter", func() sequence.Operation {
		op, _ := operation.Filter()
		return op
	}))

	for name, build := range map[string]func() sequence.Operation{
		"distinct":  operation.Distinct,
		"reverse":   operation.Reverse,
		"frequency": operation.Frequency,
		"group":     func() sequence.Operation { return operation.Group() },
		"head":      operation.Head,
		"tail":      operation.Tail,
		"init":      operation.Init,
		"keys":      operation.Keys,
		"normalize": operation.Normalize,
		"flip":      operation.Flip,
		"collapse":  operation.Collapse,
		"unwrap":    operation.Unwrap,
		"wrap":      operation.Wrap,
		"pack":      operation.Pack,
		"unpack":    operation.Unpack,
		"pair":      operation.Pair,
		"unpair":    operation.Unpair,
		"unzip":     operation.Unzip,
	} {
		r.Register(name, Static(name, build))
	}
	return r
}
