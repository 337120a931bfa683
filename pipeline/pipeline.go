package pipeline

import (
	"context"
	"iter"

	"github.com/kbukum/collection/cache"
	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/source"
)

// Pipeline is an immutable chain of a source and operations.
type Pipeline struct {
	parent *Pipeline
	root   sequence.Iterable
	op     sequence.Operation
	cache  *cache.Cache
	err    error
	depth  int
}

// New creates a pipeline over src. A nil src gives an empty pipeline.
func New(src sequence.Iterable) *Pipeline {
	if src == nil {
		src = source.Empty()
	}
	return &Pipeline{root: src}
}

// With creates a pipeline from any input source.With accepts. An input it
// cannot adapt is reported by Err and by every terminal.
func With(input any, args ...any) *Pipeline {
	src, err := source.With(input, args...)
	if err != nil {
		return Failed(err)
	}
	return New(src)
}

// Failed returns a pipeline that fails every terminal with err.
func Failed(err error) *Pipeline {
	return &Pipeline{root: source.Empty(), err: err}
}

// Empty returns a pipeline with no elements.
func Empty() *Pipeline { return New(source.Empty()) }

// Range returns a pipeline of float64 values from start towards end by step.
// See source.Range.
func Range(start, end, step float64) *Pipeline {
	return New(source.Range(start, end, step))
}

// Times returns a pipeline of fn(1) ... fn(n). See source.Times.
func Times(n int, fn func(i int) (any, error)) *Pipeline {
	return from(source.Times(n, fn))
}

// Unfold returns the infinite pipeline of states produced by fn from seeds.
// See source.Unfold.
func Unfold(fn func(state ...any) ([]any, error), seeds ...any) *Pipeline {
	return from(source.Unfold(fn, seeds...))
}

func from(src sequence.Iterable, err error) *Pipeline {
	if err != nil {
		return Failed(err)
	}
	return New(src)
}

// Chain returns a new pipeline that applies op after p's operations.
func (p *Pipeline) Chain(op sequence.Operation) *Pipeline {
	if op == nil {
		return p.bind(nil, errors.Configuration("chain", "operation is required"))
	}
	return p.bind(op, nil)
}

// bind appends op, or records err in the new node.
func (p *Pipeline) bind(op sequence.Operation, err error) *Pipeline {
	next := &Pipeline{parent: p, op: op, err: p.err, depth: p.depth + 1}
	if next.err == nil {
		next.err = err
	}
	return next
}

// Err returns the first construction error of the chain, if any.
func (p *Pipeline) Err() error { return p.err }

// Iter starts a run. Operations are applied left to right on every call.
func (p *Pipeline) Iter(ctx context.Context) sequence.Iterator {
	switch {
	case p.err != nil:
		return sequence.Fail(p.err)
	case p.cache != nil:
		return p.cache.Iter(ctx)
	case p.op != nil:
		return p.op.Apply(ctx, p.parent)
	default:
		return p.root.Iter(ctx)
	}
}

// Seq adapts the pipeline to a range-over-func loop. Breaking out of the
// loop closes the run.
//
//	for pair, err := range p.Seq(ctx) {
//	    if err != nil { ... }
//	}
func (p *Pipeline) Seq(ctx context.Context) iter.Seq2[sequence.Pair, error] {
	return sequence.Seq(ctx, p)
}

// Cache returns a pipeline that buffers p's pairs the first time they are
// pulled and replays them to every later run.
func (p *Pipeline) Cache() *Pipeline {
	if p.err != nil {
		return p
	}
	return &Pipeline{parent: p, cache: cache.New(p), depth: p.depth}
}

// Close releases the upstream iterators still held by caches in the chain
// ending at p.
func (p *Pipeline) Close() error {
	var first error
	for n := p; n != nil; n = n.parent {
		if n.cache != nil {
			if err := n.cache.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
