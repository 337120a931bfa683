package operation

import (
	"context"

	"github.com/kbukum/collection/sequence"
)

// verdict tells stepIter what to do with the pair a step produced.
type verdict int

const (
	skip     verdict = iota // drop the pair and pull again
	emit                    // emit the pair
	emitLast                // emit the pair, then end without pulling again
	halt                    // end without emitting
)

type stepFunc func(ctx context.Context, p sequence.Pair) (sequence.Pair, verdict, error)

type stepIter struct {
	source sequence.Iterator
	step   stepFunc
	done   bool
}

func (it *stepIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	for !it.done {
		p, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return sequence.Pair{}, false, err
		}
		out, v, err := it.step(ctx, p)
		if err != nil {
			return sequence.Pair{}, false, err
		}
		switch v {
		case emit:
			return out, true, nil
		case emitLast:
			it.done = true
			return out, true, nil
		case halt:
			it.done = true
		}
	}
	return sequence.Pair{}, false, nil
}

func (it *stepIter) Close() error { return it.source.Close() }

type (
	expandFunc func(ctx context.Context, p sequence.Pair) ([]sequence.Pair, error)
	flushFunc  func(ctx context.Context) ([]sequence.Pair, error)
)

type expandIter struct {
	source  sequence.Iterator
	step    expandFunc
	flush   flushFunc
	pending []sequence.Pair
	ended   bool
}

func (it *expandIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	for {
		if len(it.pending) > 0 {
			p := it.pending[0]
			it.pending = it.pending[1:]
			return p, true, nil
		}
		if it.ended {
			return sequence.Pair{}, false, nil
		}
		p, ok, err := it.source.Next(ctx)
		if err != nil {
			return sequence.Pair{}, false, err
		}
		if !ok {
			it.ended = true
			if it.flush != nil {
				if it.pending, err = it.flush(ctx); err != nil {
					return sequence.Pair{}, false, err
				}
			}
			continue
		}
		if it.pending, err = it.step(ctx, p); err != nil {
			return sequence.Pair{}, false, err
		}
	}
}

func (it *expandIter) Close() error { return it.source.Close() }

type bufferedIter struct {
	source sequence.Iterator
	build  func(ctx context.Context, pairs []sequence.Pair) ([]sequence.Pair, error)
	out    []sequence.Pair
	loaded bool
}

func (it *bufferedIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	if !it.loaded {
		it.loaded = true
		var pairs []sequence.Pair
		for {
			p, ok, err := it.source.Next(ctx)
			if err != nil {
				return sequence.Pair{}, false, err
			}
			if !ok {
				break
			}
			pairs = append(pairs, p)
		}
		out, err := it.build(ctx, pairs)
		if err != nil {
			return sequence.Pair{}, false, err
		}
		it.out = out
	}
	if len(it.out) == 0 {
		return sequence.Pair{}, false, nil
	}
	p := it.out[0]
	it.out = it.out[1:]
	return p, true, nil
}

func (it *bufferedIter) Close() error { return it.source.Close() }

// concatIter runs its sources one after another, opening each only when the
// previous one is exhausted.
type concatIter struct {
	sources []sequence.Iterable
	current sequence.Iterator
}

func (it *concatIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	for {
		if it.current == nil {
			if len(it.sources) == 0 {
				return sequence.Pair{}, false, nil
			}
			it.current = it.sources[0].Iter(ctx)
			it.sources = it.sources[1:]
		}
		p, ok, err := it.current.Next(ctx)
		if err != nil {
			return sequence.Pair{}, false, err
		}
		if ok {
			return p, true, nil
		}
		if err := it.current.Close(); err != nil {
			return sequence.Pair{}, false, err
		}
		it.current = nil
	}
}

func (it *concatIter) Close() error {
	it.sources = nil
	if it.current != nil {
		err := it.current.Close()
		it.current = nil
		return err
	}
	return nil
}

func concat(sources ...sequence.Iterable) sequence.Iterator {
	return &concatIter{sources: sources}
}
