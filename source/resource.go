package source

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/observability"
	"github.com/kbukum/collection/sequence"
)

// Source kinds reported in errors, logs and metrics.
const (
	kindIterator = "iterator"
	kindChannel  = "channel"
	kindReader   = "reader"
	kindBytes    = "bytes"
	kindLines    = "lines"
	kindRows     = "rows"
	kindQuery    = "query"
)

// oneShotSource serves its first Iter and fails every later one.
type oneShotSource struct {
	kind string
	used atomic.Bool
	open func(ctx context.Context) sequence.Iterator
}

func oneShot(kind string, open func(ctx context.Context) sequence.Iterator) *oneShotSource {
	return &oneShotSource{kind: kind, open: open}
}

// Iter returns the underlying iterator on the first call only.
func (s *oneShotSource) Iter(ctx context.Context) sequence.Iterator {
	if !s.used.CompareAndSwap(false, true) {
		return sequence.Fail(errors.SourceConsumed(s.kind))
	}
	return s.open(ctx)
}

// resourceIter owns an external handle and releases it exactly once: when the
// stream ends, when it fails, or when the consumer closes early.
type resourceIter struct {
	ctx      context.Context
	kind     string
	next     func(ctx context.Context) (sequence.Pair, bool, error)
	release  func() error
	released bool
	count    int
	log      *logger.Logger
}

func newResourceIter(ctx context.Context, kind string, next func(context.Context) (sequence.Pair, bool, error), release func() error) *resourceIter {
	observability.Default().RecordSourceOpened(ctx, kind)
	log := logger.Get(logger.ComponentSource).WithContext(ctx).
		WithFields(logger.Fields(logger.FieldSource, kind))
	// Tag with the terminal that is draining the source, if any.
	if tc := observability.TerminalContextFromContext(ctx); tc != nil {
		log = log.WithFields(logger.Fields(logger.FieldTerminal, tc.Terminal))
	}
	log.Debug("source opened")
	return &resourceIter{ctx: ctx, kind: kind, next: next, release: release, log: log}
}

func (it *resourceIter) Next(ctx context.Context) (sequence.Pair, bool, error) {
	if it.released {
		return sequence.Pair{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		_ = it.releaseOnce()
		return sequence.Pair{}, false, err
	}
	p, ok, err := it.next(ctx)
	if err != nil || !ok {
		if rerr := it.releaseOnce(); err == nil {
			err = rerr
		}
		return sequence.Pair{}, false, err
	}
	it.count++
	return p, true, nil
}

func (it *resourceIter) Close() error { return it.releaseOnce() }

func (it *resourceIter) releaseOnce() error {
	if it.released {
		return nil
	}
	it.released = true
	observability.Default().RecordSourceClosed(it.ctx, it.kind)
	it.log.Debug("source released", logger.Fields(logger.FieldCount, it.count))
	if it.release != nil {
		return it.release()
	}
	return nil
}

func closerOf(r any) func() error {
	if c, ok := r.(io.Closer); ok {
		return c.Close
	}
	return nil
}

// FromReader returns the characters read from r as one-character strings.
// It is one-shot; r is closed when drained or abandoned if it is an io.Closer.
func FromReader(r io.Reader) sequence.Iterable {
	return oneShot(kindReader, func(ctx context.Context) sequence.Iterator {
		br := bufio.NewReader(r)
		i := 0
		return newResourceIter(ctx, kindReader, func(context.Context) (sequence.Pair, bool, error) {
			ch, _, err := br.ReadRune()
			if err == io.EOF {
				return sequence.Pair{}, false, nil
			}
			if err != nil {
				return sequence.Pair{}, false, err
			}
			p := sequence.Pair{Key: i, Value: string(ch)}
			i++
			return p, true, nil
		}, closerOf(r))
	})
}

// FromBytes returns the bytes read from r. Like FromReader it is one-shot and
// closes r when done.
func FromBytes(r io.Reader) sequence.Iterable {
	return oneShot(kindBytes, func(ctx context.Context) sequence.Iterator {
		br := bufio.NewReader(r)
		i := 0
		return newResourceIter(ctx, kindBytes, func(context.Context) (sequence.Pair, bool, error) {
			b, err := br.ReadByte()
			if err == io.EOF {
				return sequence.Pair{}, false, nil
			}
			if err != nil {
				return sequence.Pair{}, false, err
			}
			p := sequence.Pair{Key: i, Value: b}
			i++
			return p, true, nil
		}, closerOf(r))
	})
}

// FromLines returns the lines of r without their line endings. One-shot.
func FromLines(r io.Reader) sequence.Iterable {
	return oneShot(kindLines, func(ctx context.Context) sequence.Iterator {
		sc := bufio.NewScanner(r)
		i := 0
		return newResourceIter(ctx, kindLines, func(context.Context) (sequence.Pair, bool, error) {
			if !sc.Scan() {
				return sequence.Pair{}, false, sc.Err()
			}
			p := sequence.Pair{Key: i, Value: sc.Text()}
			i++
			return p, true, nil
		}, closerOf(r))
	})
}

// FromChannel returns values received from ch until it is closed. One-shot.
// A cancelled context ends the wait with the context's error.
func FromChannel[T any](ch <-chan T) sequence.Iterable {
	return oneShot(kindChannel, func(context.Context) sequence.Iterator {
		i := 0
		return sequence.Func(func(ctx context.Context) (sequence.Pair, bool, error) {
			select {
			case v, ok := <-ch:
				if !ok {
					return sequence.Pair{}, false, nil
				}
				p := sequence.Pair{Key: i, Value: v}
				i++
				return p, true, nil
			case <-ctx.Done():
				return sequence.Pair{}, false, ctx.Err()
			}
		}, nil)
	})
}

// FromRows returns each row of rows as a map of column name to value, keyed
// by row index. One-shot; rows is closed when drained or abandoned.
func FromRows(rows *sql.Rows) sequence.Iterable {
	return oneShot(kindRows, func(ctx context.Context) sequence.Iterator {
		return rowsIter(ctx, kindRows, rows)
	})
}

// FromQuery runs query against db on every iteration, so unlike FromRows it
// can be iterated any number of times. The query runs on the first pull.
func FromQuery(db *sql.DB, query string, args ...any) sequence.Iterable {
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		var inner sequence.Iterator
		return sequence.Func(func(ctx context.Context) (sequence.Pair, bool, error) {
			if inner == nil {
				qctx, span := observability.StartSpan(ctx, observability.SpanSourceQuery)
				span.SetAttributes(attribute.String("db.query.text", query))
				rows, err := db.QueryContext(qctx, query, args...)
				if err != nil {
					span.RecordError(err)
					span.End()
					return sequence.Pair{}, false, err
				}
				span.End()
				inner = rowsIter(ctx, kindQuery, rows)
			}
			return inner.Next(ctx)
		}, func() error {
			if inner != nil {
				return inner.Close()
			}
			return nil
		})
	})
}

func rowsIter(ctx context.Context, kind string, rows *sql.Rows) sequence.Iterator {
	var cols []string
	i := 0
	return newResourceIter(ctx, kind, func(context.Context) (sequence.Pair, bool, error) {
		if cols == nil {
			c, err := rows.Columns()
			if err != nil {
				return sequence.Pair{}, false, err
			}
			cols = c
		}
		if !rows.Next() {
			return sequence.Pair{}, false, rows.Err()
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return sequence.Pair{}, false, err
		}
		row := make(map[string]any, len(cols))
		for j, name := range cols {
			if b, ok := values[j].([]byte); ok {
				row[name] = string(b)
			} else {
				row[name] = values[j]
			}
		}
		p := sequence.Pair{Key: i, Value: row}
		i++
		return p, true, nil
	}, rows.Close)
}
