package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"iter"
	"reflect"
	"slices"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/util"
)

var (
	errorType = reflect.TypeFor[error]()
	boolType  = reflect.TypeFor[bool]()
)

// With builds a sequence from input, dispatching on its shape:
//
//   - nil: empty sequence
//   - sequence.Iterable: used as is
//   - sequence.Iterator: one-shot
//   - string: characters, or parts split on args[0] when it is a string
//   - slice or array: elements keyed by index
//   - map: entries in natural key order
//   - iter.Seq / iter.Seq2 shaped functions: generator, possibly infinite
//   - any other function: called with args on every run; its result is adapted again
//   - io.Reader: one-shot characters, closed when drained if it is an io.Closer
//   - receive channel: one-shot values in receive order
//   - *sql.Rows: one-shot rows
//   - bool, numbers, structs, pointers: a single element keyed 0
//
// Anything else fails with INVALID_SOURCE.
func With(input any, args ...any) (sequence.Iterable, error) {
	switch v := input.(type) {
	case nil:
		return Empty(), nil
	case sequence.Iterable:
		return v, nil
	case sequence.Iterator:
		return FromIterator(v), nil
	case string:
		if len(args) > 0 {
			if sep, ok := args[0].(string); ok {
				return FromString(v, sep), nil
			}
		}
		return FromString(v), nil
	case []sequence.Pair:
		return FromPairs(v...), nil
	case []any:
		return FromSlice(v), nil
	case *sql.Rows:
		return FromRows(v), nil
	case io.Reader:
		return FromReader(v), nil
	}

	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.String:
		return With(rv.String(), args...)
	case reflect.Slice, reflect.Array:
		return reflectSlice(rv), nil
	case reflect.Map:
		return reflectMap(rv), nil
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return nil, errors.InvalidSource(rv.Type().String())
		}
		return reflectChannel(rv), nil
	case reflect.Func:
		if rv.IsNil() {
			return nil, errors.InvalidSource("nil " + rv.Type().String())
		}
		if seq, ok := reflectSeq(rv); ok {
			return seq, nil
		}
		return FromCallable(input, args...)
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Struct, reflect.Pointer:
		return scalar(input), nil
	}
	return nil, errors.InvalidSource(rv.Type().String())
}

// MustWith is like With but panics on an unrecognized input. It is meant for
// literals in tests and examples.
func MustWith(input any, args ...any) sequence.Iterable {
	src, err := With(input, args...)
	if err != nil {
		panic(err)
	}
	return src
}

// FromCallable adapts a function that builds a sequence. fn is called with
// args on every run and its first result is passed to With. A trailing error
// result, when non-nil, fails the run.
func FromCallable(fn any, args ...any) (sequence.Iterable, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, errors.InvalidSource(fmt.Sprintf("%T", fn))
	}
	ft := rv.Type()
	if err := checkCallable(ft, args); err != nil {
		return nil, err
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = argValue(ft, i, a)
	}

	return sequence.IterableFunc(func(ctx context.Context) sequence.Iterator {
		out := rv.Call(in)
		if ft.NumOut() == 2 && !out[1].IsNil() {
			return sequence.Fail(out[1].Interface().(error))
		}
		src, err := With(out[0].Interface())
		if err != nil {
			return sequence.Fail(err)
		}
		return src.Iter(ctx)
	}), nil
}

func checkCallable(ft reflect.Type, args []any) error {
	shape := ft.String()
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return errors.InvalidSource(shape)
		}
	default:
		return errors.InvalidSource(shape)
	}
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return errors.InvalidSource(shape).WithDetail("args", len(args))
		}
	} else if len(args) != ft.NumIn() {
		return errors.InvalidSource(shape).WithDetail("args", len(args))
	}
	for i, a := range args {
		want := paramType(ft, i)
		if a == nil {
			switch want.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
				continue
			}
			return errors.InvalidSource(shape).WithDetail("arg", i)
		}
		if !reflect.TypeOf(a).AssignableTo(want) {
			return errors.InvalidSource(shape).WithDetail("arg", i)
		}
	}
	return nil
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

func argValue(ft reflect.Type, i int, a any) reflect.Value {
	if a == nil {
		return reflect.Zero(paramType(ft, i))
	}
	return reflect.ValueOf(a)
}

// --- reflection adapters ---

func scalar(v any) sequence.Iterable {
	return sequence.Pairs([]sequence.Pair{{Key: 0, Value: v}})
}

func reflectSlice(rv reflect.Value) sequence.Iterable {
	return sequence.IterableFunc(func(_ context.Context) sequence.Iterator {
		i := 0
		return sequence.Func(func(context.Context) (sequence.Pair, bool, error) {
			if i >= rv.Len() {
				return sequence.Pair{}, false, nil
			}
			p := sequence.Pair{Key: i, Value: rv.Index(i).Interface()}
			i++
			return p, true, nil
		}, nil)
	})
}

func reflectMap(rv reflect.Value) sequence.Iterable {
	keys := rv.MapKeys()
	slices.SortStableFunc(keys, func(a, b reflect.Value) int {
		return util.Compare(a.Interface(), b.Interface())
	})
	pairs := make([]sequence.Pair, len(keys))
	for i, k := range keys {
		pairs[i] = sequence.Pair{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
	}
	return sequence.Pairs(pairs)
}

func reflectChannel(rv reflect.Value) sequence.Iterable {
	return oneShot(kindChannel, func(ctx context.Context) sequence.Iterator {
		i := 0
		done := reflect.ValueOf(ctx.Done())
		cases := []reflect.SelectCase{
			{Dir: reflect.SelectRecv, Chan: rv},
			{Dir: reflect.SelectRecv, Chan: done},
		}
		return sequence.Func(func(ctx context.Context) (sequence.Pair, bool, error) {
			if !done.IsValid() || done.IsNil() {
				v, ok := rv.Recv()
				if !ok {
					return sequence.Pair{}, false, nil
				}
				p := sequence.Pair{Key: i, Value: v.Interface()}
				i++
				return p, true, nil
			}
			chosen, v, ok := reflect.Select(cases)
			if chosen == 1 {
				return sequence.Pair{}, false, ctx.Err()
			}
			if !ok {
				return sequence.Pair{}, false, nil
			}
			p := sequence.Pair{Key: i, Value: v.Interface()}
			i++
			return p, true, nil
		}, nil)
	})
}

// reflectSeq recognizes func(yield func(V) bool) and func(yield func(K, V) bool).
func reflectSeq(rv reflect.Value) (sequence.Iterable, bool) {
	ft := rv.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 0 {
		return nil, false
	}
	yt := ft.In(0)
	if yt.Kind() != reflect.Func || yt.NumOut() != 1 || yt.Out(0) != boolType {
		return nil, false
	}
	switch yt.NumIn() {
	case 1:
		seq := iter.Seq[any](func(yield func(any) bool) {
			y := reflect.MakeFunc(yt, func(in []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(yield(in[0].Interface()))}
			})
			rv.Call([]reflect.Value{y})
		})
		return FromSeq(seq), true
	case 2:
		seq := iter.Seq2[any, any](func(yield func(any, any) bool) {
			y := reflect.MakeFunc(yt, func(in []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(yield(in[0].Interface(), in[1].Interface()))}
			})
			rv.Call([]reflect.Value{y})
		})
		return FromSeq2(seq), true
	}
	return nil, false
}
