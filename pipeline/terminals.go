package pipeline

import (
	"bytes"
	"context"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/observability"
	"github.com/kbukum/collection/operation"
	"github.com/kbukum/collection/sequence"
	"github.com/kbukum/collection/util"
)

// terminal runs fn inside the pipeline.<name> span and records its metrics.
func (p *Pipeline) terminal(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	tc := observability.NewTerminalContext(name, p.depth, observability.Default())
	ctx, span := tc.Start(ctx)

	err := p.err
	if err == nil {
		err = fn(ctx)
	}
	tc.End(ctx, span, err)

	log := logger.Get(logger.ComponentPipeline)
	fields := logger.Fields(
		logger.FieldTerminal, name,
		logger.FieldOperations, p.depth,
		logger.FieldDuration, tc.Duration().Milliseconds(),
	)
	if err != nil {
		log.WithContext(ctx).Debug("terminal failed", logger.MergeWithError(fields, err))
	} else {
		log.WithContext(ctx).Debug("terminal done", fields)
	}
	return err
}

// each pulls pairs into fn until the pipeline ends, fn returns false or an
// error occurs. The run is closed on every path.
func (p *Pipeline) each(ctx context.Context, fn func(sequence.Pair) (bool, error)) error {
	it := p.Iter(ctx)
	defer it.Close()
	for {
		pair, ok, err := it.Next(ctx)
		if err != nil || !ok {
			return err
		}
		more, err := fn(pair)
		if err != nil || !more {
			return err
		}
	}
}

// Count returns the number of elements.
func (p *Pipeline) Count(ctx context.Context) (int, error) {
	n := 0
	err := p.terminal(ctx, "count", func(ctx context.Context) error {
		return p.each(ctx, func(sequence.Pair) (bool, error) {
			n++
			return true, nil
		})
	})
	return n, err
}

// Reduce folds the values from left to right, starting from initial.
func (p *Pipeline) Reduce(ctx context.Context, reducer operation.Reducer, initial any) (any, error) {
	return p.fold(ctx, "reduce", reducer, initial)
}

// FoldLeft is Reduce.
func (p *Pipeline) FoldLeft(ctx context.Context, reducer operation.Reducer, initial any) (any, error) {
	return p.fold(ctx, "fold_left", reducer, initial)
}

func (p *Pipeline) fold(ctx context.Context, name string, reducer operation.Reducer, initial any) (any, error) {
	if reducer == nil {
		return nil, errors.Configuration(name, "callback is required")
	}
	carry := initial
	err := p.terminal(ctx, name, func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			next, err := reducer(carry, pair.Value, pair.Key)
			if err != nil {
				return false, err
			}
			carry = next
			return true, nil
		})
	})
	return carry, err
}

// FoldRight folds the values from right to left, starting from initial. It
// reads the whole pipeline before calling reducer, so it never returns on an
// infinite pipeline.
func (p *Pipeline) FoldRight(ctx context.Context, reducer operation.Reducer, initial any) (any, error) {
	if reducer == nil {
		return nil, errors.Configuration("fold_right", "callback is required")
	}
	carry := initial
	err := p.terminal(ctx, "fold_right", func(ctx context.Context) error {
		pairs, err := sequence.Collect(ctx, p)
		if err != nil {
			return err
		}
		for _, pair := range slices.Backward(pairs) {
			if carry, err = reducer(carry, pair.Value, pair.Key); err != nil {
				return err
			}
		}
		return nil
	})
	return carry, err
}

// First returns the first value. ok is false when the pipeline is empty.
func (p *Pipeline) First(ctx context.Context) (value any, ok bool, err error) {
	err = p.terminal(ctx, "first", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			value, ok = pair.Value, true
			return false, nil
		})
	})
	return value, ok, err
}

// Last returns the last value. ok is false when the pipeline is empty.
func (p *Pipeline) Last(ctx context.Context) (value any, ok bool, err error) {
	err = p.terminal(ctx, "last", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			value, ok = pair.Value, true
			return true, nil
		})
	})
	return value, ok, err
}

// Get returns the value of the first element whose key equals key, or def
// (nil when omitted) when there is none.
func (p *Pipeline) Get(ctx context.Context, key any, def ...any) (any, error) {
	var value any
	if len(def) > 0 {
		value = def[0]
	}
	err := p.terminal(ctx, "get", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			if util.Equal(pair.Key, key) {
				value = pair.Value
				return false, nil
			}
			return true, nil
		})
	})
	return value, err
}

// Current returns the value at position index.
func (p *Pipeline) Current(ctx context.Context, index int) (any, bool, error) {
	pair, ok, err := p.at(ctx, "current", index)
	return pair.Value, ok, err
}

// Key returns the key at position index.
func (p *Pipeline) Key(ctx context.Context, index int) (any, bool, error) {
	pair, ok, err := p.at(ctx, "key", index)
	return pair.Key, ok, err
}

func (p *Pipeline) at(ctx context.Context, name string, index int) (found sequence.Pair, ok bool, err error) {
	if index < 0 {
		return found, false, errors.OutOfBounds(name, "index", index)
	}
	pos := 0
	err = p.terminal(ctx, name, func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			if pos == index {
				found, ok = pair, true
				return false, nil
			}
			pos++
			return true, nil
		})
	})
	return found, ok, err
}

// Contains reports whether every one of values occurs in the pipeline. It
// stops as soon as the last of them is found.
func (p *Pipeline) Contains(ctx context.Context, values ...any) (bool, error) {
	missing := slices.Clone(values)
	err := p.terminal(ctx, "contains", func(ctx context.Context) error {
		if len(missing) == 0 {
			return nil
		}
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			missing = slices.DeleteFunc(missing, func(v any) bool { return util.Equal(v, pair.Value) })
			return len(missing) > 0, nil
		})
	})
	return len(missing) == 0 && err == nil, err
}

// Has reports whether pred holds for some element, stopping at the first.
func (p *Pipeline) Has(ctx context.Context, pred operation.Predicate) (bool, error) {
	if pred == nil {
		return false, errors.Configuration("has", "callback is required")
	}
	found := false
	err := p.terminal(ctx, "has", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			found = pred(pair.Value, pair.Key)
			return !found, nil
		})
	})
	return found, err
}

// Truthy reports whether every value is truthy. An empty pipeline is truthy.
func (p *Pipeline) Truthy(ctx context.Context) (bool, error) {
	return p.every(ctx, "truthy", util.Truthy)
}

// Falsy reports whether every value is falsy.
func (p *Pipeline) Falsy(ctx context.Context) (bool, error) {
	return p.every(ctx, "falsy", func(v any) bool { return !util.Truthy(v) })
}

// Nullsy reports whether every value is nil, false, zero, an empty string
// or an empty list or map.
func (p *Pipeline) Nullsy(ctx context.Context) (bool, error) {
	return p.every(ctx, "nullsy", nullsy)
}

func nullsy(v any) bool {
	if s, ok := v.(string); ok {
		return s == ""
	}
	return !util.Truthy(v)
}

func (p *Pipeline) every(ctx context.Context, name string, test func(any) bool) (bool, error) {
	all := true
	err := p.terminal(ctx, name, func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			all = test(pair.Value)
			return all, nil
		})
	})
	return all && err == nil, err
}

// Implode joins the values with sep, "" by default.
func (p *Pipeline) Implode(ctx context.Context, sep ...string) (string, error) {
	glue := ""
	if len(sep) > 0 {
		glue = sep[0]
	}
	var b strings.Builder
	first := true
	err := p.terminal(ctx, "implode", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			if !first {
				b.WriteString(glue)
			}
			first = false
			b.WriteString(util.ToString(pair.Value))
			return true, nil
		})
	})
	return b.String(), err
}

// All collects the pipeline into a map. Unlike the pipeline itself a map
// holds each key once: for duplicate keys the last value wins. A key that
// cannot be a map key fails with UNHASHABLE_KEY.
func (p *Pipeline) All(ctx context.Context) (map[any]any, error) {
	out := make(map[any]any)
	err := p.terminal(ctx, "all", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			if !util.Hashable(pair.Key) {
				return false, errors.UnhashableKey("all", pair.Key)
			}
			out[pair.Key] = pair.Value
			return true, nil
		})
	})
	return out, err
}

// Pairs returns every pair in order, duplicate keys included.
func (p *Pipeline) Pairs(ctx context.Context) ([]sequence.Pair, error) {
	var pairs []sequence.Pair
	err := p.terminal(ctx, "pairs", func(ctx context.Context) error {
		var err error
		pairs, err = sequence.Collect(ctx, p)
		return err
	})
	return pairs, err
}

// Values returns every value in order.
func (p *Pipeline) Values(ctx context.Context) ([]any, error) {
	var values []any
	err := p.terminal(ctx, "values", func(ctx context.Context) error {
		var err error
		values, err = sequence.CollectValues(ctx, p)
		return err
	})
	return values, err
}

// ForEach calls fn for every element. The first error fn returns ends the
// run and is returned as is.
func (p *Pipeline) ForEach(ctx context.Context, fn operation.Callback) error {
	if fn == nil {
		return errors.Configuration("for_each", "callback is required")
	}
	return p.terminal(ctx, "for_each", func(ctx context.Context) error {
		return p.each(ctx, func(pair sequence.Pair) (bool, error) {
			return true, fn(pair.Value, pair.Key)
		})
	})
}

// JSON encodes the pipeline. A pipeline keyed 0, 1, 2, ... encodes as an
// array; any other encodes as an object in first-seen key order, the last
// value winning for repeated keys. Keys are rendered with util.ToString.
func (p *Pipeline) JSON(ctx context.Context) ([]byte, error) {
	var out []byte
	err := p.terminal(ctx, "json", func(ctx context.Context) error {
		pairs, err := sequence.Collect(ctx, p)
		if err != nil {
			return err
		}
		doc, err := jsonDocument(ctx, pairs)
		if err != nil {
			return err
		}
		out, err = json.Marshal(doc)
		return err
	})
	return out, err
}

// jsonObject marshals as an object in pair order, the last value winning
// for a repeated key.
type jsonObject []sequence.Pair

func (o jsonObject) MarshalJSON() ([]byte, error) { return encodeObject(o) }

func jsonDocument(ctx context.Context, pairs []sequence.Pair) (any, error) {
	norm := make([]sequence.Pair, len(pairs))
	for i, pair := range pairs {
		v, err := jsonValue(ctx, pair.Value)
		if err != nil {
			return nil, err
		}
		norm[i] = sequence.Pair{Key: pair.Key, Value: v}
	}
	if isList(norm) {
		values := make([]any, len(norm))
		for i, pair := range norm {
			values[i] = pair.Value
		}
		return values, nil
	}
	return jsonObject(norm), nil
}

// jsonValue rewrites maps with arbitrary key types, lists and nested
// sequences into shapes the encoder accepts.
func jsonValue(ctx context.Context, v any) (any, error) {
	if it, ok := v.(sequence.Iterable); ok {
		pairs, err := sequence.Collect(ctx, it)
		if err != nil {
			return nil, err
		}
		return jsonDocument(ctx, pairs)
	}
	if util.IsList(v) {
		items := util.ListValues(v)
		out := make([]any, len(items))
		for i, item := range items {
			n, err := jsonValue(ctx, item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return v, nil
	}
	if rv.IsNil() {
		return nil, nil
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return util.Compare(a.Interface(), b.Interface()) })
	obj := make(jsonObject, len(keys))
	for i, k := range keys {
		n, err := jsonValue(ctx, rv.MapIndex(k).Interface())
		if err != nil {
			return nil, err
		}
		obj[i] = sequence.Pair{Key: k.Interface(), Value: n}
	}
	return obj, nil
}

func isList(pairs []sequence.Pair) bool {
	for i, pair := range pairs {
		if k, ok := pair.Key.(int); !ok || k != i {
			return false
		}
	}
	return true
}

func encodeObject(pairs []sequence.Pair) ([]byte, error) {
	var (
		order []string
		index = make(map[string]int)
		vals  []any
	)
	for _, pair := range pairs {
		k := util.ToString(pair.Key)
		if i, seen := index[k]; seen {
			vals[i] = pair.Value
			continue
		}
		index[k] = len(order)
		order = append(order, k)
		vals = append(vals, pair.Value)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
