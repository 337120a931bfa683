package pipeline

import (
	"github.com/kbukum/collection/operation"
	"github.com/kbukum/collection/sequence"
)

// Fluent forms of the operation package. Each returns a new pipeline; see
// the operation of the same name for its semantics.

// Map applies mappers to every value.
func (p *Pipeline) Map(mappers ...operation.Mapper) *Pipeline {
	return p.bind(operation.Map(mappers...))
}

// Filter keeps elements for which every predicate holds, or truthy values.
func (p *Pipeline) Filter(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.Filter(preds...))
}

// Reject drops the elements Filter would keep.
func (p *Pipeline) Reject(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.Reject(preds...))
}

// Limit keeps at most count elements after offset.
func (p *Pipeline) Limit(count int, offset ...int) *Pipeline {
	return p.bind(operation.Limit(count, offset...))
}

// Drop skips the first elements.
func (p *Pipeline) Drop(counts ...int) *Pipeline {
	return p.bind(operation.Drop(counts...))
}

// DropWhile skips elements while every predicate holds.
func (p *Pipeline) DropWhile(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.DropWhile(preds...))
}

// TakeWhile keeps elements while every predicate holds.
func (p *Pipeline) TakeWhile(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.TakeWhile(preds...))
}

// Until keeps elements up to and including the first match.
func (p *Pipeline) Until(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.Until(preds...))
}

// Since keeps elements from the first one matching every predicate.
func (p *Pipeline) Since(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.Since(preds...))
}

// Slice keeps length elements after offset.
func (p *Pipeline) Slice(offset int, length ...int) *Pipeline {
	return p.bind(operation.Slice(offset, length...))
}

// Nth keeps every step-th element.
func (p *Pipeline) Nth(step int, offset ...int) *Pipeline {
	return p.bind(operation.Nth(step, offset...))
}

// Head keeps the first element.
func (p *Pipeline) Head() *Pipeline { return p.Chain(operation.Head()) }

// Tail drops the first element.
func (p *Pipeline) Tail() *Pipeline { return p.Chain(operation.Tail()) }

// Init drops the last element.
func (p *Pipeline) Init() *Pipeline { return p.Chain(operation.Init()) }

// Append adds values at the end.
func (p *Pipeline) Append(values ...any) *Pipeline { return p.Chain(operation.Append(values...)) }

// Prepend adds values at the start.
func (p *Pipeline) Prepend(values ...any) *Pipeline { return p.Chain(operation.Prepend(values...)) }

// Keys replaces elements with their keys.
func (p *Pipeline) Keys() *Pipeline { return p.Chain(operation.Keys()) }

// Normalize re-keys the pipeline 0, 1, 2, ...
func (p *Pipeline) Normalize() *Pipeline { return p.Chain(operation.Normalize()) }

// Flip swaps keys and values.
func (p *Pipeline) Flip() *Pipeline { return p.Chain(operation.Flip()) }

// Zip combines elements with those of others.
func (p *Pipeline) Zip(others ...sequence.Iterable) *Pipeline {
	return p.Chain(operation.Zip(others...))
}

// Intersperse inserts element before every every-th value, counting from
// startAt. opts are every (default 1) and startAt (default 0).
func (p *Pipeline) Intersperse(element any, opts ...int) *Pipeline {
	return p.bind(operation.Intersperse(element, opts...))
}

// Pad appends value until there are size elements.
func (p *Pipeline) Pad(size int, value any) *Pipeline {
	return p.bind(operation.Pad(size, value))
}

// Compact removes the given values, nil by default.
func (p *Pipeline) Compact(values ...any) *Pipeline { return p.Chain(operation.Compact(values...)) }

// Diff removes the given values.
func (p *Pipeline) Diff(values ...any) *Pipeline { return p.Chain(operation.Diff(values...)) }

// Intersect keeps only the given values.
func (p *Pipeline) Intersect(values ...any) *Pipeline { return p.Chain(operation.Intersect(values...)) }

// DiffKeys removes elements with the given keys.
func (p *Pipeline) DiffKeys(keys ...any) *Pipeline { return p.Chain(operation.DiffKeys(keys...)) }

// IntersectKeys keeps only elements with the given keys.
func (p *Pipeline) IntersectKeys(keys ...any) *Pipeline {
	return p.Chain(operation.IntersectKeys(keys...))
}

// Merge appends the pairs of others.
func (p *Pipeline) Merge(others ...sequence.Iterable) *Pipeline {
	return p.Chain(operation.Merge(others...))
}

// Combine replaces the keys with keys.
func (p *Pipeline) Combine(keys ...any) *Pipeline { return p.Chain(operation.Combine(keys...)) }

// Apply calls callbacks on every element.
func (p *Pipeline) Apply(callbacks ...operation.Callback) *Pipeline {
	return p.bind(operation.Apply(callbacks...))
}

// IfThenElse maps matching values with then and the rest with otherwise.
func (p *Pipeline) IfThenElse(cond operation.Predicate, then, otherwise operation.Mapper) *Pipeline {
	return p.bind(operation.IfThenElse(cond, then, otherwise))
}

// Reduction emits the running fold of the values.
func (p *Pipeline) Reduction(reducer operation.Reducer, initial any) *Pipeline {
	return p.bind(operation.Reduction(reducer, initial))
}

// Flatten expands list values depth levels deep.
func (p *Pipeline) Flatten(depth int) *Pipeline { return p.bind(operation.Flatten(depth)) }

// Collapse expands list values and drops the others.
func (p *Pipeline) Collapse() *Pipeline { return p.Chain(operation.Collapse()) }

// Unwrap expands list and map values into their pairs.
func (p *Pipeline) Unwrap() *Pipeline { return p.Chain(operation.Unwrap()) }

// Wrap turns each pair into a one-entry map.
func (p *Pipeline) Wrap() *Pipeline { return p.Chain(operation.Wrap()) }

// Pack turns each pair into a [key, value] list.
func (p *Pipeline) Pack() *Pipeline { return p.Chain(operation.Pack()) }

// Unpack turns [key, value] lists back into pairs.
func (p *Pipeline) Unpack() *Pipeline { return p.Chain(operation.Unpack()) }

// Pair reads values two at a time as key and value.
func (p *Pipeline) Pair() *Pipeline { return p.Chain(operation.Pair()) }

// Unpair emits every key and value as consecutive values.
func (p *Pipeline) Unpair() *Pipeline { return p.Chain(operation.Unpair()) }

// Explode cuts the values into chunks at the separators.
func (p *Pipeline) Explode(separators ...any) *Pipeline {
	return p.Chain(operation.Explode(separators...))
}

// RSample keeps each element with the given probability.
func (p *Pipeline) RSample(probability float64, seed ...uint64) *Pipeline {
	return p.bind(operation.RSample(probability, seed...))
}

// Distinct drops repeated values.
func (p *Pipeline) Distinct() *Pipeline { return p.Chain(operation.Distinct()) }

// Window replaces each value with it and up to size values before it.
func (p *Pipeline) Window(size int) *Pipeline { return p.bind(operation.Window(size)) }

// Split cuts the values into chunks before each match.
func (p *Pipeline) Split(preds ...operation.Predicate) *Pipeline {
	return p.bind(operation.Split(preds...))
}

// Chunk groups values into chunks of size every step values.
func (p *Pipeline) Chunk(size int, step ...int) *Pipeline {
	return p.bind(operation.Chunk(size, step...))
}

// Cycle repeats the pipeline limit times, or forever.
func (p *Pipeline) Cycle(limit ...int) *Pipeline { return p.bind(operation.Cycle(limit...)) }

// Sort orders the pairs by value or key.
func (p *Pipeline) Sort(by operation.SortBy, cmp ...operation.Comparator) *Pipeline {
	return p.bind(operation.Sort(by, cmp...))
}

// Reverse emits the pairs in reverse order.
func (p *Pipeline) Reverse() *Pipeline { return p.Chain(operation.Reverse()) }

// Frequency emits each distinct value keyed by its count.
func (p *Pipeline) Frequency() *Pipeline { return p.Chain(operation.Frequency()) }

// Group collects values into groups.
func (p *Pipeline) Group(fn ...operation.GroupFunc) *Pipeline {
	return p.Chain(operation.Group(fn...))
}

// Shuffle emits the pairs in random order.
func (p *Pipeline) Shuffle(seed ...uint64) *Pipeline { return p.Chain(operation.Shuffle(seed...)) }

// Random emits count random pairs.
func (p *Pipeline) Random(count int, seed ...uint64) *Pipeline {
	return p.bind(operation.Random(count, seed...))
}

// Product emits the cartesian product with others.
func (p *Pipeline) Product(others ...sequence.Iterable) *Pipeline {
	return p.Chain(operation.Product(others...))
}

// Unzip turns rows of list values into columns.
func (p *Pipeline) Unzip() *Pipeline { return p.Chain(operation.Unzip()) }
