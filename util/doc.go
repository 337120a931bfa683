// Package util provides the value semantics shared by pipeline operations:
// strict equality, a seen-set built on it, natural ordering, truthiness and
// string conversion of dynamically typed values.
package util
