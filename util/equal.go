package util

import (
	"math"
	"math/cmplx"
	"reflect"
)

// Equal reports whether a and b are strictly equal.
//
// Values of different dynamic types are never equal, so 1 and int64(1) and
// 1.0 are three distinct values. Hashable values compare with ==, which makes
// pointers, channels and structs of them compare by identity. Everything else
// (slices, maps, structs holding them) compares with reflect.DeepEqual.
// Functions are equal only when both are nil. A NaN equals a NaN of the same
// type, so NaN values deduplicate like any other value.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if Hashable(a) {
		return a == b || (isNaN(a) && isNaN(b))
	}
	va := reflect.ValueOf(a)
	if va.Kind() == reflect.Func {
		return va.IsNil() && reflect.ValueOf(b).IsNil()
	}
	return reflect.DeepEqual(a, b)
}

// Hashable reports whether v can be used as a map key without panicking.
func Hashable(v any) bool {
	if v == nil {
		return true
	}
	return hashable(reflect.ValueOf(v))
}

func hashable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Array:
		if !v.Type().Comparable() {
			return false
		}
		for i := range v.Len() {
			if !hashable(v.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		if !v.Type().Comparable() {
			return false
		}
		for i := range v.NumField() {
			if !hashable(v.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return hashable(v.Elem())
	default:
		return true
	}
}

// Keyable reports whether v can be found again by map lookup: it is Hashable
// and not a NaN, which never equals itself under ==.
func Keyable(v any) bool {
	return Hashable(v) && !isNaN(v)
}

func isNaN(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(rv.Float())
	case reflect.Complex64, reflect.Complex128:
		return cmplx.IsNaN(rv.Complex())
	}
	return false
}

// IndexOf returns the position of the first element of list equal to v, or -1.
func IndexOf(list []any, v any) int {
	for i, item := range list {
		if Equal(item, v) {
			return i
		}
	}
	return -1
}
