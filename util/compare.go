package util

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

// Compare orders two dynamically typed values naturally and returns -1, 0 or +1.
//
// nil sorts first, then booleans (false before true), then numbers by numeric
// value regardless of their Go type, then strings in byte order. Any other
// value sorts last, ordered by its fmt representation.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ba, bb := reflect.ValueOf(a).Bool(), reflect.ValueOf(b).Bool()
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case rankNumber:
		return compareNumbers(reflect.ValueOf(a), reflect.ValueOf(b))
	case rankString:
		return strings.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func rank(v any) int {
	if v == nil {
		return rankNil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return rankBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	default:
		return rankOther
	}
}

func compareNumbers(a, b reflect.Value) int {
	switch {
	case a.CanInt() && b.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint() && b.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	}
	fa, _ := ToFloat(a.Interface())
	fb, _ := ToFloat(b.Interface())
	return cmp.Compare(fa, fb)
}

// ToFloat converts any numeric value to float64.
func ToFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	default:
		return 0, false
	}
}
