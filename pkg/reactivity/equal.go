package reactivity

import (
	"math"
	"reflect"
)

// sameValue reports whether a and b are the same value for change detection.
// Floats treat NaN as equal to itself and +0 and -0 as distinct. Maps and
// slices compare by identity, functions never compare equal, and other
// comparable values compare field by field and element by element with the
// same float rules. Non-comparable structs and arrays fall back to
// reflect.DeepEqual.
func sameValue[T any](a, b T) bool {
	return sameAny(any(a), any(b))
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b && math.Signbit(a) == math.Signbit(b)
}

func sameAny(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(va.Float(), vb.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := va.Complex(), vb.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	case reflect.Map:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.UnsafePointer() == vb.UnsafePointer() && va.Len() == vb.Len()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}
	if va.Comparable() && vb.Comparable() {
		return sameComparable(va, vb)
	}
	return reflect.DeepEqual(a, b)
}

// sameComparable compares two comparable values of the same type. Unexported
// fields are read through reflect without Interface.
func sameComparable(va, vb reflect.Value) bool {
	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(va.Float(), vb.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := va.Complex(), vb.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	case reflect.Struct:
		for i := range va.NumField() {
			if !sameComparable(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := range va.Len() {
			if !sameComparable(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		ea, eb := va.Elem(), vb.Elem()
		if ea.Type() != eb.Type() || !ea.Comparable() || !eb.Comparable() {
			return false
		}
		return sameComparable(ea, eb)
	}
	return va.Equal(vb)
}
