// Package ident decides whether two snapshots of a value are the same value
// for incremental validation.
//
// Containers compare by identity, never by content: two maps are the same only
// when they are the same map, two slices only when they share a backing array
// and length. Everything else compares with == when the dynamic values are
// comparable.
package ident

import "reflect"

// Same reports whether a and b are the same value.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.UnsafePointer() == vb.UnsafePointer() && va.Len() == vb.Len()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
