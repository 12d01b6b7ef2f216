/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package types

import (
	"reflect"

	"github.com/pkg/errors"
)

// ValueFor converts a value produced by a generator or a case list to a reflect.Value of type t.
// A nil interface becomes the zero value of t.
func ValueFor(v interface{}, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(t):
		if rv.Type() != t {
			converted := reflect.New(t).Elem()
			converted.Set(rv)
			return converted, nil
		}
		return rv, nil
	case isFloat(rv.Kind()) && isInteger(t.Kind()):
		return reflect.Value{}, errors.Errorf("value %v of type %v would be truncated as %v", v, rv.Type(), t)
	case rv.Type().ConvertibleTo(t) && (t.Kind() != reflect.String || rv.Kind() == reflect.String):
		// Integers are convertible to strings, but never meant to be.
		return rv.Convert(t), nil
	default:
		return reflect.Value{}, errors.Errorf("value of type %v cannot be used as %v", rv.Type(), t)
	}
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}
