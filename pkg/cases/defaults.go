/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cases

import (
	"reflect"
)

func typeOf(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

// scalarEdgeCases are the edge cases of the built-in scalar types.
// Booleans have no edge cases, so they are always generated.
// int32 doubles as the rune type and is treated as an integer.
var scalarEdgeCases = []List{
	{int(0)},
	{int8(0)},
	{int16(0)},
	{int32(0)},
	{int64(0)},
	{uint(0)},
	{uint8(0)},
	{uint16(0)},
	{uint32(0)},
	{uint64(0)},
	{float32(0)},
	{float64(0)},
	{""},
}

var scalarSimpleCases = []List{
	{int(-1), int(1)},
	{int8(-1), int8(1)},
	{int16(-1), int16(1)},
	{int32(-1), int32(1)},
	{int64(-1), int64(1)},
	{uint(1), uint(2)},
	{uint8(1), uint8(2)},
	{uint16(1), uint16(2)},
	{uint32(1), uint32(2)},
	{uint64(1), uint64(2)},
	{float32(-1), float32(1)},
	{float64(-1), float64(1)},
	{"a", "A", "0"},
}

func defaultEdgeCases() map[reflect.Type]List {
	result := map[reflect.Type]List{
		typeOf(false): {},
	}
	for _, l := range append(scalarEdgeCases, List{false}) {
		t := typeOf(l[0])
		if t.Kind() != reflect.Bool {
			result[t] = l
		}

		// Slices of built-in scalars have the empty slice and nil as edge cases.
		sliceType := reflect.SliceOf(t)
		result[sliceType] = List{reflect.MakeSlice(sliceType, 0, 0).Interface(), nil}
	}
	return result
}

func defaultSimpleCases() map[reflect.Type]List {
	result := map[reflect.Type]List{}
	for _, l := range scalarSimpleCases {
		t := typeOf(l[0])
		result[t] = l

		// Slices of built-in scalars have a single zero element as simple case.
		sliceType := reflect.SliceOf(t)
		single := reflect.MakeSlice(sliceType, 1, 1)
		result[sliceType] = List{single.Interface()}
	}
	return result
}
