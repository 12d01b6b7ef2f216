/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cases holds the fixed edge and simple case lists of a question and
// enumerates the combinations of cases for the parameters of a method.
package cases

import (
	"reflect"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

// List is an ordered list of case values of a single type.
// A nil entry stands for the zero value of the type, e.g. a nil slice.
type List []interface{}

// Copy returns an independent deep copy of the i-th case.
// Callers running the reference and the submission on the same case
// must each use their own copy, since either side may mutate it.
func (l List) Copy(i int) (interface{}, error) {
	if l[i] == nil {
		return nil, nil
	}
	c, err := copystructure.Copy(l[i])
	if err != nil {
		return nil, errors.WithMessagef(err, "could not copy case %d", i)
	}
	return c, nil
}

// NonNil returns the list without its nil entries.
func (l List) NonNil() List {
	result := make(List, 0, len(l))
	for _, v := range l {
		if v != nil {
			result = append(result, v)
		}
	}
	return result
}

// Catalog maps types to their edge and simple case lists.
type Catalog struct {
	lists map[types.CaseKind]map[reflect.Type]List
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		lists: map[types.CaseKind]map[reflect.Type]List{
			types.EdgeCases:   {},
			types.SimpleCases: {},
		},
	}
}

// NewDefaultCatalog returns a catalog holding the library default case lists of the built-in types.
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	for t, l := range defaultEdgeCases() {
		c.lists[types.EdgeCases][t] = l
	}
	for t, l := range defaultSimpleCases() {
		c.lists[types.SimpleCases][t] = l
	}
	return c
}

// Override sets the case list of kind for type t, replacing any list the catalog already has.
// Every value must be usable as a t.
func (c *Catalog) Override(kind types.CaseKind, t reflect.Type, values ...interface{}) error {
	l := make(List, len(values))
	for i, v := range values {
		rv, err := types.ValueFor(v, t)
		if err != nil {
			return types.Misusef("%s case %d for %v: %s", kind, i, t, err)
		}
		l[i] = rv.Interface()
		if v == nil {
			l[i] = nil
		}
	}
	c.lists[kind][t] = l
	return nil
}

// Lookup returns the case list of kind for type t.
func (c *Catalog) Lookup(kind types.CaseKind, t reflect.Type) (List, bool) {
	l, ok := c.lists[kind][t]
	return l, ok
}

// EdgeCasesFor returns the edge cases of t.
func (c *Catalog) EdgeCasesFor(t reflect.Type) (List, bool) {
	return c.Lookup(types.EdgeCases, t)
}

// SimpleCasesFor returns the simple cases of t.
func (c *Catalog) SimpleCasesFor(t reflect.Type) (List, bool) {
	return c.Lookup(types.SimpleCases, t)
}

// Clone returns an independent copy of the catalog, sharing the immutable lists.
func (c *Catalog) Clone() *Catalog {
	clone := NewCatalog()
	for kind, lists := range c.lists {
		for t, l := range lists {
			clone.lists[kind][t] = l
		}
	}
	return clone
}
