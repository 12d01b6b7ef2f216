/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cases

import (
	"math/rand"
	"reflect"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/generators"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

const (
	// EdgeFallbackComplexity is the complexity at which arguments without edge cases are generated.
	EdgeFallbackComplexity = 0

	// SimpleFallbackComplexity is the complexity at which arguments without simple cases are generated.
	SimpleFallbackComplexity = 2
)

// Parameter is one parameter of a method under test together with its fixed cases.
// A parameter without cases has its value generated by Fallback instead.
type Parameter struct {
	Type     reflect.Type
	Cases    List
	Fallback generators.Generator
}

func (p Parameter) base() int {
	if len(p.Cases) == 0 {
		return 1
	}
	return len(p.Cases)
}

// Case is one combination of cases. Receiver is only set if the receiver type has cases.
type Case struct {
	Receiver    interface{}
	HasReceiver bool
	Args        []interface{}
}

// MethodArgumentCases enumerates the combinations of the cases of a receiver and
// of the parameters of a method without materializing them.
// Combination indices are decoded as mixed-radix numbers whose digits select one
// case per position, the receiver being the least significant digit.
type MethodArgumentCases struct {
	receiver           List
	params             []Parameter
	fallbackComplexity int
	total              int
	enumerator         *Enumerator
}

// NewMethodArgumentCases prepares the enumeration. Nil receiver cases are dropped,
// since a receiver must exist; an empty receiver list means the receiver is produced elsewhere.
func NewMethodArgumentCases(receiver List, params []Parameter, fallbackComplexity int) (*MethodArgumentCases, error) {
	receiver = receiver.NonNil()

	total := 1
	if len(receiver) > 0 {
		total = len(receiver)
	}
	for i, p := range params {
		if len(p.Cases) == 0 && p.Fallback == nil {
			return nil, types.Misusef("parameter %d of type %v has neither cases nor a generator", i, p.Type)
		}
		total *= p.base()
	}

	return &MethodArgumentCases{
		receiver:           receiver,
		params:             params,
		fallbackComplexity: fallbackComplexity,
		total:              total,
		enumerator:         NewEnumerator(total),
	}, nil
}

// ForMethod prepares the enumeration of the cases of kind for a method with the given parameter types.
// fallbacks holds, per parameter, the generator used if the catalog has no cases of kind for its type.
func (c *Catalog) ForMethod(kind types.CaseKind, receiver List, params []reflect.Type, fallbacks []generators.Generator) (*MethodArgumentCases, error) {
	if len(fallbacks) != len(params) {
		return nil, errors.Errorf("expected %d fallback generators, got %d", len(params), len(fallbacks))
	}

	parameters := make([]Parameter, len(params))
	for i, t := range params {
		list, _ := c.Lookup(kind, t)
		parameters[i] = Parameter{
			Type:     t,
			Cases:    list,
			Fallback: fallbacks[i],
		}
	}

	fallbackComplexity := EdgeFallbackComplexity
	if kind == types.SimpleCases {
		fallbackComplexity = SimpleFallbackComplexity
	}

	return NewMethodArgumentCases(receiver, parameters, fallbackComplexity)
}

// Total is the number of distinct combinations.
func (mac *MethodArgumentCases) Total() int {
	return mac.total
}

// HasCases reports whether any position has at least one case.
// Without cases, every combination consists of generated values only.
func (mac *MethodArgumentCases) HasCases() bool {
	if len(mac.receiver) > 0 {
		return true
	}
	for _, p := range mac.params {
		if len(p.Cases) > 0 {
			return true
		}
	}
	return false
}

// HasNext reports whether NextCase can still return a combination not returned since the last Reset.
func (mac *MethodArgumentCases) HasNext() bool {
	return mac.enumerator.HasNext()
}

// NextCase returns a combination not returned since the last Reset, chosen uniformly at random.
func (mac *MethodArgumentCases) NextCase(random *rand.Rand) (*Case, error) {
	return mac.Case(mac.enumerator.Next(random), random)
}

// Reset makes all combinations available again.
func (mac *MethodArgumentCases) Reset() {
	mac.enumerator.Reset()
}

// Case returns the combination with the given index. Cases are fresh copies.
// The random source is only used for generating the arguments of parameters without cases.
func (mac *MethodArgumentCases) Case(index int, random *rand.Rand) (*Case, error) {
	if index < 0 || index >= mac.total {
		return nil, errors.Errorf("case index %d out of range [0, %d)", index, mac.total)
	}

	c := &Case{Args: make([]interface{}, len(mac.params))}

	if len(mac.receiver) > 0 {
		digit := index % len(mac.receiver)
		index /= len(mac.receiver)
		receiver, err := mac.receiver.Copy(digit)
		if err != nil {
			return nil, err
		}
		c.Receiver = receiver
		c.HasReceiver = true
	}

	for i, p := range mac.params {
		if len(p.Cases) == 0 {
			c.Args[i] = p.Fallback.Generate(mac.fallbackComplexity, random)
			continue
		}

		digit := index % len(p.Cases)
		index /= len(p.Cases)
		arg, err := p.Cases.Copy(digit)
		if err != nil {
			return nil, err
		}
		c.Args[i] = arg
	}

	return c, nil
}

// Enumerator draws the indices 0..n-1 in random order without repetition,
// performing one step of a Fisher-Yates shuffle per draw.
type Enumerator struct {
	permutation []int
	chosen      int
}

func NewEnumerator(n int) *Enumerator {
	e := &Enumerator{permutation: make([]int, n)}
	e.Reset()
	return e
}

func (e *Enumerator) HasNext() bool {
	return e.chosen < len(e.permutation)
}

// Next returns an index not returned since the last Reset.
// Once all indices have been drawn, Next starts over as if Reset had been called.
func (e *Enumerator) Next(random *rand.Rand) int {
	if !e.HasNext() {
		e.Reset()
	}

	j := e.chosen + random.Intn(len(e.permutation)-e.chosen)
	e.permutation[e.chosen], e.permutation[j] = e.permutation[j], e.permutation[e.chosen]
	index := e.permutation[e.chosen]
	e.chosen++
	return index
}

// Reset restores the identity permutation.
func (e *Enumerator) Reset() {
	for i := range e.permutation {
		e.permutation[i] = i
	}
	e.chosen = 0
}

// Remaining is the number of indices not drawn since the last Reset.
func (e *Enumerator) Remaining() int {
	return len(e.permutation) - e.chosen
}
