/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package types

import (
	"fmt"
	"reflect"
)

// ================================================================================

// Request identifies a generator: the type of the values it produces and an optional name.
// A Request with an empty Name denotes the default generator for Type.
type Request struct {
	Type reflect.Type
	Name string
}

// DefaultRequest returns the request for the unnamed generator of type t.
func DefaultRequest(t reflect.Type) Request {
	return Request{Type: t}
}

// NamedRequest returns the request for the generator of type t registered under name.
func NamedRequest(t reflect.Type, name string) Request {
	return Request{Type: t, Name: name}
}

// IsDefault reports whether the request carries no name.
func (r Request) IsDefault() bool {
	return r.Name == ""
}

func (r Request) String() string {
	if r.IsDefault() {
		return fmt.Sprintf("%v", r.Type)
	}
	return fmt.Sprintf("%v (named %q)", r.Type, r.Name)
}

// CharName is the generator name under which the rune generator used to build strings is registered.
// Go has no distinct character type, so characters are requested as named int32 values.
const CharName = "char"

// CharRequest is the request for the generator producing the characters of generated strings.
var CharRequest = NamedRequest(reflect.TypeOf(rune(0)), CharName)

// ================================================================================

// CaseKind distinguishes the two kinds of fixed case lists.
type CaseKind int

const (
	EdgeCases CaseKind = iota
	SimpleCases
)

func (ck CaseKind) String() string {
	switch ck {
	case EdgeCases:
		return "edge"
	case SimpleCases:
		return "simple"
	default:
		return fmt.Sprintf("CaseKind(%d)", int(ck))
	}
}

// ================================================================================

// Kind is the tag of a TestKind.
type Kind int

const (
	KindEdgeCase Kind = iota
	KindSimpleCase
	KindGenerated
	KindRegression
)

func (k Kind) String() string {
	switch k {
	case KindEdgeCase:
		return "EdgeCase"
	case KindSimpleCase:
		return "SimpleCase"
	case KindGenerated:
		return "Generated"
	case KindRegression:
		return "Regression"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindEdgeCase; k <= KindRegression; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// TestKind describes what sort of input a single test iteration is built from.
// Complexity is only meaningful for Generated and Regression tests.
// Mixed is only set on Generated tests whose parameters each pick
// independently between edge cases, simple cases and generated values.
type TestKind struct {
	Kind       Kind
	Complexity int
	Mixed      bool
}

func EdgeCase() TestKind {
	return TestKind{Kind: KindEdgeCase}
}

func SimpleCase() TestKind {
	return TestKind{Kind: KindSimpleCase}
}

func Generated(complexity int) TestKind {
	return TestKind{Kind: KindGenerated, Complexity: complexity}
}

func MixedGenerated(complexity int) TestKind {
	return TestKind{Kind: KindGenerated, Complexity: complexity, Mixed: true}
}

func Regression(complexity int) TestKind {
	return TestKind{Kind: KindRegression, Complexity: complexity}
}

func (tk TestKind) String() string {
	switch tk.Kind {
	case KindGenerated:
		if tk.Mixed {
			return fmt.Sprintf("Generated(%d, mixed)", tk.Complexity)
		}
		return fmt.Sprintf("Generated(%d)", tk.Complexity)
	case KindRegression:
		return fmt.Sprintf("Regression(%d)", tk.Complexity)
	default:
		return tk.Kind.String()
	}
}
