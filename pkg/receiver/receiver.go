/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package receiver decides how the stateful objects that methods under test
// are invoked on are produced from one test iteration to the next.
package receiver

import (
	"fmt"
	"math/rand"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

// Kind is the tag of a Strategy.
type Kind int

const (
	None Kind = iota
	DefaultConstructor
	Generator
	Next
)

func (k Kind) String() string {
	switch k {
	case None:
		return "NONE"
	case DefaultConstructor:
		return "DEFAULT_CONSTRUCTOR"
	case Generator:
		return "GENERATOR"
	case Next:
		return "NEXT"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// NextFunc derives the receiver of an iteration from the receiver of the previous one.
// previous is nil on the first iteration.
type NextFunc func(previous interface{}, iteration int, random *rand.Rand) interface{}

// GeneratorFunc creates a receiver from scratch.
type GeneratorFunc func(complexity int, random *rand.Rand) interface{}

// ConstructorFunc creates a receiver in its initial state.
type ConstructorFunc func() interface{}

// Hooks are the ways a question offers to produce receivers. Any of them may be nil.
type Hooks struct {
	Next        NextFunc
	Generator   GeneratorFunc
	Constructor ConstructorFunc
}

// Strategy produces receivers for one side of a test run.
type Strategy struct {
	kind  Kind
	hooks Hooks
}

// Select chooses the strategy of a question, preferring Next over Generator
// over DefaultConstructor. A method needing a receiver must not end up with None.
func Select(hooks Hooks, needsReceiver bool) (*Strategy, error) {
	kind := None
	switch {
	case hooks.Next != nil:
		kind = Next
	case hooks.Generator != nil:
		kind = Generator
	case hooks.Constructor != nil:
		kind = DefaultConstructor
	}

	if kind == None && needsReceiver {
		return nil, types.Misusef("method needs a receiver, but there is no next function, receiver generator or default constructor")
	}
	if !needsReceiver {
		kind = None
	}

	return &Strategy{kind: kind, hooks: hooks}, nil
}

// ForSide returns a strategy of the same kind using another side's hooks.
// The reference selects the strategy; the submission must follow it.
func (s *Strategy) ForSide(hooks Hooks) (*Strategy, error) {
	other := &Strategy{kind: s.kind, hooks: hooks}
	switch {
	case s.kind == Next && hooks.Next == nil,
		s.kind == Generator && hooks.Generator == nil,
		s.kind == DefaultConstructor && hooks.Constructor == nil:
		return nil, types.Misusef("submission provides no hook for receiver strategy %s", s.kind)
	}
	return other, nil
}

func (s *Strategy) Kind() Kind {
	return s.kind
}

// Generate produces the receiver of an iteration.
// Next ignores complexity; Generator and DefaultConstructor ignore previous and iteration.
func (s *Strategy) Generate(previous interface{}, iteration, complexity int, random *rand.Rand) interface{} {
	switch s.kind {
	case Next:
		return s.hooks.Next(previous, iteration, random)
	case Generator:
		return s.hooks.Generator(complexity, random)
	case DefaultConstructor:
		return s.hooks.Constructor()
	default:
		return nil
	}
}
