/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package statemachine decides, for every iteration of a test run,
// what kind of test to perform and at what complexity.
//
// Regression tests are spread evenly over the run, so that the last
// iteration always is one and the first never is. Among the remaining
// iterations, edge case tests come first, then simple case tests, and
// then generated tests of linearly increasing complexity.
package statemachine

import (
	"math"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

// Counts is the number of tests of each kind emitted so far.
type Counts struct {
	EdgeCases   int
	SimpleCases int
	Generated   int
	Regression  int
}

// Total returns the number of all tests emitted so far.
func (c Counts) Total() int {
	return c.EdgeCases + c.SimpleCases + c.Generated + c.Regression
}

// StateMachine is created fresh for every run and is not safe for concurrent use.
type StateMachine struct {
	config config.Resolved
	counts Counts

	// Complexity of the next generated test before rounding.
	scaling float64

	// Complexity increment per generated test.
	// Fixed when the first generated test is emitted, as the number of
	// generated tests cannot change afterwards.
	scaleBy    float64
	scaleFixed bool
}

func New(cfg config.Resolved) *StateMachine {
	return &StateMachine{
		config: cfg,
	}
}

// Config returns the run configuration, including any budgets capped since creation.
func (sm *StateMachine) Config() config.Resolved {
	return sm.config
}

func (sm *StateMachine) Counts() Counts {
	return sm.counts
}

func (sm *StateMachine) budget(kind types.CaseKind) *int {
	if kind == types.EdgeCases {
		return &sm.config.MaxOnlyEdgeCaseTests
	}
	return &sm.config.MaxOnlySimpleCaseTests
}

func (sm *StateMachine) run(kind types.CaseKind) int {
	if kind == types.EdgeCases {
		return sm.counts.EdgeCases
	}
	return sm.counts.SimpleCases
}

// CapCases limits the budget of kind to the number of distinct combinations of cases.
// It reports whether the combinations can be enumerated exhaustively within the budget;
// otherwise, combinations must be sampled with replacement.
func (sm *StateMachine) CapCases(kind types.CaseKind, combinations int) (exhaustive bool) {
	budget := sm.budget(kind)
	exhaustive = combinations <= *budget
	if exhaustive {
		*budget = combinations
	}
	return exhaustive
}

// NotifyCasesExhausted shrinks the budget of kind to the number of tests of that kind run so far.
// It has no effect on the complexity of generated tests once the first one has been emitted.
func (sm *StateMachine) NotifyCasesExhausted(kind types.CaseKind) {
	*sm.budget(kind) = sm.run(kind)
}

// HasNext reports whether more tests are to be run.
func (sm *StateMachine) HasNext() bool {
	return sm.counts.Total() < sm.config.NumTests
}

func (sm *StateMachine) isRegression() bool {
	if sm.config.NumRegressionTests == 0 {
		return false
	}
	period := sm.config.NumTests / sm.config.NumRegressionTests

	// Counting from one makes the last iteration of every period a regression test, never the first.
	return (sm.counts.Total()+1)%period == 0
}

// Next returns the kind of the next test and counts it as run.
func (sm *StateMachine) Next() types.TestKind {
	switch {
	case sm.isRegression():
		sm.counts.Regression++
		return types.Regression(sm.complexity())
	case sm.counts.EdgeCases < sm.config.MaxOnlyEdgeCaseTests:
		sm.counts.EdgeCases++
		return types.EdgeCase()
	case sm.counts.SimpleCases < sm.config.MaxOnlySimpleCaseTests:
		sm.counts.SimpleCases++
		return types.SimpleCase()
	default:
		mixed := sm.counts.Generated >= sm.config.NumAllGeneratedTests
		sm.counts.Generated++
		complexity := sm.complexity()
		sm.scaling += sm.scaleComplexityBy()
		return types.TestKind{Kind: types.KindGenerated, Complexity: complexity, Mixed: mixed}
	}
}

// Discarded takes back a test whose inputs were rejected, so that it is run again.
// A generated test is repeated at the same complexity.
func (sm *StateMachine) Discarded(tk types.TestKind) {
	switch tk.Kind {
	case types.KindEdgeCase:
		sm.counts.EdgeCases--
	case types.KindSimpleCase:
		sm.counts.SimpleCases--
	case types.KindGenerated:
		sm.counts.Generated--
		sm.scaling -= sm.scaleBy
	case types.KindRegression:
		sm.counts.Regression--
	}
}

func (sm *StateMachine) complexity() int {
	c := int(math.Round(sm.scaling))
	if c > sm.config.MaxComplexity {
		return sm.config.MaxComplexity
	}
	if c < 0 {
		return 0
	}
	return c
}

func (sm *StateMachine) scaleComplexityBy() float64 {
	if !sm.scaleFixed {
		numGenerated := sm.config.NumTests - sm.config.MaxOnlyEdgeCaseTests - sm.config.MaxOnlySimpleCaseTests - sm.config.NumRegressionTests
		if numGenerated < 1 {
			numGenerated = 1
		}
		sm.scaleBy = float64(sm.config.MaxComplexity) / float64(numGenerated)
		sm.scaleFixed = true
	}
	return sm.scaleBy
}
