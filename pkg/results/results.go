/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package results holds the outcome of a test run: the ordered list of
// steps, the number of tests of each kind, and whether the run succeeded.
package results

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

// Behavior classifies what a callable did during one step.
type Behavior int

const (
	// Returned means the callable returned normally.
	Returned Behavior = iota

	// Threw means the callable panicked or returned a non-nil error as its last result.
	Threw

	// VerifyOnly means there was nothing to call and only the verifier ran.
	VerifyOnly
)

func (b Behavior) String() string {
	switch b {
	case Returned:
		return "RETURNED"
	case Threw:
		return "THREW"
	case VerifyOnly:
		return "VERIFY_ONLY"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// Output is the observed behavior of one side in one step.
type Output struct {
	Behavior Behavior

	// Receiver the method was invoked on, nil for stateless methods.
	Receiver interface{}

	// Arguments, as they were after the call.
	Args []interface{}

	// Output holds the results of the call other than a trailing error.
	// A single result is stored as is, several results as []interface{}.
	Output interface{}

	// Threw is the error the call failed with, if any.
	Threw error

	// Stdout and Stderr are only captured for methods declared as printing.
	Stdout   string
	Stderr   string
	Captured bool
}

// Step is a single iteration of a test run.
type Step interface {
	// Number returns the iteration number, starting at 1.
	Number() int

	// TestKind returns the kind of test the step was built for.
	TestKind() types.TestKind

	// Executed reports whether the callables ran.
	Executed() bool
}

// ExecutedStep is a step in which both callables ran and were compared.
type ExecutedStep struct {
	Iteration   int
	Kind        types.TestKind
	RefReceiver interface{}
	SubReceiver interface{}
	RefOutput   *Output
	SubOutput   *Output
	Succeeded   bool

	// VerifyErr is the reason verification failed, nil if it succeeded.
	VerifyErr error
}

func (es *ExecutedStep) Number() int              { return es.Iteration }
func (es *ExecutedStep) TestKind() types.TestKind { return es.Kind }
func (es *ExecutedStep) Executed() bool           { return true }

// DiscardedStep is a step whose inputs were rejected by the precondition.
type DiscardedStep struct {
	Iteration int
	Kind      types.TestKind
	Receiver  interface{}
	Args      []interface{}
}

func (ds *DiscardedStep) Number() int              { return ds.Iteration }
func (ds *DiscardedStep) TestKind() types.TestKind { return ds.Kind }
func (ds *DiscardedStep) Executed() bool           { return false }

// Counts is the number of executed tests per kind and the number of discarded iterations.
type Counts struct {
	EdgeCase       int
	SimpleCase     int
	Generated      int
	MixedGenerated int
	Regression     int
	Discarded      int
}

// Executed returns the number of all executed tests.
func (c Counts) Executed() int {
	return c.EdgeCase + c.SimpleCase + c.Generated + c.MixedGenerated + c.Regression
}

func (c *Counts) add(step Step) {
	if !step.Executed() {
		c.Discarded++
		return
	}
	kind := step.TestKind()
	switch kind.Kind {
	case types.KindEdgeCase:
		c.EdgeCase++
	case types.KindSimpleCase:
		c.SimpleCase++
	case types.KindGenerated:
		if kind.Mixed {
			c.MixedGenerated++
		} else {
			c.Generated++
		}
	case types.KindRegression:
		c.Regression++
	}
}

// TestingResults is the outcome of one test run. It is not modified once returned.
type TestingResults struct {
	RunID     string
	Seed      int64
	Config    config.Resolved
	Steps     []Step
	Counts    Counts
	StartTime time.Time
	EndTime   time.Time
	TimedOut  bool

	// DesignErr is set if the submission failed the structural check and no test ran.
	DesignErr error
}

// Duration is the wall-clock time the run took.
func (tr *TestingResults) Duration() time.Duration {
	return tr.EndTime.Sub(tr.StartTime)
}

// Failures returns the executed steps that did not succeed.
func (tr *TestingResults) Failures() []*ExecutedStep {
	var failures []*ExecutedStep
	for _, step := range tr.Steps {
		if es, ok := step.(*ExecutedStep); ok && !es.Succeeded {
			failures = append(failures, es)
		}
	}
	return failures
}

// Succeeded reports whether every executed step succeeded and as many steps were executed as requested.
// A run abandoned because of a timeout or too many discards therefore never succeeds.
func (tr *TestingResults) Succeeded() bool {
	return tr.AssertAllSucceeded() == nil
}

// AssertAllSucceeded returns an error describing why the run did not succeed, if it did not.
func (tr *TestingResults) AssertAllSucceeded() error {
	switch {
	case tr.DesignErr != nil:
		return errors.WithMessage(tr.DesignErr, "submission failed the design check")
	case tr.TimedOut:
		return errors.Errorf("run timed out after %d of %d tests", tr.Counts.Executed(), tr.Config.NumTests)
	case tr.Counts.Executed() != tr.Config.NumTests:
		return errors.Errorf("executed %d of %d tests, %d discarded", tr.Counts.Executed(), tr.Config.NumTests, tr.Counts.Discarded)
	}

	if failures := tr.Failures(); len(failures) > 0 {
		first := failures[0]
		return errors.Errorf("%d of %d tests failed, first at iteration %d (%s): %v",
			len(failures), tr.Counts.Executed(), first.Iteration, first.Kind, first.VerifyErr)
	}

	return nil
}

// AssertSomethingFailed returns an error if the run succeeded.
func (tr *TestingResults) AssertSomethingFailed() error {
	if tr.AssertAllSucceeded() == nil {
		return errors.Errorf("expected a failure, but all %d tests succeeded", tr.Counts.Executed())
	}
	return nil
}
