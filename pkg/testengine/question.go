/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package testengine drives a reference and a submission with the same
// sequence of inputs and records whether they behave alike.
//
// A TestGenerator is set up once per Question. It resolves generators and
// case lists and checks the reference against itself. Every submission is
// then loaded into a TestRunner, which can run any number of seeded test
// runs sharing these catalogs.
package testengine

import (
	"math/rand"
	"time"

	"github.com/hyperledger-labs/difftest/pkg/cases"
	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/generators"
	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/receiver"
	"github.com/hyperledger-labs/difftest/pkg/results"
)

// Side is what the reference or a submission provides.
type Side struct {
	// Name identifies the side in logs and archived results.
	Name string

	// Method is the callable under test. It is nil for questions
	// that only run their verifier.
	Method *methods.Method

	// Hooks produce the receivers of a method that needs one.
	Hooks receiver.Hooks

	// EdgeReceivers and SimpleReceivers are the receiver cases of this side.
	// If unset, the case catalog is consulted for the receiver type.
	EdgeReceivers   cases.List
	SimpleReceivers cases.List

	// ResetState, if set, is invoked after every run, so that package
	// level state mutated by the run does not leak into the next one.
	ResetState func()
}

// Verifier decides whether the outputs of the reference and of the submission agree.
// A non-nil error fails the step.
type Verifier func(reference, submission *results.Output) error

// RandomVerifier is a Verifier which samples.
type RandomVerifier func(reference, submission *results.Output, random *rand.Rand) error

// Question declares what is tested and how.
type Question struct {
	Name      string
	Reference Side

	// Precondition, if set, takes the arguments of the method (and its receiver,
	// if it is an instance method) and returns a bool. Inputs it rejects are discarded.
	Precondition *methods.Method

	// At most one of Verifier and RandomVerifier may be set.
	// Without either, return values, thrown errors and captured output are compared.
	Verifier       Verifier
	RandomVerifier RandomVerifier

	// Generators holds the generators registered for the question.
	// Built-in types without a registration use the default generators.
	Generators *generators.Builder

	// Cases holds the edge and simple cases. Defaults to cases.NewDefaultCatalog.
	Cases *cases.Catalog

	// Timeout bounds every run, zero means unbounded.
	Timeout time.Duration

	// DefaultArgs are used for the parameters a submission or a run does not set.
	DefaultArgs config.TestRunnerArgs
}
