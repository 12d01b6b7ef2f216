/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testengine

import (
	"context"
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/cases"
	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/design"
	"github.com/hyperledger-labs/difftest/pkg/generators"
	"github.com/hyperledger-labs/difftest/pkg/logging"
	"github.com/hyperledger-labs/difftest/pkg/receiver"
	"github.com/hyperledger-labs/difftest/pkg/results"
	"github.com/hyperledger-labs/difftest/pkg/sandbox"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

const (
	// SelfCheckSeed is the seed the reference is run against itself with.
	SelfCheckSeed int64 = 0x0403

	// SelfCheckTimeout bounds the self-check.
	SelfCheckTimeout = 10 * time.Second
)

var boolType = reflect.TypeOf(false)

// TestGenerator holds everything about a question that does not depend on the submission.
// It is safe to load submissions and to run them concurrently, as each run owns its state.
type TestGenerator struct {
	question      *Question
	logger        logging.Logger
	checker       design.Checker
	interceptor   StepInterceptor
	selfCheckEnv  sandbox.Environment
	skipSelfCheck bool

	catalog  *generators.Catalog
	cases    *cases.Catalog
	requests []types.Request
	strategy *receiver.Strategy

	// Argument cases of the reference, nil if the question has no method.
	edgeCases   *cases.MethodArgumentCases
	simpleCases *cases.MethodArgumentCases
}

// Opt configures a TestGenerator.
type Opt func(*TestGenerator)

// LoggerOpt sets the logger, NilLogger by default.
func LoggerOpt(logger logging.Logger) Opt {
	return func(tg *TestGenerator) {
		tg.logger = logger
	}
}

// DesignCheckerOpt replaces the structural check submissions must pass before they are run.
func DesignCheckerOpt(checker design.Checker) Opt {
	return func(tg *TestGenerator) {
		tg.checker = checker
	}
}

// InterceptorOpt sets an interceptor invoked with every step of every submission run.
// Steps of the self-check are not intercepted.
func InterceptorOpt(interceptor StepInterceptor) Opt {
	return func(tg *TestGenerator) {
		tg.interceptor = interceptor
	}
}

// SelfCheckEnvironmentOpt sets the environment the reference is checked against itself in.
func SelfCheckEnvironmentOpt(env sandbox.Environment) Opt {
	return func(tg *TestGenerator) {
		tg.selfCheckEnv = env
	}
}

// SkipSelfCheckOpt disables running the reference against itself at setup,
// e.g. for questions whose verifier is meant to reject everything.
func SkipSelfCheckOpt() Opt {
	return func(tg *TestGenerator) {
		tg.skipSelfCheck = true
	}
}

// NewTestGenerator validates the question and prepares its catalogs.
// Every misuse of the question is reported here, before any submission is run.
func NewTestGenerator(question *Question, opts ...Opt) (*TestGenerator, error) {
	tg := &TestGenerator{
		question:     question,
		logger:       logging.NilLogger,
		checker:      design.SignatureChecker{},
		selfCheckEnv: sandbox.DefaultEnvironment(),
	}
	for _, opt := range opts {
		opt(tg)
	}
	// Runs may log concurrently, and an abandoned run keeps logging after its caller returned.
	tg.logger = logging.Synchronize(logging.Decorate(tg.logger, "", "question", question.Name))

	method := question.Reference.Method
	switch {
	case method == nil && question.Verifier == nil && question.RandomVerifier == nil:
		return nil, types.Misusef("question %s has neither a method nor a verifier", question.Name)
	case question.Verifier != nil && question.RandomVerifier != nil:
		return nil, types.Misusef("question %s has two verifiers", question.Name)
	}

	if err := tg.checkPrecondition(); err != nil {
		return nil, err
	}

	if err := (config.TestRunnerArgs{}).ApplyOver(question.DefaultArgs).Resolve().Validate(); err != nil {
		return nil, errors.WithMessagef(err, "question %s has invalid default arguments", question.Name)
	}

	builder := question.Generators
	if builder == nil {
		builder = generators.NewBuilder()
	}
	if method != nil {
		tg.requests = method.Requests()
	}
	catalog, err := builder.Build(tg.requests...)
	if err != nil {
		return nil, errors.WithMessagef(err, "question %s", question.Name)
	}
	tg.catalog = catalog

	tg.cases = question.Cases
	if tg.cases == nil {
		tg.cases = cases.NewDefaultCatalog()
	}

	needsReceiver := method != nil && method.NeedsReceiver()
	tg.strategy, err = receiver.Select(question.Reference.Hooks, needsReceiver)
	if err != nil {
		return nil, errors.WithMessagef(err, "question %s", question.Name)
	}

	if method != nil {
		tg.edgeCases, err = tg.argumentCases(types.EdgeCases, question.Reference)
		if err != nil {
			return nil, errors.WithMessagef(err, "question %s: edge cases", question.Name)
		}
		tg.simpleCases, err = tg.argumentCases(types.SimpleCases, question.Reference)
		if err != nil {
			return nil, errors.WithMessagef(err, "question %s: simple cases", question.Name)
		}
	}

	if !tg.skipSelfCheck {
		if err := tg.selfCheck(); err != nil {
			return nil, err
		}
	}

	return tg, nil
}

func (tg *TestGenerator) checkPrecondition() error {
	pre := tg.question.Precondition
	if pre == nil {
		return nil
	}

	outs := pre.ResultTypes()
	if len(outs) != 1 || outs[0] != boolType {
		return types.Misusef("precondition %s must return a bool", pre.Name())
	}

	method := tg.question.Reference.Method
	if method == nil {
		return types.Misusef("precondition %s requires a method", pre.Name())
	}
	if !reflect.DeepEqual(pre.ParamTypes(), method.ParamTypes()) {
		return types.Misusef("precondition %s must take the parameters of %s", pre.Name(), method.Name())
	}
	if pre.NeedsReceiver() && !method.NeedsReceiver() {
		return types.Misusef("precondition %s takes a receiver, but %s does not", pre.Name(), method.Name())
	}

	return nil
}

// receiverCases returns the non-nil receiver cases of kind of a side.
func (tg *TestGenerator) receiverCases(kind types.CaseKind, side Side) cases.List {
	if side.Method == nil || !side.Method.NeedsReceiver() {
		return nil
	}

	list := side.EdgeReceivers
	if kind == types.SimpleCases {
		list = side.SimpleReceivers
	}
	if list == nil {
		list, _ = tg.cases.Lookup(kind, side.Method.ReceiverType())
	}
	return list.NonNil()
}

func (tg *TestGenerator) argumentCases(kind types.CaseKind, side Side) (*cases.MethodArgumentCases, error) {
	fallbacks := make([]generators.Generator, len(tg.requests))
	for i, req := range tg.requests {
		gen, ok := tg.catalog.Lookup(req)
		if !ok {
			return nil, errors.Errorf("no generator for %s", req)
		}
		fallbacks[i] = gen
	}

	return tg.cases.ForMethod(kind, tg.receiverCases(kind, side), side.Method.ParamTypes(), fallbacks)
}

func (tg *TestGenerator) selfCheck() error {
	runner, err := tg.LoadSubmission(tg.question.Reference, config.TestRunnerArgs{})
	if err != nil {
		return errors.WithMessagef(err, "question %s: could not load the reference", tg.question.Name)
	}
	if sr, ok := runner.(*submissionRunner); ok {
		sr.interceptor = nil
	}

	env := tg.selfCheckEnv
	bounder := env.Bounder
	env.Bounder = boundedBounder{bounder: bounder, limit: SelfCheckTimeout}

	tr, err := runner.RunTests(SelfCheckSeed, env, config.TestRunnerArgs{})
	if err != nil {
		return errors.WithMessagef(err, "question %s: reference self-check", tg.question.Name)
	}
	if err := tr.AssertAllSucceeded(); err != nil {
		return types.Misusef("question %s: reference does not agree with itself: %v", tg.question.Name, err)
	}

	tg.logger.Log(logging.LevelDebug, "reference passed self-check", "tests", tr.Counts.Executed(), "duration", tr.Duration())
	return nil
}

// boundedBounder caps the timeout passed to another Bounder.
type boundedBounder struct {
	bounder sandbox.Bounder
	limit   time.Duration
}

func (bb boundedBounder) Run(timeout time.Duration, work func(ctx context.Context)) bool {
	if timeout <= 0 || timeout > bb.limit {
		timeout = bb.limit
	}
	return bb.bounder.Run(timeout, work)
}

// LoadSubmission prepares a runner testing submission against the reference.
// args override the default arguments of the question for every run of the runner.
//
// A submission failing the structural check still yields a runner,
// whose runs fail without executing anything.
func (tg *TestGenerator) LoadSubmission(submission Side, args config.TestRunnerArgs) (TestRunner, error) {
	reference := tg.question.Reference
	args = args.ApplyOver(tg.question.DefaultArgs)

	err := tg.checker.Check(
		design.Surface{Method: reference.Method, Hooks: reference.Hooks},
		design.Surface{Method: submission.Method, Hooks: submission.Hooks},
	)
	if err != nil {
		tg.logger.Log(logging.LevelInfo, "submission failed the design check", "submission", submission.Name, "error", err)
		return &failedDesignRunner{args: args, err: err}, nil
	}

	strategy, err := tg.strategy.ForSide(submission.Hooks)
	if err != nil {
		return nil, err
	}

	sr := &submissionRunner{
		generator:  tg,
		submission: submission,
		args:       args,
		strategy:   strategy,

		interceptor: tg.interceptor,
	}

	if reference.Method != nil {
		for _, kind := range []types.CaseKind{types.EdgeCases, types.SimpleCases} {
			refReceivers, subReceivers := tg.receiverCases(kind, reference), tg.receiverCases(kind, submission)
			if len(refReceivers) != len(subReceivers) {
				return nil, types.Misusef("submission %s has %d %s case receivers, the reference has %d",
					submission.Name, len(subReceivers), kind, len(refReceivers))
			}
		}

		sr.edgeCases, err = tg.argumentCases(types.EdgeCases, submission)
		if err != nil {
			return nil, errors.WithMessagef(err, "submission %s: edge cases", submission.Name)
		}
		sr.simpleCases, err = tg.argumentCases(types.SimpleCases, submission)
		if err != nil {
			return nil, errors.WithMessagef(err, "submission %s: simple cases", submission.Name)
		}
	}

	return sr, nil
}

// failedDesignRunner runs nothing, its results only carry the verdict of the structural check.
type failedDesignRunner struct {
	args config.TestRunnerArgs
	err  error
}

func (fdr *failedDesignRunner) RunTests(seed int64, env sandbox.Environment, args config.TestRunnerArgs) (*results.TestingResults, error) {
	recorder := results.NewRecorder(seed, args.ApplyOver(fdr.args).Resolve())
	return recorder.SealWithDesignError(fdr.err), nil
}
