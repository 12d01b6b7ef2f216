/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testengine

import (
	"context"
	"math/rand"
	"runtime/debug"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/cases"
	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/logging"
	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/results"
	"github.com/hyperledger-labs/difftest/pkg/sandbox"
	"github.com/hyperledger-labs/difftest/pkg/statemachine"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

type receiverPair struct {
	reference  interface{}
	submission interface{}
}

// inputs are the receivers and arguments of one iteration, instantiated separately per side.
type inputs struct {
	refReceiver interface{}
	subReceiver interface{}
	refArgs     []interface{}
	subArgs     []interface{}

	// subHookErr is set if the receiver hooks of the submission panicked.
	subHookErr error
}

// loop is the state of a single run. It is only ever used by one goroutine.
type loop struct {
	*submissionRunner

	tg       *TestGenerator
	cfg      config.Resolved
	env      sandbox.Environment
	logger   logging.Logger
	sm       *statemachine.StateMachine
	recorder *results.Recorder

	// All random sources are seeded alike. The reference and submission sources
	// draw the inputs of their side; kindRandom picks cases and regression receivers.
	refRandom    *rand.Rand
	subRandom    *rand.Rand
	kindRandom   *rand.Rand
	verifyRandom *rand.Rand

	// Enumerators of the case kinds enumerated exhaustively; sampled kinds have none.
	enumerators map[types.CaseKind]*cases.Enumerator

	iteration int
	discards  int

	// Receivers of the last executed iteration which was not a regression test.
	prevRef interface{}
	prevSub interface{}

	// Receivers of the successful iterations which were not regression tests.
	pool []receiverPair
}

func newLoop(sr *submissionRunner, seed int64, cfg config.Resolved, env sandbox.Environment) *loop {
	tg := sr.generator
	recorder := results.NewRecorder(seed, cfg)
	return &loop{
		submissionRunner: sr,
		tg:               tg,
		cfg:              cfg,
		env:              env,
		logger:           logging.Decorate(tg.logger, "", "submission", sr.submission.Name, "seed", seed),
		sm:               statemachine.New(cfg),
		recorder:         recorder,
		refRandom:        rand.New(rand.NewSource(seed)),
		subRandom:        rand.New(rand.NewSource(seed)),
		kindRandom:       rand.New(rand.NewSource(seed)),
		verifyRandom:     rand.New(rand.NewSource(seed)),
		enumerators:      map[types.CaseKind]*cases.Enumerator{},
	}
}

func (l *loop) run(ctx context.Context) error {
	l.capCases(types.EdgeCases, l.tg.edgeCases)
	l.capCases(types.SimpleCases, l.tg.simpleCases)
	l.recorder.SetConfig(l.sm.Config())

	for l.sm.HasNext() {
		if ctx.Err() != nil {
			return nil
		}

		kind := l.sm.Next()

		if caseKind, ok := caseKindOf(kind); ok {
			if e := l.enumerators[caseKind]; e != nil && !e.HasNext() {
				// Discards consumed combinations which cannot be drawn again.
				l.sm.Discarded(kind)
				l.sm.NotifyCasesExhausted(caseKind)
				l.recorder.SetConfig(l.sm.Config())
				l.logger.Log(logging.LevelWarn, "case combinations exhausted", "kind", caseKind, "run", l.sm.Counts().Total())
				continue
			}
		}

		l.iteration++
		in, err := l.inputs(kind)
		if err != nil {
			return errors.WithMessagef(err, "iteration %d", l.iteration)
		}

		accepted, err := l.precondition(in)
		if err != nil {
			return errors.WithMessagef(err, "iteration %d", l.iteration)
		}

		if !accepted {
			l.sm.Discarded(kind)
			l.discards++
			recorded, err := l.record(&results.DiscardedStep{
				Iteration: l.iteration,
				Kind:      kind,
				Receiver:  in.refReceiver,
				Args:      in.refArgs,
			})
			if err != nil || !recorded {
				return err
			}
			if l.discards >= l.cfg.MaxDiscards {
				l.logger.Log(logging.LevelWarn, "too many discarded iterations, giving up", "discarded", l.discards, "executed", l.sm.Counts().Total())
				return nil
			}
			continue
		}

		step, err := l.execute(kind, in)
		if err != nil {
			return errors.WithMessagef(err, "iteration %d", l.iteration)
		}

		recorded, err := l.record(step)
		if err != nil || !recorded {
			return err
		}

		if kind.Kind != types.KindRegression {
			l.prevRef, l.prevSub = in.refReceiver, in.subReceiver
			if step.Succeeded {
				l.pool = append(l.pool, receiverPair{reference: in.refReceiver, submission: in.subReceiver})
			}
		}
	}

	return nil
}

func caseKindOf(kind types.TestKind) (types.CaseKind, bool) {
	switch kind.Kind {
	case types.KindEdgeCase:
		return types.EdgeCases, true
	case types.KindSimpleCase:
		return types.SimpleCases, true
	default:
		return 0, false
	}
}

// capCases limits the budget of kind to the combinations available,
// and enumerates them without repetition if they all fit.
func (l *loop) capCases(kind types.CaseKind, mac *cases.MethodArgumentCases) {
	combinations := 0
	if mac != nil && mac.HasCases() {
		combinations = mac.Total()
	}
	if l.sm.CapCases(kind, combinations) {
		l.enumerators[kind] = cases.NewEnumerator(combinations)
	}
}

func (l *loop) record(step results.Step) (bool, error) {
	if !l.recorder.Record(step) {
		// Sealed because the run timed out.
		return false, nil
	}

	l.logger.Log(logging.LevelDebug, "recorded step", "iteration", step.Number(), "kind", step.TestKind(), "executed", step.Executed())

	if l.interceptor != nil {
		if err := l.interceptor.Intercept(step); err != nil {
			return false, errors.WithMessage(err, "step interceptor failed")
		}
	}

	return true, nil
}

func (l *loop) inputs(kind types.TestKind) (*inputs, error) {
	switch kind.Kind {
	case types.KindEdgeCase:
		return l.caseInputs(types.EdgeCases, l.tg.edgeCases, l.edgeCases, cases.EdgeFallbackComplexity)
	case types.KindSimpleCase:
		return l.caseInputs(types.SimpleCases, l.tg.simpleCases, l.simpleCases, cases.SimpleFallbackComplexity)
	case types.KindRegression:
		return l.regressionInputs(kind.Complexity)
	default:
		return l.generatedInputs(kind.Complexity, kind.Mixed)
	}
}

func (l *loop) caseInputs(kind types.CaseKind, refCases, subCases *cases.MethodArgumentCases, complexity int) (*inputs, error) {
	var index int
	if e := l.enumerators[kind]; e != nil {
		index = e.Next(l.kindRandom)
	} else {
		index = l.kindRandom.Intn(refCases.Total())
	}

	refCase, err := refCases.Case(index, l.refRandom)
	if err != nil {
		return nil, err
	}
	subCase, err := subCases.Case(index, l.subRandom)
	if err != nil {
		return nil, err
	}

	in := &inputs{
		refArgs: refCase.Args,
		subArgs: subCase.Args,
	}
	if refCase.HasReceiver {
		in.refReceiver, in.subReceiver = refCase.Receiver, subCase.Receiver
	} else {
		l.freshReceivers(in, complexity)
	}

	return in, nil
}

func (l *loop) freshReceivers(in *inputs, complexity int) {
	in.refReceiver = l.tg.strategy.Generate(l.prevRef, l.iteration, complexity, l.refRandom)
	in.subReceiver, in.subHookErr = l.submissionReceiver(complexity)
}

// submissionReceiver runs the receiver hooks of the submission, recording a panic as thrown.
func (l *loop) submissionReceiver(complexity int) (rec interface{}, threw error) {
	defer func() {
		if r := recover(); r != nil {
			threw = &methods.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return l.strategy.Generate(l.prevSub, l.iteration, complexity, l.subRandom), nil
}

func (l *loop) generatedInputs(complexity int, mixed bool) (*inputs, error) {
	in := &inputs{}
	l.freshReceivers(in, complexity)

	var err error
	if mixed {
		in.refArgs, in.subArgs, err = l.mixedArgs(complexity)
	} else {
		in.refArgs, in.subArgs, err = l.generatedArgs(complexity)
	}
	if err != nil {
		return nil, err
	}

	return in, nil
}

// regressionInputs reuses the receivers of a random earlier successful iteration.
// Before there is one, fresh receivers are used.
func (l *loop) regressionInputs(complexity int) (*inputs, error) {
	in := &inputs{}
	if len(l.pool) == 0 {
		l.freshReceivers(in, complexity)
	} else {
		pair := l.pool[l.kindRandom.Intn(len(l.pool))]
		in.refReceiver, in.subReceiver = pair.reference, pair.submission
	}

	var err error
	in.refArgs, in.subArgs, err = l.generatedArgs(complexity)
	if err != nil {
		return nil, err
	}

	return in, nil
}

func (l *loop) generatedArgs(complexity int) (ref, sub []interface{}, err error) {
	ref = make([]interface{}, len(l.tg.requests))
	sub = make([]interface{}, len(l.tg.requests))
	for i, req := range l.tg.requests {
		if ref[i], err = l.tg.catalog.Generate(req, complexity, l.refRandom); err != nil {
			return nil, nil, err
		}
		if sub[i], err = l.tg.catalog.Generate(req, complexity, l.subRandom); err != nil {
			return nil, nil, err
		}
	}
	return ref, sub, nil
}

// mixedArgs draws every argument from its edge cases, its simple cases or its generator,
// using the generator whenever the chosen list is empty.
func (l *loop) mixedArgs(complexity int) (ref, sub []interface{}, err error) {
	ref = make([]interface{}, len(l.tg.requests))
	sub = make([]interface{}, len(l.tg.requests))
	for i, req := range l.tg.requests {
		var list cases.List
		switch l.kindRandom.Intn(3) {
		case 0:
			list, _ = l.tg.cases.EdgeCasesFor(req.Type)
		case 1:
			list, _ = l.tg.cases.SimpleCasesFor(req.Type)
		}

		if len(list) > 0 {
			j := l.kindRandom.Intn(len(list))
			if ref[i], err = list.Copy(j); err != nil {
				return nil, nil, err
			}
			if sub[i], err = list.Copy(j); err != nil {
				return nil, nil, err
			}
			continue
		}

		if ref[i], err = l.tg.catalog.Generate(req, complexity, l.refRandom); err != nil {
			return nil, nil, err
		}
		if sub[i], err = l.tg.catalog.Generate(req, complexity, l.subRandom); err != nil {
			return nil, nil, err
		}
	}
	return ref, sub, nil
}

// precondition evaluates the precondition of the question on the inputs of the reference.
// A precondition which throws rejects the inputs.
func (l *loop) precondition(in *inputs) (bool, error) {
	pre := l.tg.question.Precondition
	if pre == nil {
		return true, nil
	}

	var rec interface{}
	if pre.NeedsReceiver() {
		rec = in.refReceiver
	}

	out, threw, err := pre.Invoke(rec, in.refArgs)
	if err != nil {
		return false, errors.WithMessage(err, "could not evaluate precondition")
	}
	if threw != nil {
		return false, nil
	}

	accepted, _ := out.(bool)
	return accepted, nil
}

func (l *loop) execute(kind types.TestKind, in *inputs) (*results.ExecutedStep, error) {
	refOutput, err := l.invoke(l.tg.question.Reference.Method, in.refReceiver, in.refArgs)
	if err != nil {
		return nil, errors.WithMessage(err, "reference")
	}

	var subOutput *results.Output
	var verifyErr error
	if in.subHookErr != nil {
		subOutput = &results.Output{
			Behavior: results.Threw,
			Args:     in.subArgs,
			Threw:    in.subHookErr,
		}
		verifyErr = errors.WithMessage(in.subHookErr, "could not create the receiver of the submission")
	} else {
		subOutput, err = l.invoke(l.submission.Method, in.subReceiver, in.subArgs)
		if err != nil {
			return nil, errors.WithMessage(err, "submission")
		}
		verifyErr = l.tg.verify(refOutput, subOutput, l.verifyRandom)
	}

	if verifyErr != nil {
		l.logger.Log(logging.LevelDebug, "verification failed", "iteration", l.iteration, "kind", kind, "error", verifyErr)
	}

	return &results.ExecutedStep{
		Iteration:   l.iteration,
		Kind:        kind,
		RefReceiver: in.refReceiver,
		SubReceiver: in.subReceiver,
		RefOutput:   refOutput,
		SubOutput:   subOutput,
		Succeeded:   verifyErr == nil,
		VerifyErr:   verifyErr,
	}, nil
}

func (l *loop) invoke(method *methods.Method, rec interface{}, args []interface{}) (*results.Output, error) {
	output := &results.Output{
		Receiver: rec,
		Args:     args,
	}
	if method == nil {
		output.Behavior = results.VerifyOnly
		return output, nil
	}

	var err error
	call := func() {
		output.Output, output.Threw, err = method.Invoke(rec, args)
	}

	if method.IsPrinter() {
		stdout, stderr, captureErr := l.env.Capturer.Capture(call)
		if captureErr != nil {
			return nil, errors.WithMessage(captureErr, "could not capture output")
		}
		output.Stdout, output.Stderr, output.Captured = stdout, stderr, true
	} else {
		call()
	}

	if err != nil {
		return nil, err
	}
	if output.Threw != nil {
		output.Behavior = results.Threw
	}

	return output, nil
}
