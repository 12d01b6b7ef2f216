/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testengine

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/cases"
	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/logging"
	"github.com/hyperledger-labs/difftest/pkg/receiver"
	"github.com/hyperledger-labs/difftest/pkg/results"
	"github.com/hyperledger-labs/difftest/pkg/sandbox"
)

// TestRunner runs one loaded submission against the reference.
type TestRunner interface {
	// RunTests performs one test run. args override the arguments the
	// submission was loaded with. The returned error is only set if the
	// run could not be performed at all; failed tests, discards and
	// timeouts are reported in the results.
	RunTests(seed int64, env sandbox.Environment, args config.TestRunnerArgs) (*results.TestingResults, error)
}

type submissionRunner struct {
	generator  *TestGenerator
	submission Side
	args       config.TestRunnerArgs
	strategy   *receiver.Strategy

	// Nil for the self-check, whose steps are not part of any submission's record.
	interceptor StepInterceptor

	// Argument cases of the submission, enumerated in step with those of the reference.
	edgeCases   *cases.MethodArgumentCases
	simpleCases *cases.MethodArgumentCases
}

func (sr *submissionRunner) RunTests(seed int64, env sandbox.Environment, args config.TestRunnerArgs) (*results.TestingResults, error) {
	tg := sr.generator

	cfg := args.ApplyOver(sr.args).Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if env.Bounder == nil {
		env.Bounder = sandbox.GoroutineBounder{}
	}
	if env.Capturer == nil {
		env.Capturer = &sandbox.StdCapturer{}
	}

	l := newLoop(sr, seed, cfg, env)
	l.logger.Log(logging.LevelInfo, "starting test run", "run_id", l.recorder.RunID(), "num_tests", cfg.NumTests)

	var runErr error
	completed := env.Bounder.Run(tg.question.Timeout, func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				runErr = errors.Errorf("test run panicked: %v", r)
			}
		}()
		runErr = l.run(ctx)
	})

	tr := l.recorder.Seal(!completed)
	if !completed {
		// The loop may still be running, so neither its error nor the state it mutates can be touched.
		l.logger.Log(logging.LevelWarn, "test run timed out", "timeout", tg.question.Timeout, "executed", tr.Counts.Executed())
		return tr, nil
	}

	for _, side := range []Side{tg.question.Reference, sr.submission} {
		if side.ResetState != nil {
			side.ResetState()
		}
	}

	if runErr != nil {
		return nil, runErr
	}

	l.logger.Log(logging.LevelInfo, "finished test run",
		"executed", tr.Counts.Executed(), "discarded", tr.Counts.Discarded,
		"failed", len(tr.Failures()), "duration", tr.Duration())

	return tr, nil
}
