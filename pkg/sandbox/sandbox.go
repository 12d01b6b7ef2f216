/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sandbox provides the services a test run relies on to bound its
// execution time and to observe what the code under test prints.
package sandbox

import (
	"context"
	"time"
)

// Bounder runs work for at most timeout, after which the work is abandoned.
// The context passed to work is canceled once the work is abandoned,
// and work is expected to stop at its next opportunity.
type Bounder interface {
	Run(timeout time.Duration, work func(ctx context.Context)) (completed bool)
}

// OutputCapturer runs work and returns what it wrote to standard output and standard error.
type OutputCapturer interface {
	Capture(work func()) (stdout, stderr string, err error)
}

// Environment bundles the services of a test run.
type Environment struct {
	Bounder  Bounder
	Capturer OutputCapturer
}

// DefaultEnvironment bounds runs with a goroutine and a timer and captures the process' output streams.
func DefaultEnvironment() Environment {
	return Environment{
		Bounder:  GoroutineBounder{},
		Capturer: &StdCapturer{},
	}
}

// GoroutineBounder runs work in its own goroutine.
// A timeout of zero or less means no timeout.
// A panic of work which completes in time is raised again on the calling goroutine.
type GoroutineBounder struct{}

func (GoroutineBounder) Run(timeout time.Duration, work func(ctx context.Context)) bool {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if timeout <= 0 {
		work(ctx)
		return true
	}

	var panicked interface{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			panicked = recover()
		}()
		work(ctx)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		if panicked != nil {
			panic(panicked)
		}
		return true
	case <-timer.C:
		return false
	}
}
