/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testengine

import (
	"github.com/hyperledger-labs/difftest/pkg/results"
)

// StepInterceptor provides a way for a consumer to gain insight into
// a run while it progresses.  It is usually not interesting outside
// of debugging or archiving scenarios.  Note, the interceptor is
// invoked by the loop itself, so any blocking delays the next step.
type StepInterceptor interface {
	// Intercept is invoked after each step has been recorded.
	// If Intercept returns an error, the run halts and the error
	// is returned by RunTests.
	Intercept(step results.Step) error
}

// InterceptorFunc adapts a function to a StepInterceptor.
type InterceptorFunc func(step results.Step) error

func (f InterceptorFunc) Intercept(step results.Step) error {
	return f(step)
}
