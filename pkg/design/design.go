/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package design compares the public surface of a submission with the one of the reference
// before any test runs.
package design

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/receiver"
)

// Surface is what one side exposes to the test engine.
type Surface struct {
	Method *methods.Method
	Hooks  receiver.Hooks
}

// Checker decides whether a submission can be tested against a reference.
type Checker interface {
	Check(reference, submission Surface) error
}

// Mismatch lists the differences found between two surfaces.
type Mismatch struct {
	Problems []string
}

func (m *Mismatch) Error() string {
	return "design mismatch: " + strings.Join(m.Problems, "; ")
}

func (m *Mismatch) addf(format string, args ...interface{}) {
	m.Problems = append(m.Problems, fmt.Sprintf(format, args...))
}

// SignatureChecker requires identical parameter and result types, the same receiver presence,
// and every receiver hook of the reference to exist in the submission as well.
// Receiver types themselves may differ, as each side brings its own.
type SignatureChecker struct{}

func (SignatureChecker) Check(reference, submission Surface) error {
	m := &Mismatch{}

	ref, sub := reference.Method, submission.Method
	switch {
	case ref == nil:
		// A verifier-only question has nothing to compare.
		return nil
	case sub == nil:
		m.addf("missing method %s", ref.Name())
		return m
	}

	if ref.NeedsReceiver() != sub.NeedsReceiver() {
		if ref.NeedsReceiver() {
			m.addf("%s must be a method, not a function", ref.Name())
		} else {
			m.addf("%s must be a function, not a method", ref.Name())
		}
	}

	compareTypes(m, "parameters", ref.ParamTypes(), sub.ParamTypes())
	compareTypes(m, "results", ref.ResultTypes(), sub.ResultTypes())
	if ref.ReturnsError() != sub.ReturnsError() {
		m.addf("%s must %sreturn an error", ref.Name(), map[bool]string{true: "", false: "not "}[ref.ReturnsError()])
	}

	if reference.Hooks.Next != nil && submission.Hooks.Next == nil {
		m.addf("missing next function")
	}
	if reference.Hooks.Generator != nil && submission.Hooks.Generator == nil {
		m.addf("missing receiver generator")
	}
	if reference.Hooks.Constructor != nil && submission.Hooks.Constructor == nil {
		m.addf("missing default constructor")
	}

	if len(m.Problems) > 0 {
		return m
	}
	return nil
}

func compareTypes(m *Mismatch, what string, ref, sub []reflect.Type) {
	if len(ref) != len(sub) {
		m.addf("expected %d %s, found %d", len(ref), what, len(sub))
		return
	}
	for i := range ref {
		if ref[i] != sub[i] {
			m.addf("%s %d: expected %v, found %v", what, i, ref[i], sub[i])
		}
	}
}
