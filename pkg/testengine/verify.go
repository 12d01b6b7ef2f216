/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testengine

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/results"
)

// Values are compared deeply, including unexported fields, and NaN equals NaN.
var compareOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateNaNs(),
}

// DefaultVerifier requires the same kind of thrown error, equal results
// and, for printing methods, equal output. Arguments mutated by the call are not compared.
func DefaultVerifier(reference, submission *results.Output) error {
	switch {
	case reference.Threw != nil && submission.Threw == nil:
		return errors.Errorf("expected %s to be thrown, but returned %s", thrownType(reference.Threw), describe(submission.Output))
	case reference.Threw == nil && submission.Threw != nil:
		return errors.Errorf("expected %s to be returned, but threw %v", describe(reference.Output), submission.Threw)
	case reference.Threw != nil:
		if thrownType(reference.Threw) != thrownType(submission.Threw) {
			return errors.Errorf("expected %s to be thrown, but threw %v", thrownType(reference.Threw), submission.Threw)
		}
	default:
		if !cmp.Equal(reference.Output, submission.Output, compareOptions...) {
			return errors.Errorf("returned values differ (-expected +actual):\n%s", cmp.Diff(reference.Output, submission.Output, compareOptions...))
		}
	}

	if reference.Captured {
		if reference.Stdout != submission.Stdout {
			return errors.Errorf("standard output differs: expected %q, got %q", reference.Stdout, submission.Stdout)
		}
		if reference.Stderr != submission.Stderr {
			return errors.Errorf("standard error differs: expected %q, got %q", reference.Stderr, submission.Stderr)
		}
	}

	return nil
}

// ArgumentsVerifier extends DefaultVerifier by requiring equal arguments after the call,
// for methods whose result is what they do to their arguments.
func ArgumentsVerifier(reference, submission *results.Output) error {
	if err := DefaultVerifier(reference, submission); err != nil {
		return err
	}
	if !cmp.Equal(reference.Args, submission.Args, compareOptions...) {
		return errors.Errorf("arguments after the call differ (-expected +actual):\n%s", cmp.Diff(reference.Args, submission.Args, compareOptions...))
	}
	return nil
}

// thrownType identifies a thrown error by its dynamic type, or by the type of the value a panic was raised with.
func thrownType(err error) reflect.Type {
	if pe, ok := err.(*methods.PanicError); ok {
		return reflect.TypeOf(pe.Value)
	}
	return reflect.TypeOf(err)
}

func describe(v interface{}) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%#v", v)
}

// verify runs the verifier of the question. A panicking verifier fails the step.
func (tg *TestGenerator) verify(reference, submission *results.Output, random *rand.Rand) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("verifier panicked: %v", r)
		}
	}()

	switch {
	case tg.question.RandomVerifier != nil:
		return tg.question.RandomVerifier(reference, submission, random)
	case tg.question.Verifier != nil:
		return tg.question.Verifier(reference, submission)
	default:
		return DefaultVerifier(reference, submission)
	}
}
