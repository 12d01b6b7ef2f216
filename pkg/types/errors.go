/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// MisuseError reports a problem with how a question or a run was set up,
// as opposed to a disagreement between reference and submission.
// Misuse errors are always returned before any test executes.
type MisuseError struct {
	msg string
}

func (me *MisuseError) Error() string {
	return me.msg
}

// Misusef creates a new MisuseError. The result carries a stack trace.
func Misusef(format string, args ...interface{}) error {
	return errors.WithStack(&MisuseError{msg: fmt.Sprintf(format, args...)})
}

// IsMisuse reports whether any error in err's chain is a MisuseError.
func IsMisuse(err error) bool {
	var me *MisuseError
	return errors.As(err, &me)
}
