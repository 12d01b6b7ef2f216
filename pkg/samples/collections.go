/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package samples

import (
	"sort"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/testengine"
)

// SortInts sorts xs in place.
func SortInts(xs []int) {
	sort.Ints(xs)
}

// sortAllButLast leaves the last element where it is.
func sortAllButLast(xs []int) {
	if len(xs) > 1 {
		sort.Ints(xs[:len(xs)-1])
	}
}

func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// reverseBytes breaks multi-byte characters.
func reverseBytes(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func init() {
	register(&Sample{
		Name:        "sort",
		Description: "in-place sorting of an int slice, compared through the argument after the call",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name:        "sort",
				Reference:   testengine.Side{Method: methods.MustFunc("SortInts", SortInts)},
				Verifier:    testengine.ArgumentsVerifier,
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct:        {Method: methods.MustFunc("SortInts", SortInts)},
			"all-but-last": {Method: methods.MustFunc("SortInts", sortAllButLast)},
		},
	})

	register(&Sample{
		Name:        "reverse",
		Description: "reversal of a string by characters",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name:        "reverse",
				Reference:   testengine.Side{Method: methods.MustFunc("Reverse", Reverse)},
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct: {Method: methods.MustFunc("Reverse", Reverse)},
			"bytes": {Method: methods.MustFunc("Reverse", reverseBytes)},
		},
	})
}
