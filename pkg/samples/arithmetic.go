/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package samples

import (
	"math"
	"math/rand"
	"reflect"

	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/generators"
	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/testengine"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

// ErrDivisionByZero is returned by Divide.
var ErrDivisionByZero = errors.New("division by zero")

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func absOffByOne(x int) int {
	if x < -1 {
		return -x
	}
	return x
}

func Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func divideUnchecked(a, b int) (int, error) {
	return a / b, nil
}

// Isqrt returns the largest integer whose square does not exceed x.
func Isqrt(x int) int {
	r := int(math.Sqrt(float64(x)))
	for r*r > x {
		r--
	}
	for (r+1)*(r+1) <= x {
		r++
	}
	return r
}

// isqrtHalved searches [0, x/2], which misses the root of 1.
func isqrtHalved(x int) int {
	lo, hi := 0, x/2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if mid*mid <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

const squaresGenerator = "squares"

var intType = reflect.TypeOf(0)

func init() {
	register(&Sample{
		Name:        "abs",
		Description: "absolute value of an int",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name:        "abs",
				Reference:   testengine.Side{Method: methods.MustFunc("Abs", Abs)},
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct:      {Method: methods.MustFunc("Abs", Abs)},
			"off-by-one": {Method: methods.MustFunc("Abs", absOffByOne)},
		},
	})

	register(&Sample{
		Name:        "divide",
		Description: "integer division reporting division by zero as an error",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name:        "divide",
				Reference:   testengine.Side{Method: methods.MustFunc("Divide", Divide)},
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct:     {Method: methods.MustFunc("Divide", Divide)},
			"unchecked": {Method: methods.MustFunc("Divide", divideUnchecked)},
		},
	})

	register(&Sample{
		Name:        "isqrt",
		Description: "integer square root of non-negative ints, drawn near perfect squares",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name:         "isqrt",
				Reference:    testengine.Side{Method: methods.MustFunc("Isqrt", Isqrt, methods.UseGenerator(0, squaresGenerator))},
				Precondition: methods.MustFunc("nonNegative", func(x int) bool { return x >= 0 }),
				Generators: generators.NewBuilder().RegisterFunc(types.NamedRequest(intType, squaresGenerator),
					func(complexity int, random *rand.Rand) interface{} {
						root := random.Intn(complexity + 1)
						return root*root + random.Intn(3) - 1
					}),
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct:  {Method: methods.MustFunc("Isqrt", Isqrt)},
			"halved": {Method: methods.MustFunc("Isqrt", isqrtHalved)},
		},
	})
}
