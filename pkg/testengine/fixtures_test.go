/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testengine_test

import (
	"fmt"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/hyperledger-labs/difftest/pkg/logging"
	"github.com/hyperledger-labs/difftest/pkg/receiver"
	"github.com/hyperledger-labs/difftest/pkg/results"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func brokenAbs(x int) int {
	if x < -1 {
		return -x
	}
	return x
}

func div(a, b int) int {
	return a / b
}

func wideAbs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func slowIdentity(x int) int {
	time.Sleep(20 * time.Millisecond)
	return x
}

func greet(name string) {
	fmt.Printf("hello %s\n", name)
}

func brokenGreet(name string) {
	fmt.Printf("hello %s!\n", name)
}

type account struct {
	Balance int
}

func (a *account) Deposit(amount int) int {
	a.Balance += amount
	return a.Balance
}

type brokenAccount struct {
	Balance int
}

func (a *brokenAccount) Deposit(amount int) int {
	if amount > 0 {
		a.Balance += amount
	}
	return a.Balance
}

// accountHooks continue from a copy of the previous account.
func accountHooks() receiver.Hooks {
	return receiver.Hooks{
		Next: func(previous interface{}, iteration int, random *rand.Rand) interface{} {
			if previous == nil {
				return &account{}
			}
			return &account{Balance: previous.(*account).Balance}
		},
	}
}

func brokenAccountHooks() receiver.Hooks {
	return receiver.Hooks{
		Next: func(previous interface{}, iteration int, random *rand.Rand) interface{} {
			if previous == nil {
				return &brokenAccount{}
			}
			return &brokenAccount{Balance: previous.(*brokenAccount).Balance}
		},
	}
}

// maxOfCopy leaves its argument alone.
func maxOfCopy(xs []int) int {
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)-1]
}

// maxSortInPlace returns the same as maxOfCopy, but sorts its argument.
func maxSortInPlace(xs []int) int {
	sort.Ints(xs)
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

// failingAccountHooks panic once past the given iteration.
func failingAccountHooks(after int) receiver.Hooks {
	return receiver.Hooks{
		Next: func(previous interface{}, iteration int, random *rand.Rand) interface{} {
			if iteration > after {
				panic("next account unavailable")
			}
			if previous == nil {
				return &account{}
			}
			return &account{Balance: previous.(*account).Balance}
		},
	}
}

// overlapLogger notes whether Log was ever entered while another call was still in it.
type overlapLogger struct {
	active     int32
	overlapped int32
}

func (ol *overlapLogger) Log(level logging.LogLevel, text string, args ...interface{}) {
	if atomic.AddInt32(&ol.active, 1) > 1 {
		atomic.StoreInt32(&ol.overlapped, 1)
	}
	time.Sleep(100 * time.Microsecond)
	atomic.AddInt32(&ol.active, -1)
}

func stepsOfKind(tr *results.TestingResults, kind types.Kind) []*results.ExecutedStep {
	var steps []*results.ExecutedStep
	for _, step := range tr.Steps {
		if es, ok := step.(*results.ExecutedStep); ok && es.Kind.Kind == kind {
			steps = append(steps, es)
		}
	}
	return steps
}

func firstArgs(steps []*results.ExecutedStep) []interface{} {
	var args []interface{}
	for _, step := range steps {
		args = append(args, step.RefOutput.Args[0])
	}
	return args
}
