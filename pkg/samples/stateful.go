/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package samples

import (
	"math/rand"

	"github.com/hyperledger-labs/difftest/pkg/cases"
	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/receiver"
	"github.com/hyperledger-labs/difftest/pkg/testengine"
)

// Account carries its balance from one test to the next.
type Account struct {
	Balance int
}

func (a *Account) Deposit(amount int) int {
	a.Balance += amount
	return a.Balance
}

// NextAccount continues from the balance of the previous account.
func NextAccount(previous interface{}, iteration int, random *rand.Rand) interface{} {
	if previous == nil {
		return &Account{}
	}
	return &Account{Balance: previous.(*Account).Balance}
}

type depositOnlyAccount struct {
	Balance int
}

func (a *depositOnlyAccount) Deposit(amount int) int {
	if amount > 0 {
		a.Balance += amount
	}
	return a.Balance
}

func nextDepositOnlyAccount(previous interface{}, iteration int, random *rand.Rand) interface{} {
	if previous == nil {
		return &depositOnlyAccount{}
	}
	return &depositOnlyAccount{Balance: previous.(*depositOnlyAccount).Balance}
}

// Counter starts at zero every time it is constructed.
type Counter struct {
	Count int
}

func NewCounter() interface{} {
	return &Counter{}
}

func (c *Counter) Add(n int) int {
	c.Count += n
	return c.Count
}

type saturatingCounter struct {
	Count int
}

func newSaturatingCounter() interface{} {
	return &saturatingCounter{}
}

func (c *saturatingCounter) Add(n int) int {
	c.Count += n
	if c.Count > 50 {
		c.Count = 50
	}
	return c.Count
}

func init() {
	register(&Sample{
		Name:        "account",
		Description: "deposits on an account whose balance carries over between tests",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name: "account",
				Reference: testengine.Side{
					Method: methods.MustInstance("Deposit", (*Account).Deposit),
					Hooks:  receiver.Hooks{Next: NextAccount},
				},
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct: {
				Method: methods.MustInstance("Deposit", (*Account).Deposit),
				Hooks:  receiver.Hooks{Next: NextAccount},
			},
			"deposit-only": {
				Method: methods.MustInstance("Deposit", (*depositOnlyAccount).Deposit),
				Hooks:  receiver.Hooks{Next: nextDepositOnlyAccount},
			},
		},
	})

	register(&Sample{
		Name:        "counter",
		Description: "a counter built by its constructor, with counters at 10 and 100 as simple receivers",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name: "counter",
				Reference: testengine.Side{
					Method:          methods.MustInstance("Add", (*Counter).Add),
					Hooks:           receiver.Hooks{Constructor: NewCounter},
					SimpleReceivers: cases.List{&Counter{Count: 10}, &Counter{Count: 100}},
				},
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(256)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct: {
				Method:          methods.MustInstance("Add", (*Counter).Add),
				Hooks:           receiver.Hooks{Constructor: NewCounter},
				SimpleReceivers: cases.List{&Counter{Count: 10}, &Counter{Count: 100}},
			},
			"saturating": {
				Method:          methods.MustInstance("Add", (*saturatingCounter).Add),
				Hooks:           receiver.Hooks{Constructor: newSaturatingCounter},
				SimpleReceivers: cases.List{&saturatingCounter{Count: 10}, &saturatingCounter{Count: 100}},
			},
		},
	})
}
