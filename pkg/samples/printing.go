/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package samples

import (
	"fmt"
	"strings"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/methods"
	"github.com/hyperledger-labs/difftest/pkg/testengine"
)

func Greet(name string) {
	fmt.Printf("Hello, %s!\n", name)
}

func greetShouting(name string) {
	fmt.Printf("Hello, %s!\n", strings.ToUpper(name))
}

func init() {
	register(&Sample{
		Name:        "greet",
		Description: "printing a greeting, compared through the captured standard output",
		question: func() *testengine.Question {
			return &testengine.Question{
				Name:        "greet",
				Reference:   testengine.Side{Method: methods.MustFunc("Greet", Greet, methods.Printer())},
				DefaultArgs: config.TestRunnerArgs{NumTests: config.Int(64)},
			}
		},
		submissions: map[string]testengine.Side{
			Correct:    {Method: methods.MustFunc("Greet", Greet, methods.Printer())},
			"shouting": {Method: methods.MustFunc("Greet", greetShouting, methods.Printer())},
		},
	})
}
