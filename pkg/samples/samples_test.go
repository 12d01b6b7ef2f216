/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package samples_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/samples"
	"github.com/hyperledger-labs/difftest/pkg/sandbox"
	"github.com/hyperledger-labs/difftest/pkg/testengine"
)

var _ = Describe("Samples", func() {
	It("are registered in alphabetical order", func() {
		var names []string
		for _, s := range samples.All() {
			names = append(names, s.Name)
		}
		Expect(names).To(Equal([]string{"abs", "account", "counter", "divide", "greet", "isqrt", "reverse", "sort"}))

		s, ok := samples.Lookup("sort")
		Expect(ok).To(BeTrue())
		Expect(s.SubmissionNames()).To(Equal([]string{"all-but-last", samples.Correct}))

		_, ok = samples.Lookup("missing")
		Expect(ok).To(BeFalse())
	})

	for _, s := range samples.All() {
		s := s

		Describe(s.Name, func() {
			var tg *testengine.TestGenerator

			BeforeEach(func() {
				var err error
				tg, err = testengine.NewTestGenerator(s.Question())
				Expect(err).NotTo(HaveOccurred())
			})

			for _, name := range s.SubmissionNames() {
				name := name

				It("judges the "+name+" submission", func() {
					submission, ok := s.Submission(name)
					Expect(ok).To(BeTrue())
					Expect(submission.Name).To(Equal(name))

					runner, err := tg.LoadSubmission(submission, config.TestRunnerArgs{})
					Expect(err).NotTo(HaveOccurred())
					tr, err := runner.RunTests(17, sandbox.DefaultEnvironment(), config.TestRunnerArgs{})
					Expect(err).NotTo(HaveOccurred())

					if name == samples.Correct {
						Expect(tr.AssertAllSucceeded()).To(Succeed())
					} else {
						Expect(tr.AssertSomethingFailed()).To(Succeed())
						Expect(tr.DesignErr).To(BeNil())
					}
				})
			}
		})
	}
})
