/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/status"
)

var _ = Describe("Run", func() {
	var run *status.Run

	BeforeEach(func() {
		run = &status.Run{
			RunID:      "4c1d",
			Question:   "abs",
			Submission: "off-by-one",
			Seed:       9,
			Config:     status.Config{NumTests: 16, MaxDiscards: 16, MaxComplexity: 100},
			StartTime:  time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC),
			Duration:   time.Second,
			Counts:     status.Counts{EdgeCase: 1, Generated: 14, Regression: 1},
			Failures: []*status.Failure{
				{Iteration: 3, Kind: "Generated(2)", Args: "[-1]", Reason: "returned values differ"},
			},
		}
	})

	It("renders failures and the verdict", func() {
		pretty := run.Pretty()
		Expect(pretty).To(ContainSubstring("RunID=4c1d, Question=abs, Submission=off-by-one, Seed=9"))
		Expect(pretty).To(ContainSubstring("=== Failures (1) ==="))
		Expect(pretty).To(ContainSubstring("#3 Generated(2) args=[-1]"))
		Expect(pretty).To(ContainSubstring("FAILED in 1s"))
		Expect(pretty).NotTo(ContainSubstring("Design Check"))
	})

	It("marks timed out runs", func() {
		run.Failures = nil
		run.Succeeded = true
		run.TimedOut = true
		Expect(run.Pretty()).To(ContainSubstring("SUCCEEDED (timed out)"))
	})

	It("survives a JSON round trip", func() {
		data, err := json.Marshal(run)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"run_id":"4c1d"`))

		decoded := &status.Run{}
		Expect(json.Unmarshal(data, decoded)).To(Succeed())
		Expect(decoded).To(Equal(run))
	})
})
