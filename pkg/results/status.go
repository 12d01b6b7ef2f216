/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package results

import (
	"fmt"

	"github.com/hyperledger-labs/difftest/pkg/status"
)

// maxReportedFailures bounds the failures kept in a status, as a broken
// submission may fail every one of thousands of tests.
const maxReportedFailures = 10

// Status summarizes the results for archiving and display.
func (tr *TestingResults) Status(question, submission string) *status.Run {
	run := &status.Run{
		RunID:      tr.RunID,
		Question:   question,
		Submission: submission,
		Seed:       tr.Seed,
		Config: status.Config{
			NumTests:               tr.Config.NumTests,
			MaxDiscards:            tr.Config.MaxDiscards,
			MaxOnlyEdgeCaseTests:   tr.Config.MaxOnlyEdgeCaseTests,
			MaxOnlySimpleCaseTests: tr.Config.MaxOnlySimpleCaseTests,
			NumAllGeneratedTests:   tr.Config.NumAllGeneratedTests,
			NumRegressionTests:     tr.Config.NumRegressionTests,
			MaxComplexity:          tr.Config.MaxComplexity,
		},
		StartTime: tr.StartTime,
		Duration:  tr.Duration(),
		TimedOut:  tr.TimedOut,
		Counts: status.Counts{
			EdgeCase:       tr.Counts.EdgeCase,
			SimpleCase:     tr.Counts.SimpleCase,
			Generated:      tr.Counts.Generated,
			MixedGenerated: tr.Counts.MixedGenerated,
			Regression:     tr.Counts.Regression,
			Discarded:      tr.Counts.Discarded,
		},
		Succeeded: tr.Succeeded(),
	}

	if tr.DesignErr != nil {
		run.DesignErr = tr.DesignErr.Error()
	}

	for _, f := range tr.Failures() {
		if len(run.Failures) == maxReportedFailures {
			break
		}
		var args []interface{}
		if f.RefOutput != nil {
			args = f.RefOutput.Args
		}
		run.Failures = append(run.Failures, &status.Failure{
			Iteration: f.Iteration,
			Kind:      f.Kind.String(),
			Args:      fmt.Sprintf("%v", args),
			Reason:    fmt.Sprintf("%v", f.VerifyErr),
		})
	}

	return run
}
