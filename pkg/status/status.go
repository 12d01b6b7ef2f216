/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package status describes finished test runs in a form suitable for
// archiving and for display.
package status

import (
	"bytes"
	"fmt"
	"time"
)

type Run struct {
	RunID      string        `json:"run_id"`
	Question   string        `json:"question"`
	Submission string        `json:"submission"`
	Seed       int64         `json:"seed"`
	Config     Config        `json:"config"`
	StartTime  time.Time     `json:"start_time"`
	Duration   time.Duration `json:"duration"`
	TimedOut   bool          `json:"timed_out"`
	DesignErr  string        `json:"design_error,omitempty"`
	Counts     Counts        `json:"counts"`
	Succeeded  bool          `json:"succeeded"`
	Failures   []*Failure    `json:"failures,omitempty"`
}

type Config struct {
	NumTests               int `json:"num_tests"`
	MaxDiscards            int `json:"max_discards"`
	MaxOnlyEdgeCaseTests   int `json:"max_only_edge_case_tests"`
	MaxOnlySimpleCaseTests int `json:"max_only_simple_case_tests"`
	NumAllGeneratedTests   int `json:"num_all_generated_tests"`
	NumRegressionTests     int `json:"num_regression_tests"`
	MaxComplexity          int `json:"max_complexity"`
}

type Counts struct {
	EdgeCase       int `json:"edge_case"`
	SimpleCase     int `json:"simple_case"`
	Generated      int `json:"generated"`
	MixedGenerated int `json:"mixed_generated"`
	Regression     int `json:"regression"`
	Discarded      int `json:"discarded"`
}

type Failure struct {
	Iteration int    `json:"iteration"`
	Kind      string `json:"kind"`
	Args      string `json:"args"`
	Reason    string `json:"reason"`
}

// Pretty renders the run for a terminal.
func (r *Run) Pretty() string {
	var buffer bytes.Buffer
	buffer.WriteString("===========================================\n")
	buffer.WriteString(fmt.Sprintf("RunID=%s, Question=%s, Submission=%s, Seed=%d\n", r.RunID, r.Question, r.Submission, r.Seed))
	buffer.WriteString("===========================================\n\n")

	buffer.WriteString("=== Config ===\n")
	buffer.WriteString(fmt.Sprintf("NumTests=%d MaxDiscards=%d MaxComplexity=%d\n", r.Config.NumTests, r.Config.MaxDiscards, r.Config.MaxComplexity))
	buffer.WriteString(fmt.Sprintf("MaxOnlyEdgeCaseTests=%d MaxOnlySimpleCaseTests=%d NumAllGeneratedTests=%d NumRegressionTests=%d\n",
		r.Config.MaxOnlyEdgeCaseTests, r.Config.MaxOnlySimpleCaseTests, r.Config.NumAllGeneratedTests, r.Config.NumRegressionTests))
	buffer.WriteString("\n")

	buffer.WriteString("=== Counts ===\n")
	buffer.WriteString(fmt.Sprintf("  EdgeCase:       %d\n", r.Counts.EdgeCase))
	buffer.WriteString(fmt.Sprintf("  SimpleCase:     %d\n", r.Counts.SimpleCase))
	buffer.WriteString(fmt.Sprintf("  Generated:      %d\n", r.Counts.Generated))
	buffer.WriteString(fmt.Sprintf("  MixedGenerated: %d\n", r.Counts.MixedGenerated))
	buffer.WriteString(fmt.Sprintf("  Regression:     %d\n", r.Counts.Regression))
	buffer.WriteString(fmt.Sprintf("  Discarded:      %d\n", r.Counts.Discarded))
	buffer.WriteString("\n")

	if r.DesignErr != "" {
		buffer.WriteString("=== Design Check Failed ===\n")
		buffer.WriteString(r.DesignErr)
		buffer.WriteString("\n\n")
	}

	if len(r.Failures) > 0 {
		buffer.WriteString(fmt.Sprintf("=== Failures (%d) ===\n", len(r.Failures)))
		for _, f := range r.Failures {
			buffer.WriteString(fmt.Sprintf("  #%d %s args=%s\n    %s\n", f.Iteration, f.Kind, f.Args, f.Reason))
		}
		buffer.WriteString("\n")
	}

	verdict := "SUCCEEDED"
	if !r.Succeeded {
		verdict = "FAILED"
	}
	if r.TimedOut {
		verdict += " (timed out)"
	}
	buffer.WriteString(fmt.Sprintf("%s in %v\n", verdict, r.Duration))

	return buffer.String()
}
