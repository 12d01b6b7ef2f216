/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package results

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperledger-labs/difftest/pkg/config"
)

// Recorder accumulates the steps of a run as they complete.
//
// A run abandoned on timeout may still be recording when the caller
// seals the results, so the Recorder is safe for concurrent use.
// Steps recorded after sealing are dropped.
type Recorder struct {
	mutex   sync.Mutex
	results *TestingResults
	sealed  bool
	timeNow func() time.Time
}

// RecorderOpt configures a Recorder.
type RecorderOpt func(*Recorder)

// TimeSourceOpt replaces the clock used for the start and end times.
func TimeSourceOpt(source func() time.Time) RecorderOpt {
	return func(r *Recorder) {
		r.timeNow = source
	}
}

// RunIDOpt sets the run id instead of generating a random one.
func RunIDOpt(runID string) RecorderOpt {
	return func(r *Recorder) {
		r.results.RunID = runID
	}
}

func NewRecorder(seed int64, cfg config.Resolved, opts ...RecorderOpt) *Recorder {
	r := &Recorder{
		results: &TestingResults{
			RunID:  uuid.New().String(),
			Seed:   seed,
			Config: cfg,
		},
		timeNow: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.results.StartTime = r.timeNow()
	return r
}

// RunID returns the id of the run being recorded. It never changes.
func (r *Recorder) RunID() string {
	return r.results.RunID
}

// SetConfig replaces the configuration, e.g. once case budgets have been capped.
func (r *Recorder) SetConfig(cfg config.Resolved) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.results.Config = cfg
}

// Record appends a step. It returns false if the results were already sealed.
func (r *Recorder) Record(step Step) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.sealed {
		return false
	}
	r.results.Steps = append(r.results.Steps, step)
	r.results.Counts.add(step)
	return true
}

// Seal finishes the results. Later calls return the same results.
func (r *Recorder) Seal(timedOut bool) *TestingResults {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if !r.sealed {
		r.sealed = true
		r.results.TimedOut = timedOut
		r.results.EndTime = r.timeNow()
	}
	return r.results
}

// SealWithDesignError finishes the results of a run that never started
// because the submission failed the structural check.
func (r *Recorder) SealWithDesignError(err error) *TestingResults {
	r.mutex.Lock()
	r.results.DesignErr = err
	r.mutex.Unlock()
	return r.Seal(false)
}
