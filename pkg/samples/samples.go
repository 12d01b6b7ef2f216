/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package samples contains built-in questions, each with a correct
// submission and one or more broken ones. They serve as examples of how
// questions are declared and as fixtures for the difftest command.
package samples

import (
	"sort"

	"github.com/hyperledger-labs/difftest/pkg/testengine"
)

// Correct is the name of the submission of every sample that agrees with the reference.
const Correct = "correct"

type Sample struct {
	Name        string
	Description string

	question    func() *testengine.Question
	submissions map[string]testengine.Side
}

// Question returns a fresh declaration of the question.
func (s *Sample) Question() *testengine.Question {
	return s.question()
}

func (s *Sample) Submission(name string) (testengine.Side, bool) {
	side, ok := s.submissions[name]
	return side, ok
}

// SubmissionNames returns the names of the submissions in alphabetical order.
func (s *Sample) SubmissionNames() []string {
	names := make([]string, 0, len(s.submissions))
	for name := range s.submissions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]*Sample{}

func register(s *Sample) {
	for name, side := range s.submissions {
		side.Name = name
		s.submissions[name] = side
	}
	registry[s.Name] = s
}

// All returns every sample in alphabetical order.
func All() []*Sample {
	all := make([]*Sample, 0, len(registry))
	for _, s := range registry {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}

func Lookup(name string) (*Sample, bool) {
	s, ok := registry[name]
	return s, ok
}
