/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package config holds the parameters of a test run.
//
// TestRunnerArgs is a partial configuration: every field is optional and
// layers of TestRunnerArgs are combined with ApplyOver, the outermost explicit
// value winning. Resolve fills in whatever is still unset from the global
// defaults, which are derived from the number of tests.
package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hyperledger-labs/difftest/pkg/types"
)

const (
	DefaultNumTests      = 1024
	DefaultMaxDiscards   = 1024
	DefaultMaxComplexity = 100
)

// TestRunnerArgs is a set of optional overrides of the run parameters.
type TestRunnerArgs struct {
	// Number of executed (non-discarded) tests a run must perform to succeed.
	NumTests *int `yaml:"numTests,omitempty"`

	// Number of precondition rejections after which a run is abandoned.
	MaxDiscards *int `yaml:"maxDiscards,omitempty"`

	// Upper bounds for tests built only from edge cases and only from simple cases.
	MaxOnlyEdgeCaseTests   *int `yaml:"maxOnlyEdgeCaseTests,omitempty"`
	MaxOnlySimpleCaseTests *int `yaml:"maxOnlySimpleCaseTests,omitempty"`

	// Number of generated tests drawing all arguments from generators.
	// Generated tests beyond this number mix edge, simple and generated arguments.
	NumAllGeneratedTests *int `yaml:"numAllGeneratedTests,omitempty"`

	// Number of tests replaying an earlier receiver.
	NumRegressionTests *int `yaml:"numRegressionTests,omitempty"`

	// Complexity reached by the last generated tests.
	MaxComplexity *int `yaml:"maxComplexity,omitempty"`
}

// Int returns a pointer to v, for filling in TestRunnerArgs literals.
func Int(v int) *int {
	return &v
}

func pick(over, base *int) *int {
	if over != nil {
		return over
	}
	return base
}

// ApplyOver returns the configuration in which every field set in args
// overrides the corresponding field of base.
func (args TestRunnerArgs) ApplyOver(base TestRunnerArgs) TestRunnerArgs {
	return TestRunnerArgs{
		NumTests:               pick(args.NumTests, base.NumTests),
		MaxDiscards:            pick(args.MaxDiscards, base.MaxDiscards),
		MaxOnlyEdgeCaseTests:   pick(args.MaxOnlyEdgeCaseTests, base.MaxOnlyEdgeCaseTests),
		MaxOnlySimpleCaseTests: pick(args.MaxOnlySimpleCaseTests, base.MaxOnlySimpleCaseTests),
		NumAllGeneratedTests:   pick(args.NumAllGeneratedTests, base.NumAllGeneratedTests),
		NumRegressionTests:     pick(args.NumRegressionTests, base.NumRegressionTests),
		MaxComplexity:          pick(args.MaxComplexity, base.MaxComplexity),
	}
}

// Resolve fills in every unset field with its global default.
func (args TestRunnerArgs) Resolve() Resolved {
	valueOr := func(v *int, def int) int {
		if v != nil {
			return *v
		}
		return def
	}

	numTests := valueOr(args.NumTests, DefaultNumTests)
	return Resolved{
		NumTests:               numTests,
		MaxDiscards:            valueOr(args.MaxDiscards, DefaultMaxDiscards),
		MaxOnlyEdgeCaseTests:   valueOr(args.MaxOnlyEdgeCaseTests, numTests/16),
		MaxOnlySimpleCaseTests: valueOr(args.MaxOnlySimpleCaseTests, numTests/16),
		NumAllGeneratedTests:   valueOr(args.NumAllGeneratedTests, numTests/2),
		NumRegressionTests:     valueOr(args.NumRegressionTests, numTests/16),
		MaxComplexity:          valueOr(args.MaxComplexity, DefaultMaxComplexity),
	}
}

// Resolved is a configuration with every parameter set.
type Resolved struct {
	NumTests               int `yaml:"numTests"`
	MaxDiscards            int `yaml:"maxDiscards"`
	MaxOnlyEdgeCaseTests   int `yaml:"maxOnlyEdgeCaseTests"`
	MaxOnlySimpleCaseTests int `yaml:"maxOnlySimpleCaseTests"`
	NumAllGeneratedTests   int `yaml:"numAllGeneratedTests"`
	NumRegressionTests     int `yaml:"numRegressionTests"`
	MaxComplexity          int `yaml:"maxComplexity"`
}

// Args converts the resolved configuration back to a fully populated TestRunnerArgs.
func (r Resolved) Args() TestRunnerArgs {
	return TestRunnerArgs{
		NumTests:               Int(r.NumTests),
		MaxDiscards:            Int(r.MaxDiscards),
		MaxOnlyEdgeCaseTests:   Int(r.MaxOnlyEdgeCaseTests),
		MaxOnlySimpleCaseTests: Int(r.MaxOnlySimpleCaseTests),
		NumAllGeneratedTests:   Int(r.NumAllGeneratedTests),
		NumRegressionTests:     Int(r.NumRegressionTests),
		MaxComplexity:          Int(r.MaxComplexity),
	}
}

// Validate returns a misuse error if the configuration contradicts itself.
func (r Resolved) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"numTests", r.NumTests},
		{"maxDiscards", r.MaxDiscards},
		{"maxOnlyEdgeCaseTests", r.MaxOnlyEdgeCaseTests},
		{"maxOnlySimpleCaseTests", r.MaxOnlySimpleCaseTests},
		{"numAllGeneratedTests", r.NumAllGeneratedTests},
		{"numRegressionTests", r.NumRegressionTests},
		{"maxComplexity", r.MaxComplexity},
	}
	for _, f := range fields {
		if f.value < 0 {
			return types.Misusef("%s must not be negative, got %d", f.name, f.value)
		}
	}

	if r.NumRegressionTests > r.NumTests {
		return types.Misusef("numRegressionTests (%d) must not exceed numTests (%d)", r.NumRegressionTests, r.NumTests)
	}

	return nil
}

// LoadFile reads TestRunnerArgs from a YAML file.
// Fields absent from the file stay unset.
func LoadFile(path string) (*TestRunnerArgs, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not read config file %s", path)
	}

	args := &TestRunnerArgs{}
	if err := yaml.Unmarshal(data, args); err != nil {
		return nil, errors.WithMessagef(err, "could not parse config file %s", path)
	}

	return args, nil
}
