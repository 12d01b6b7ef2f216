/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config_test

import (
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/types"
)

var _ = Describe("TestRunnerArgs", func() {
	It("resolves the global defaults", func() {
		Expect(config.TestRunnerArgs{}.Resolve()).To(Equal(config.Resolved{
			NumTests:               1024,
			MaxDiscards:            1024,
			MaxOnlyEdgeCaseTests:   64,
			MaxOnlySimpleCaseTests: 64,
			NumAllGeneratedTests:   512,
			NumRegressionTests:     64,
			MaxComplexity:          100,
		}))
	})

	It("derives defaults from an explicit number of tests", func() {
		resolved := config.TestRunnerArgs{NumTests: config.Int(32)}.Resolve()
		Expect(resolved.MaxOnlyEdgeCaseTests).To(Equal(2))
		Expect(resolved.NumAllGeneratedTests).To(Equal(16))
		Expect(resolved.NumRegressionTests).To(Equal(2))
	})

	It("lets explicit values win over the base", func() {
		base := config.TestRunnerArgs{NumTests: config.Int(100), MaxComplexity: config.Int(10)}
		over := config.TestRunnerArgs{NumTests: config.Int(16)}
		merged := over.ApplyOver(base)
		Expect(*merged.NumTests).To(Equal(16))
		Expect(*merged.MaxComplexity).To(Equal(10))
		Expect(merged.MaxDiscards).To(BeNil())
	})

	It("round trips through Args", func() {
		resolved := config.TestRunnerArgs{NumTests: config.Int(48)}.Resolve()
		Expect(resolved.Args().Resolve()).To(Equal(resolved))
	})

	DescribeTable("rejecting contradictory configurations",
		func(args config.TestRunnerArgs) {
			err := args.Resolve().Validate()
			Expect(err).To(HaveOccurred())
			Expect(types.IsMisuse(err)).To(BeTrue())
		},
		Entry("negative tests", config.TestRunnerArgs{NumTests: config.Int(-1)}),
		Entry("negative complexity", config.TestRunnerArgs{MaxComplexity: config.Int(-5)}),
		Entry("more regressions than tests", config.TestRunnerArgs{NumTests: config.Int(4), NumRegressionTests: config.Int(5)}),
	)

	It("accepts the defaults", func() {
		Expect(config.TestRunnerArgs{}.Resolve().Validate()).To(Succeed())
	})

	When("loading from a file", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = ioutil.TempDir("", "config")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(dir)
		})

		It("leaves absent fields unset", func() {
			path := filepath.Join(dir, "run.yaml")
			err := ioutil.WriteFile(path, []byte("numTests: 16\nmaxComplexity: 20\n"), 0644)
			Expect(err).NotTo(HaveOccurred())

			args, err := config.LoadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(*args.NumTests).To(Equal(16))
			Expect(*args.MaxComplexity).To(Equal(20))
			Expect(args.NumRegressionTests).To(BeNil())
		})

		It("fails on malformed input", func() {
			path := filepath.Join(dir, "bad.yaml")
			err := ioutil.WriteFile(path, []byte("numTests: [\n"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = config.LoadFile(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
