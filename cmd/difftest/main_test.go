/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/logging"
)

var _ = Describe("Parsing", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = ioutil.TempDir("", "difftest-parse")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("parses a fully populated run command line", func() {
		configPath := filepath.Join(tmpDir, "args.yaml")
		err := ioutil.WriteFile(configPath, []byte("numTests: 40\nmaxDiscards: 3\n"), 0644)
		Expect(err).NotTo(HaveOccurred())

		args, err := parseArgs([]string{
			"run", "abs", "off-by-one",
			"--seed", "42",
			"--config", configPath,
			"--num-tests", "20",
			"--timeout", "3s",
			"--wal", filepath.Join(tmpDir, "wal"),
			"--store", filepath.Join(tmpDir, "store"),
			"--log-level", "debug",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(args.command).To(Equal(runCommand))
		Expect(args.question).To(Equal("abs"))
		Expect(args.submission).To(Equal("off-by-one"))
		Expect(args.seed).To(Equal(int64(42)))
		Expect(args.runArgs.NumTests).To(Equal(config.Int(20)))
		Expect(args.runArgs.MaxDiscards).To(Equal(config.Int(3)))
		Expect(args.timeout).To(Equal(3 * time.Second))
		Expect(args.walPath).To(Equal(filepath.Join(tmpDir, "wal")))
		Expect(args.storePath).To(Equal(filepath.Join(tmpDir, "store")))
		Expect(args.logLevel).To(Equal(logging.LevelDebug))
	})

	It("defaults to the correct submission", func() {
		args, err := parseArgs([]string{"run", "sort"})
		Expect(err).NotTo(HaveOccurred())
		Expect(args.submission).To(Equal("correct"))
		Expect(args.seed).To(Equal(int64(1)))
		Expect(args.logLevel).To(Equal(logging.LevelInfo))
		Expect(args.runArgs).To(Equal(config.TestRunnerArgs{}))
	})

	When("both a run id and a question are given to show", func() {
		It("returns an error", func() {
			_, err := parseArgs([]string{
				"show", "run-id",
				"--store", tmpDir,
				"--question", "abs",
			})
			Expect(err).To(MatchError("cannot set both a run id and --question"))
		})
	})

	When("the config file does not hold runner arguments", func() {
		It("returns an error", func() {
			configPath := filepath.Join(tmpDir, "args.yaml")
			err := ioutil.WriteFile(configPath, []byte("numTests: [1, 2]\n"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = parseArgs([]string{"run", "abs", "--config", configPath})
			Expect(err).To(HaveOccurred())
		})
	})

	When("the timeout is negative", func() {
		It("returns an error", func() {
			_, err := parseArgs([]string{"run", "abs", "--timeout=-1s"})
			Expect(err).To(MatchError("--timeout must not be negative"))
		})
	})
})

var _ = Describe("Execution", func() {
	var (
		tmpDir string
		output *bytes.Buffer
		logs   *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = ioutil.TempDir("", "difftest-exec")
		Expect(err).NotTo(HaveOccurred())
		output = &bytes.Buffer{}
		logs = &bytes.Buffer{}
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	parse := func(args ...string) *arguments {
		a, err := parseArgs(args)
		Expect(err).NotTo(HaveOccurred())
		a.logOutput = logs
		return a
	}

	It("lists the samples with their submissions", func() {
		err := parse("list").execute(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.String()).To(ContainSubstring("abs"))
		Expect(output.String()).To(ContainSubstring("- off-by-one"))
		Expect(output.String()).To(ContainSubstring("- all-but-last"))
	})

	It("runs a correct submission", func() {
		err := parse("run", "abs", "--num-tests", "50").execute(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.String()).To(ContainSubstring("Question=abs, Submission=correct, Seed=1"))
		Expect(output.String()).To(ContainSubstring("SUCCEEDED"))
		Expect(logs.String()).To(ContainSubstring("finished test run"))
	})

	It("fails on a wrong submission", func() {
		err := parse("run", "abs", "off-by-one").execute(output)
		Expect(err).To(MatchError("submission off-by-one of abs did not pass"))
		Expect(output.String()).To(ContainSubstring("=== Failures"))
		Expect(output.String()).To(ContainSubstring("FAILED"))
	})

	It("rejects unknown questions and submissions", func() {
		err := parse("run", "fizzbuzz").execute(output)
		Expect(err).To(MatchError("unknown question \"fizzbuzz\", see 'list'"))

		err = parse("run", "abs", "missing").execute(output)
		Expect(err).To(MatchError("question abs has no submission \"missing\""))
	})

	It("archives runs and shows them again", func() {
		storeDir := filepath.Join(tmpDir, "store")

		err := parse("run", "sort", "--store", storeDir, "--num-tests", "30").execute(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(output.String()).To(ContainSubstring("archived as "))

		err = parse("run", "abs", "--store", storeDir, "--num-tests", "30", "--seed", "7").execute(&bytes.Buffer{})
		Expect(err).NotTo(HaveOccurred())

		listing := &bytes.Buffer{}
		err = parse("show", "--store", storeDir).execute(listing)
		Expect(err).NotTo(HaveOccurred())
		Expect(listing.String()).To(ContainSubstring("sort"))
		Expect(listing.String()).To(ContainSubstring("seed=7"))

		filtered := &bytes.Buffer{}
		err = parse("show", "--store", storeDir, "--question", "abs").execute(filtered)
		Expect(err).NotTo(HaveOccurred())
		Expect(filtered.String()).To(ContainSubstring("seed=7"))
		Expect(filtered.String()).NotTo(ContainSubstring("sort"))

		err = parse("show", "--store", storeDir, "no-such-run").execute(&bytes.Buffer{})
		Expect(err).To(HaveOccurred())
	})

	It("writes every step to the step log", func() {
		walDir := filepath.Join(tmpDir, "wal")

		err := parse("run", "abs", "--wal", walDir, "--num-tests", "25").execute(output)
		Expect(err).NotTo(HaveOccurred())

		dump := &bytes.Buffer{}
		err = parse("log", walDir).execute(dump)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.Count(dump.Bytes(), []byte("\n"))).To(Equal(25))
		Expect(dump.String()).To(ContainSubstring("EdgeCase"))

		By("refusing to append to a used log")
		err = parse("run", "abs", "--wal", walDir).execute(&bytes.Buffer{})
		Expect(err).To(MatchError(ContainSubstring("is not empty")))
	})
})
