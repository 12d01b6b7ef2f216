/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// difftest runs the built-in sample questions against their submissions.
// Runs can be archived in a result store and their steps written to a
// step log, both of which can be inspected afterwards.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/hyperledger-labs/difftest/pkg/config"
	"github.com/hyperledger-labs/difftest/pkg/logging"
	"github.com/hyperledger-labs/difftest/pkg/resultstore"
	"github.com/hyperledger-labs/difftest/pkg/samples"
	"github.com/hyperledger-labs/difftest/pkg/sandbox"
	"github.com/hyperledger-labs/difftest/pkg/steplog"
	"github.com/hyperledger-labs/difftest/pkg/testengine"
)

const (
	listCommand = "list"
	runCommand  = "run"
	showCommand = "show"
	logCommand  = "log"
)

type arguments struct {
	command string

	// run
	question   string
	submission string
	seed       int64
	runArgs    config.TestRunnerArgs
	timeout    time.Duration
	walPath    string
	storePath  string
	logLevel   logging.LogLevel
	logOutput  io.Writer

	// show
	runID string
}

func (a *arguments) execute(output io.Writer) error {
	switch a.command {
	case listCommand:
		return a.list(output)
	case runCommand:
		return a.run(output)
	case showCommand:
		return a.show(output)
	case logCommand:
		return a.dumpLog(output)
	default:
		return errors.Errorf("unknown command %q", a.command)
	}
}

func (a *arguments) list(output io.Writer) error {
	for _, s := range samples.All() {
		fmt.Fprintf(output, "%-10s %s\n", s.Name, s.Description)
		for _, name := range s.SubmissionNames() {
			fmt.Fprintf(output, "%-10s   - %s\n", "", name)
		}
	}
	return nil
}

func (a *arguments) logger() logging.Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: a.logOutput, NoColor: true}).
		Level(logging.ZerologLevel(a.logLevel)).
		With().Timestamp().Logger()
	return logging.NewZerologLogger(zl)
}

func (a *arguments) run(output io.Writer) error {
	sample, ok := samples.Lookup(a.question)
	if !ok {
		return errors.Errorf("unknown question %q, see '%s'", a.question, listCommand)
	}
	submission, ok := sample.Submission(a.submission)
	if !ok {
		return errors.Errorf("question %s has no submission %q", a.question, a.submission)
	}

	question := sample.Question()
	if a.timeout > 0 {
		question.Timeout = a.timeout
	}

	opts := []testengine.Opt{testengine.LoggerOpt(a.logger())}

	if a.walPath != "" {
		stepLog, err := steplog.Open(a.walPath)
		if err != nil {
			return err
		}
		defer stepLog.Close()

		empty, err := stepLog.IsEmpty()
		if err != nil {
			return err
		}
		if !empty {
			return errors.Errorf("step log %s is not empty", a.walPath)
		}

		opts = append(opts, testengine.InterceptorOpt(stepLog))
		defer stepLog.Sync()
	}

	tg, err := testengine.NewTestGenerator(question, opts...)
	if err != nil {
		return errors.WithMessage(err, "could not set up question")
	}

	runner, err := tg.LoadSubmission(submission, a.runArgs)
	if err != nil {
		return errors.WithMessage(err, "could not load submission")
	}

	tr, err := runner.RunTests(a.seed, sandbox.DefaultEnvironment(), config.TestRunnerArgs{})
	if err != nil {
		return errors.WithMessage(err, "could not run tests")
	}

	run := tr.Status(a.question, a.submission)
	fmt.Fprint(output, run.Pretty())

	if a.storePath != "" {
		store, err := resultstore.Open(a.storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Put(run); err != nil {
			return errors.WithMessage(err, "could not archive run")
		}
		if err := store.Sync(); err != nil {
			return errors.WithMessage(err, "could not archive run")
		}
		fmt.Fprintf(output, "archived as %s\n", run.RunID)
	}

	if !run.Succeeded {
		return errors.Errorf("submission %s of %s did not pass", a.submission, a.question)
	}

	return nil
}

func (a *arguments) show(output io.Writer) error {
	store, err := resultstore.Open(a.storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if a.runID != "" {
		run, err := store.Get(a.runID)
		if err != nil {
			return err
		}
		fmt.Fprint(output, run.Pretty())
		return nil
	}

	runs, err := store.List(a.question)
	if err != nil {
		return err
	}
	for _, run := range runs {
		verdict := "SUCCEEDED"
		if !run.Succeeded {
			verdict = "FAILED"
		}
		fmt.Fprintf(output, "%s %s %-10s %-14s seed=%d %s\n",
			run.StartTime.Format(time.RFC3339), run.RunID, run.Question, run.Submission, run.Seed, verdict)
	}
	return nil
}

func (a *arguments) dumpLog(output io.Writer) error {
	stepLog, err := steplog.Open(a.walPath)
	if err != nil {
		return err
	}
	defer stepLog.Close()

	return stepLog.LoadAll(func(index uint64, e *steplog.Entry) {
		fmt.Fprintf(output, "% 6d %s\n", index, e)
	})
}

func parseArgs(args []string) (*arguments, error) {
	app := kingpin.New("difftest", "Differential testing of submissions against a reference.")

	app.Command(listCommand, "List the sample questions and their submissions.")

	run := app.Command(runCommand, "Run a submission of a sample question.")
	question := run.Arg("question", "The sample question.").Required().String()
	submission := run.Arg("submission", "The submission to test.").Default(samples.Correct).String()
	seed := run.Flag("seed", "The seed of the run.").Default("1").Int64()
	configPath := run.Flag("config", "A YAML file with test runner arguments.").ExistingFile()
	numTests := run.Flag("num-tests", "The number of tests to execute, overriding the config file.").Int()
	timeout := run.Flag("timeout", "Abandon the run after this long.").Duration()
	walPath := run.Flag("wal", "Directory of a step log to write every step to.").String()
	storePath := run.Flag("store", "Directory of a result store to archive the run in.").String()
	logLevel := run.Flag("log-level", "The level to log at.").Default("info").Enum("debug", "info", "warn", "error")

	show := app.Command(showCommand, "Show archived runs.")
	showStore := show.Flag("store", "Directory of the result store.").Required().ExistingDir()
	runID := show.Arg("runID", "The run to show. All runs are listed if omitted.").String()
	showQuestion := show.Flag("question", "Only list runs of this question.").String()

	dump := app.Command(logCommand, "Print a step log.")
	dumpPath := dump.Arg("wal", "Directory of the step log.").Required().ExistingDir()

	command, err := app.Parse(args)
	if err != nil {
		return nil, err
	}

	a := &arguments{
		command:   command,
		logOutput: os.Stderr,
	}

	switch command {
	case runCommand:
		if *configPath != "" {
			loaded, err := config.LoadFile(*configPath)
			if err != nil {
				return nil, err
			}
			a.runArgs = *loaded
		}
		if *numTests != 0 {
			a.runArgs.NumTests = config.Int(*numTests)
		}
		if *timeout < 0 {
			return nil, errors.Errorf("--timeout must not be negative")
		}

		level, _ := logging.ParseLevel(*logLevel)

		a.question = *question
		a.submission = *submission
		a.seed = *seed
		a.timeout = *timeout
		a.walPath = *walPath
		a.storePath = *storePath
		a.logLevel = level
	case showCommand:
		if *runID != "" && *showQuestion != "" {
			return nil, errors.Errorf("cannot set both a run id and --question")
		}
		a.storePath = *showStore
		a.runID = *runID
		a.question = *showQuestion
	case logCommand:
		a.walPath = *dumpPath
	}

	return a, nil
}

func main() {
	kingpin.Version("0.0.1")
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("failed to parse arguments, %s, try --help", err)
	}
	err = args.execute(os.Stdout)
	if err != nil {
		fmt.Println("")
		kingpin.Fatalf("%s", err)
	}
}
