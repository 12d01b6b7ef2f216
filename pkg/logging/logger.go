/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"fmt"
	"io"
	"os"
)

// Logger is minimal logging interface designed to be easily adaptable to any
// logging library.
type Logger interface {
	// Log is invoked with the log level, the log message, and key/value pairs
	// of any relevant log details. The keys are always strings, while the
	// values are unspecified.
	Log(level LogLevel, text string, args ...interface{})
}

type LogLevel int

func (ll LogLevel) String() string {
	switch ll {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(ll))
	}
}

// ParseLevel is the inverse of LogLevel.String.
func ParseLevel(s string) (LogLevel, bool) {
	for ll := LevelDebug; ll <= LevelError; ll++ {
		if ll.String() == s {
			return ll, true
		}
	}
	return LevelInfo, false
}

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Simple console logger writing log messages to an io.Writer.
// Log messages are never written to standard output, which may be
// redirected while the code under test runs.
type consoleLogger struct {
	level  LogLevel
	output io.Writer
}

// NewConsoleLogger returns a Logger writing all messages of the given level and above to output.
func NewConsoleLogger(level LogLevel, output io.Writer) Logger {
	return &consoleLogger{
		level:  level,
		output: output,
	}
}

// Log is invoked with the log level, the log message, and key/value pairs
// of any relevant log details. The keys are always strings, while the
// values are unspecified. If the level is greater of equal than this consoleLogger,
// Log() writes the log message to the configured output.
func (l *consoleLogger) Log(level LogLevel, text string, args ...interface{}) {
	if level < l.level {
		return
	}

	fmt.Fprint(l.output, text)
	for i := 0; i < len(args); i++ {
		if i+1 < len(args) {
			switch args[i+1].(type) {
			case []byte:
				// Print byte arrays in base 16 encoding.
				fmt.Fprintf(l.output, " %s=%x", args[i], args[i+1])
			default:
				// Print all other types using the Go default format.
				fmt.Fprintf(l.output, " %s=%v", args[i], args[i+1])
			}
			i++
		} else {
			fmt.Fprintf(l.output, " %s=%%MISSING%%", args[i])
		}
	}
	fmt.Fprintf(l.output, "\n")
}

// The nil logger drops all messages.
type nilLogger struct{}

// The Log method of the nilLogger does nothing, effectively dropping every log message.
func (nl *nilLogger) Log(level LogLevel, text string, args ...interface{}) {
	// Do nothing.
}

var (
	// ConsoleDebugLogger implements Logger and writes all log messages to stderr.
	ConsoleDebugLogger = NewConsoleLogger(LevelDebug, os.Stderr)

	// ConsoleInfoLogger implements Logger and writes all LevelInfo and above log messages to stderr.
	ConsoleInfoLogger = NewConsoleLogger(LevelInfo, os.Stderr)

	// ConsoleWarnLogger implements Logger and writes all LevelWarn and above log messages to stderr.
	ConsoleWarnLogger = NewConsoleLogger(LevelWarn, os.Stderr)

	// ConsoleErrorLogger implements Logger and writes all LevelError log messages to stderr.
	ConsoleErrorLogger = NewConsoleLogger(LevelError, os.Stderr)

	// NilLogger drops all log messages.
	NilLogger Logger = &nilLogger{}
)
