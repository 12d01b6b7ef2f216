/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import "sync"

type synchronizedLogger struct {
	logger Logger
	mutex  sync.Mutex
}

func (sl *synchronizedLogger) Log(level LogLevel, text string, args ...interface{}) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()
	sl.logger.Log(level, text, args...)
}

// Synchronize wraps logger so that it can be used from several goroutines,
// e.g. a test run abandoned on timeout and the caller waiting for it.
func Synchronize(logger Logger) Logger {
	if _, ok := logger.(*synchronizedLogger); ok {
		return logger
	}
	return &synchronizedLogger{
		logger: logger,
	}
}
