/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

type decoratedLogger struct {
	logger Logger
	prefix string
	args   []interface{}
}

func (dl *decoratedLogger) Log(level LogLevel, text string, args ...interface{}) {
	passedArgs := make([]interface{}, 0, len(dl.args)+len(args))
	passedArgs = append(passedArgs, dl.args...)
	passedArgs = append(passedArgs, args...)
	dl.logger.Log(level, dl.prefix+text, passedArgs...)
}

// Decorate returns a Logger prepending prefix to every message and
// args to every list of key/value pairs before passing them to logger.
func Decorate(logger Logger, prefix string, args ...interface{}) Logger {
	return &decoratedLogger{
		prefix: prefix,
		logger: logger,
		args:   args,
	}
}
