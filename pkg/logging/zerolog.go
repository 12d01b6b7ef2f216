/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the Logger interface.
// Key/value pairs become fields of the emitted event.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return &zerologLogger{logger: logger}
}

func (zl *zerologLogger) Log(level LogLevel, text string, args ...interface{}) {
	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = zl.logger.Debug()
	case LevelInfo:
		event = zl.logger.Info()
	case LevelWarn:
		event = zl.logger.Warn()
	default:
		event = zl.logger.Error()
	}

	// Disabled levels yield a nil event.
	if event == nil {
		return
	}

	for i := 0; i < len(args); i++ {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			event = event.Str(key, "%MISSING%")
			break
		}
		switch v := args[i+1].(type) {
		case []byte:
			event = event.Hex(key, v)
		case error:
			event = event.AnErr(key, v)
		default:
			event = event.Interface(key, v)
		}
		i++
	}

	event.Msg(text)
}

// ZerologLevel converts a LogLevel to the corresponding zerolog level.
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
