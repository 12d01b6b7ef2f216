/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package steplog is a durable, append-only log of the steps of a test run,
// written as they are recorded so that a run which crashes or times out can
// still be inspected afterwards.
package steplog

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/wal"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/hyperledger-labs/difftest/pkg/results"
)

// Entry is the persisted summary of one step.
type Entry struct {
	Iteration  int
	Kind       string
	Complexity int
	Mixed      bool
	Executed   bool
	Succeeded  bool
	Args       string
	Failure    string
}

// EntryOf summarizes a step.
func EntryOf(step results.Step) *Entry {
	kind := step.TestKind()
	e := &Entry{
		Iteration:  step.Number(),
		Kind:       kind.Kind.String(),
		Complexity: kind.Complexity,
		Mixed:      kind.Mixed,
		Executed:   step.Executed(),
	}

	switch s := step.(type) {
	case *results.ExecutedStep:
		e.Succeeded = s.Succeeded
		if s.RefOutput != nil {
			e.Args = fmt.Sprintf("%v", s.RefOutput.Args)
		}
		if s.VerifyErr != nil {
			e.Failure = s.VerifyErr.Error()
		}
	case *results.DiscardedStep:
		e.Args = fmt.Sprintf("%v", s.Args)
	}

	return e
}

func (e *Entry) String() string {
	verdict := "discarded"
	if e.Executed {
		verdict = "ok"
		if !e.Succeeded {
			verdict = "FAILED: " + e.Failure
		}
	}
	return fmt.Sprintf("#%d %s complexity=%d mixed=%t args=%s %s", e.Iteration, e.Kind, e.Complexity, e.Mixed, e.Args, verdict)
}

func (e *Entry) marshal() ([]byte, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"iteration":  e.Iteration,
		"kind":       e.Kind,
		"complexity": e.Complexity,
		"mixed":      e.Mixed,
		"executed":   e.Executed,
		"succeeded":  e.Succeeded,
		"args":       e.Args,
		"failure":    e.Failure,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not convert entry")
	}
	return proto.Marshal(s)
}

func unmarshal(data []byte) (*Entry, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	f := s.GetFields()
	return &Entry{
		Iteration:  int(f["iteration"].GetNumberValue()),
		Kind:       f["kind"].GetStringValue(),
		Complexity: int(f["complexity"].GetNumberValue()),
		Mixed:      f["mixed"].GetBoolValue(),
		Executed:   f["executed"].GetBoolValue(),
		Succeeded:  f["succeeded"].GetBoolValue(),
		Args:       f["args"].GetStringValue(),
		Failure:    f["failure"].GetStringValue(),
	}, nil
}

// Log appends entries to a tidwall/wal directory. It is safe for concurrent use.
type Log struct {
	mutex sync.Mutex
	log   *wal.Log

	// Index of the next entry, counting from 0.
	// The underlying log counts from 1, so its last index is our next one.
	idx uint64
}

func Open(path string) (*Log, error) {
	log, err := wal.Open(path, &wal.Options{
		NoSync: true,
		NoCopy: true,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not open step log")
	}

	idx, err := log.LastIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "failed obtaining last step log index")
	}

	return &Log{
		log: log,
		idx: idx,
	}, nil
}

func (l *Log) IsEmpty() (bool, error) {
	firstIndex, err := l.log.FirstIndex()
	if err != nil {
		return false, errors.WithMessage(err, "could not read first index")
	}

	return firstIndex == 0, nil
}

// Append persists an entry. It is only durable after the next Sync.
func (l *Log) Append(e *Entry) error {
	data, err := e.marshal()
	if err != nil {
		return errors.WithMessage(err, "could not marshal")
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := l.log.Write(l.idx+1, data); err != nil {
		return errors.WithMessagef(err, "could not write entry %d", l.idx)
	}
	l.idx++
	return nil
}

// Intercept appends the summary of step, so that a Log can be attached to a test run.
func (l *Log) Intercept(step results.Step) error {
	return l.Append(EntryOf(step))
}

// LoadAll invokes forEach with every entry in the order they were appended.
func (l *Log) LoadAll(forEach func(index uint64, e *Entry)) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	firstIndex, err := l.log.FirstIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read first index")
	}

	if firstIndex == 0 {
		// Log is empty
		return nil
	}

	lastIndex, err := l.log.LastIndex()
	if err != nil {
		return errors.WithMessage(err, "could not read last index")
	}

	for i := firstIndex; i <= lastIndex; i++ {
		data, err := l.log.Read(i)
		if err != nil {
			return errors.WithMessagef(err, "could not read index %d", i)
		}

		e, err := unmarshal(data)
		if err != nil {
			return errors.WithMessage(err, "error decoding to proto, is the step log corrupt?")
		}

		forEach(i-1, e)
	}

	return nil
}

func (l *Log) Sync() error {
	return l.log.Sync()
}

func (l *Log) Close() error {
	return l.log.Close()
}
