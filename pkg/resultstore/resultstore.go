/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resultstore archives the summaries of finished test runs: configuration,
// counts, verdict and failures, keyed by run id. Full step lists are not
// retained; attach a steplog.Log to a run for those.
package resultstore

import (
	"encoding/json"
	"sort"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"

	"github.com/hyperledger-labs/difftest/pkg/status"
)

const runPrefix = "run-"

func runKey(runID string) []byte {
	return []byte(runPrefix + runID)
}

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New("run not found")

type Store struct {
	db *badger.DB
}

// Open opens the store in dirPath, or an in-memory store if dirPath is empty.
func Open(dirPath string) (*Store, error) {
	var badgerOpts badger.Options
	if dirPath == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(dirPath).WithSyncWrites(false).WithTruncate(true)
	}
	db, err := badger.Open(badgerOpts.WithLogger(nil))
	if err != nil {
		return nil, errors.WithMessage(err, "could not open backing db")
	}

	return &Store{
		db: db,
	}, nil
}

// Put stores run under its run id, replacing any run stored under the same id.
func (s *Store) Put(run *status.Run) error {
	if run.RunID == "" {
		return errors.New("run has no id")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return errors.WithMessage(err, "could not marshal run")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(run.RunID), data)
	})
}

func (s *Store) Get(runID string) (*status.Run, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if err != nil {
			return err
		}

		valCopy, err = item.ValueCopy(nil)
		return err
	})

	if err == badger.ErrKeyNotFound {
		return nil, errors.WithMessagef(ErrNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, err
	}

	run := &status.Run{}
	if err := json.Unmarshal(valCopy, run); err != nil {
		return nil, errors.WithMessagef(err, "could not unmarshal run %s", runID)
	}
	return run, nil
}

// List returns the stored runs of question, or of all questions if question is empty,
// oldest first.
func (s *Store) List(question string) ([]*status.Run, error) {
	var runs []*status.Run
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(runPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				run := &status.Run{}
				if err := json.Unmarshal(val, run); err != nil {
					return errors.WithMessagef(err, "could not unmarshal %s", it.Item().Key())
				}
				if question == "" || run.Question == question {
					runs = append(runs, run)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})
	return runs, nil
}

func (s *Store) Delete(runID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(runKey(runID))
	})
}

func (s *Store) Sync() error {
	return s.db.Sync()
}

func (s *Store) Close() error {
	return s.db.Close()
}
