// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// Key prefixes for the backing database.  Assignment records are keyed by
// plot address and undo journals by block height.
var (
	assignmentKeyPrefix = []byte("a/")
	undoKeyPrefix       = []byte("u/")
)

// LevelStore is a Store implementation backed by a leveldb database.  It is
// safe for concurrent use.
type LevelStore struct {
	mtx sync.RWMutex
	db  *leveldb.DB
}

// NewLevelStore opens (creating if necessary) the assignment database at the
// provided path.
func NewLevelStore(dbPath string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(dbPath, &opt.Options{})
	if err != nil {
		return nil, err
	}
	return &LevelStore{db: db}, nil
}

// NewMemStore returns a store backed by an in-memory database.  It is used
// throughout the tests; the daemon always opens a NewLevelStore on disk.
func NewMemStore() *LevelStore {
	// Opening in-memory storage cannot fail.
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic(err)
	}
	return &LevelStore{db: db}
}

// Close releases the backing database.
func (s *LevelStore) Close() error {
	return s.db.Close()
}

func assignmentKey(plotAddr [20]byte) []byte {
	return append(assignmentKeyPrefix[:len(assignmentKeyPrefix):len(assignmentKeyPrefix)],
		plotAddr[:]...)
}

func undoKey(height int64) []byte {
	key := make([]byte, len(undoKeyPrefix)+8)
	copy(key, undoKeyPrefix)
	binary.BigEndian.PutUint64(key[len(undoKeyPrefix):], uint64(height))
	return key
}

// Assignment returns the stored record for the provided plot address or nil
// when there is none.
//
// This function is part of the View interface.
func (s *LevelStore) Assignment(plotAddr [20]byte) (*ForgingAssignment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	serialized, err := s.db.Get(assignmentKey(plotAddr), nil)
	if err != nil {
		if errors.Is(err, ldberrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var record ForgingAssignment
	if err := record.Deserialize(bytes.NewReader(serialized)); err != nil {
		return nil, makeError(ErrStoreCorruption, "assignment record "+
			"failed to decode: "+err.Error())
	}
	return &record, nil
}

// PutAssignment inserts or overwrites the record for its plot address.
//
// This function is part of the Store interface.
func (s *LevelStore) PutAssignment(record *ForgingAssignment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.db.Put(assignmentKey(record.PlotAddress), record.Bytes(), nil)
}

// DeleteAssignment removes the record for the provided plot address.
//
// This function is part of the Store interface.
func (s *LevelStore) DeleteAssignment(plotAddr [20]byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.db.Delete(assignmentKey(plotAddr), nil)
}

// PutUndo stores the undo journal for the block at the provided height.
func (s *LevelStore) PutUndo(height int64, records []UndoRecord) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.db.Put(undoKey(height), SerializeUndoRecords(records), nil)
}

// FetchUndo returns the undo journal stored for the block at the provided
// height, or nil when there is none.
func (s *LevelStore) FetchUndo(height int64) ([]UndoRecord, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	serialized, err := s.db.Get(undoKey(height), nil)
	if err != nil {
		if errors.Is(err, ldberrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return DeserializeUndoRecords(serialized)
}

// DeleteUndo removes the undo journal for the block at the provided height.
func (s *LevelStore) DeleteUndo(height int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.db.Delete(undoKey(height), nil)
}
