// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	leafPrefix   = []byte("l")
	numLeavesKey = []byte("n")
)

// leafEncodingSize is the size of an encoded leaf: the value followed by the
// big-endian index.
const leafEncodingSize = 32 + 8

// LevelDBTree is a public data tree persisted in a LevelDB database. Reads
// and snapshots are safe for concurrent use, updates are serialized.
type LevelDBTree struct {
	db    *leveldb.DB
	mutex sync.Mutex
}

// NewLevelDBTree opens or creates a tree in the given directory. If the path
// is empty, an in-memory database is used.
func NewLevelDBTree(path string) (*LevelDBTree, error) {
	var db *leveldb.DB
	var err error
	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	return &LevelDBTree{db: db}, nil
}

func (t *LevelDBTree) GetLeafValue(contract rollup.Address, slot rollup.Field) (rollup.Field, error) {
	leaf, _, err := getLeaf(t.db, ComputeLeafSlot(contract, slot))
	return leaf.Value, err
}

func (t *LevelDBTree) GetLeafPreimage(leafSlot rollup.Field) (rollup.LeafPreimage, bool, error) {
	return getLeaf(t.db, leafSlot)
}

func (t *LevelDBTree) NumLeaves() (uint64, error) {
	return getNumLeaves(t.db)
}

func (t *LevelDBTree) Apply(writes []rollup.WriteRecord) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	numLeaves, err := getNumLeaves(t.db)
	if err != nil {
		return err
	}

	pending := map[rollup.Field]rollup.LeafPreimage{}
	for _, write := range writes {
		leafSlot := ComputeLeafSlot(write.Contract, write.Slot)
		leaf, found := pending[leafSlot]
		if !found {
			leaf, found, err = getLeaf(t.db, leafSlot)
			if err != nil {
				return err
			}
		}
		if !found {
			leaf = rollup.LeafPreimage{Index: numLeaves, LeafSlot: leafSlot}
			numLeaves++
		}
		leaf.Value = write.Value
		pending[leafSlot] = leaf
	}

	batch := new(leveldb.Batch)
	for leafSlot, leaf := range pending {
		batch.Put(leafKey(leafSlot), encodeLeaf(leaf))
	}
	batch.Put(numLeavesKey, binary.BigEndian.AppendUint64(nil, numLeaves))
	if err := t.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to apply %d writes: %w", len(writes), err)
	}
	return nil
}

// Snapshot returns a read-only view of the current content of the tree. The
// snapshot must be released once it is no longer needed.
func (t *LevelDBTree) Snapshot() (*LevelDBSnapshot, error) {
	snapshot, err := t.db.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &LevelDBSnapshot{snapshot: snapshot}, nil
}

func (t *LevelDBTree) Close() error {
	return t.db.Close()
}

// LevelDBSnapshot is an immutable view of a LevelDBTree.
type LevelDBSnapshot struct {
	snapshot *leveldb.Snapshot
}

func (s *LevelDBSnapshot) GetLeafValue(contract rollup.Address, slot rollup.Field) (rollup.Field, error) {
	leaf, _, err := getLeaf(s.snapshot, ComputeLeafSlot(contract, slot))
	return leaf.Value, err
}

func (s *LevelDBSnapshot) GetLeafPreimage(leafSlot rollup.Field) (rollup.LeafPreimage, bool, error) {
	return getLeaf(s.snapshot, leafSlot)
}

func (s *LevelDBSnapshot) NumLeaves() (uint64, error) {
	return getNumLeaves(s.snapshot)
}

func (s *LevelDBSnapshot) Release() {
	s.snapshot.Release()
}

// reader is implemented by leveldb.DB and leveldb.Snapshot.
type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
}

func getLeaf(db reader, leafSlot rollup.Field) (rollup.LeafPreimage, bool, error) {
	data, err := db.Get(leafKey(leafSlot), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return rollup.LeafPreimage{}, false, nil
	}
	if err != nil {
		return rollup.LeafPreimage{}, false, fmt.Errorf("failed to read leaf %v: %w", leafSlot, err)
	}
	if len(data) != leafEncodingSize {
		return rollup.LeafPreimage{}, false, fmt.Errorf("invalid encoding of leaf %v: %d bytes", leafSlot, len(data))
	}
	leaf := rollup.LeafPreimage{
		Index:    binary.BigEndian.Uint64(data[32:]),
		LeafSlot: leafSlot,
	}
	copy(leaf.Value[:], data[:32])
	return leaf, true, nil
}

func getNumLeaves(db reader) (uint64, error) {
	data, err := db.Get(numLeavesKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read number of leaves: %w", err)
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid encoding of number of leaves: %d bytes", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func leafKey(leafSlot rollup.Field) []byte {
	return append(append(make([]byte, 0, len(leafPrefix)+len(leafSlot)), leafPrefix...), leafSlot[:]...)
}

func encodeLeaf(leaf rollup.LeafPreimage) []byte {
	res := make([]byte, 0, leafEncodingSize)
	res = append(res, leaf.Value[:]...)
	return binary.BigEndian.AppendUint64(res, leaf.Index)
}
