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
	"sync"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"golang.org/x/exp/maps"
)

// MemoryTree is an in-memory public data tree. It is safe for concurrent use.
type MemoryTree struct {
	mutex  sync.RWMutex
	leaves map[rollup.Field]rollup.LeafPreimage
}

func NewMemoryTree() *MemoryTree {
	return &MemoryTree{leaves: map[rollup.Field]rollup.LeafPreimage{}}
}

func (t *MemoryTree) GetLeafValue(contract rollup.Address, slot rollup.Field) (rollup.Field, error) {
	leaf, _, err := t.GetLeafPreimage(ComputeLeafSlot(contract, slot))
	return leaf.Value, err
}

func (t *MemoryTree) GetLeafPreimage(leafSlot rollup.Field) (rollup.LeafPreimage, bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	leaf, found := t.leaves[leafSlot]
	return leaf, found, nil
}

func (t *MemoryTree) Apply(writes []rollup.WriteRecord) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for _, write := range writes {
		leafSlot := ComputeLeafSlot(write.Contract, write.Slot)
		leaf, found := t.leaves[leafSlot]
		if !found {
			leaf = rollup.LeafPreimage{
				Index:    uint64(len(t.leaves)),
				LeafSlot: leafSlot,
			}
		}
		leaf.Value = write.Value
		t.leaves[leafSlot] = leaf
	}
	return nil
}

func (t *MemoryTree) NumLeaves() (uint64, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return uint64(len(t.leaves)), nil
}

// Snapshot returns an immutable copy of the current content of the tree.
func (t *MemoryTree) Snapshot() rollup.PublicStateTree {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return memorySnapshot(maps.Clone(t.leaves))
}

type memorySnapshot map[rollup.Field]rollup.LeafPreimage

func (s memorySnapshot) GetLeafValue(contract rollup.Address, slot rollup.Field) (rollup.Field, error) {
	return s[ComputeLeafSlot(contract, slot)].Value, nil
}

func (s memorySnapshot) GetLeafPreimage(leafSlot rollup.Field) (rollup.LeafPreimage, bool, error) {
	leaf, found := s[leafSlot]
	return leaf, found, nil
}
