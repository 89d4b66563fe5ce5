// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/state"
)

// WorldState models the public state of a rollup in tests, mainly to define
// the pre and post states of processor scenarios. Zero-valued slots are
// treated as absent.
type WorldState map[rollup.Address]Storage

// Equal is true if both states hold the same non-zero slots.
func (s WorldState) Equal(other WorldState) bool {
	return maps.Equal(s.entries(), other.entries())
}

func (s WorldState) Clone() WorldState {
	if s == nil {
		return nil
	}
	res := make(WorldState, len(s))
	for address, storage := range s {
		res[address] = storage.Clone()
	}
	return res
}

// Diff lists the slots holding different values in the two states, sorted
// by contract and slot.
func (s WorldState) Diff(other WorldState) []string {
	a, b := s.entries(), other.entries()
	var res []string
	for _, key := range differingKeys(a, b) {
		res = append(res, fmt.Sprintf("%v/different value for slot %v: %v != %v",
			key.contract, key.slot, a[key], b[key]))
	}
	return res
}

// Apply updates the world state by the given writes, in order.
func (s WorldState) Apply(writes []rollup.WriteRecord) {
	for _, write := range writes {
		storage := s[write.Contract]
		if storage == nil {
			storage = Storage{}
			s[write.Contract] = storage
		}
		storage[write.Slot] = write.Value
	}
}

// NewTree creates a public state tree holding the non-zero slots of the
// world state.
func (s WorldState) NewTree() (*state.MemoryTree, error) {
	writes := make([]rollup.WriteRecord, 0)
	for key, value := range s.entries() {
		writes = append(writes, rollup.WriteRecord{
			Contract: key.contract,
			Slot:     key.slot,
			Value:    value,
			Sequence: uint64(len(writes)),
		})
	}
	tree := state.NewMemoryTree()
	if err := tree.Apply(writes); err != nil {
		return nil, err
	}
	return tree, nil
}

type entryKey struct {
	contract rollup.Address
	slot     rollup.Field
}

func (k entryKey) compare(o entryKey) int {
	if c := slices.Compare(k.contract[:], o.contract[:]); c != 0 {
		return c
	}
	return slices.Compare(k.slot[:], o.slot[:])
}

// entries flattens the state into its non-zero slots.
func (s WorldState) entries() map[entryKey]rollup.Field {
	res := map[entryKey]rollup.Field{}
	for address, storage := range s {
		for slot, value := range storage {
			if !value.IsZero() {
				res[entryKey{address, slot}] = value
			}
		}
	}
	return res
}

// differingKeys returns the sorted keys of entries differing in a and b.
func differingKeys(a, b map[entryKey]rollup.Field) []entryKey {
	var res []entryKey
	for key, value := range a {
		if b[key] != value {
			res = append(res, key)
		}
	}
	for key := range b {
		if _, found := a[key]; !found {
			res = append(res, key)
		}
	}
	slices.SortFunc(res, entryKey.compare)
	return res
}

// Storage is the public storage of a single contract.
type Storage map[rollup.Field]rollup.Field

func (s Storage) Clone() Storage {
	return maps.Clone(s)
}
