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
	"slices"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
)

func TestWorldState_Equal(t *testing.T) {

	tests := map[string]struct {
		a, b WorldState
	}{
		"both_nil": {},
		"left_hand_side_nil": {
			b: WorldState{},
		},
		"empty_storages_are_ignored": {
			a: WorldState{
				rollup.AddressFromUint64(1): Storage{},
			},
			b: WorldState{
				rollup.AddressFromUint64(2): nil,
			},
		},
		"zero_slots_are_ignored": {
			a: WorldState{
				rollup.AddressFromUint64(1): Storage{rollup.NewField(1): {}},
			},
			b: WorldState{},
		},
		"same_values": {
			a: WorldState{
				rollup.AddressFromUint64(1): Storage{rollup.NewField(1): rollup.NewField(2)},
			},
			b: WorldState{
				rollup.AddressFromUint64(1): Storage{rollup.NewField(1): rollup.NewField(2), rollup.NewField(3): {}},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if !test.a.Equal(test.b) {
				t.Errorf("world states %v and %v are expected to be equivalent, but they are not", test.a, test.b)
			}
		})
	}
}

func TestWorldState_NotEqual(t *testing.T) {
	a := WorldState{rollup.AddressFromUint64(1): Storage{rollup.NewField(1): rollup.NewField(2)}}
	tests := map[string]WorldState{
		"missing_contract": {},
		"other_contract":   {rollup.AddressFromUint64(2): Storage{rollup.NewField(1): rollup.NewField(2)}},
		"other_value":      {rollup.AddressFromUint64(1): Storage{rollup.NewField(1): rollup.NewField(3)}},
		"other_slot":       {rollup.AddressFromUint64(1): Storage{rollup.NewField(2): rollup.NewField(2)}},
	}
	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			if a.Equal(b) || b.Equal(a) {
				t.Errorf("world states %v and %v are expected to differ", a, b)
			}
		})
	}
}

func TestWorldState_ClonesAreIndependent(t *testing.T) {
	addr := rollup.AddressFromUint64(1)
	slot := rollup.NewField(1)
	original := WorldState{
		addr: Storage{slot: rollup.NewField(1)},
	}

	clone := original.Clone()
	if !original.Equal(clone) {
		t.Errorf("expected world state %v and its clone %v to be equal", original, clone)
	}
	clone[addr][slot] = rollup.NewField(2)

	if original[addr][slot] != rollup.NewField(1) {
		t.Errorf("expected the original storage to be independent from its clone")
	}
	if WorldState(nil).Clone() != nil {
		t.Errorf("clone of nil world state should be nil")
	}
}

func TestWorldState_Diff(t *testing.T) {
	addr := rollup.AddressFromUint64(1)
	slot := rollup.NewField(1)
	tests := map[string]struct {
		a, b     WorldState
		expected []string
	}{
		"both_nil": {},
		"identical": {
			a: WorldState{addr: Storage{slot: rollup.NewField(1)}},
			b: WorldState{addr: Storage{slot: rollup.NewField(1)}},
		},
		"different_values": {
			a: WorldState{addr: Storage{slot: rollup.NewField(1)}},
			b: WorldState{addr: Storage{slot: rollup.NewField(2)}},
			expected: []string{
				fmt.Sprintf("%v/different value for slot %v: %v != %v", addr, slot, rollup.NewField(1), rollup.NewField(2)),
			},
		},
		"extra_contract": {
			a: WorldState{},
			b: WorldState{addr: Storage{slot: rollup.NewField(2)}},
			expected: []string{
				fmt.Sprintf("%v/different value for slot %v: %v != %v", addr, slot, rollup.Field{}, rollup.NewField(2)),
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			diffs := test.a.Diff(test.b)
			slices.Sort(test.expected)
			want := strings.Join(test.expected, ",")
			slices.Sort(diffs)
			got := strings.Join(diffs, ",")

			if want != got {
				t.Errorf("expected diffs [%v], but got [%v]", want, got)
			}
		})
	}
}

func TestWorldState_ApplyOverwritesInOrder(t *testing.T) {
	addr := rollup.AddressFromUint64(1)
	slot := rollup.NewField(1)
	state := WorldState{}
	state.Apply([]rollup.WriteRecord{
		{Contract: addr, Slot: slot, Value: rollup.NewField(1)},
		{Contract: addr, Slot: slot, Value: rollup.NewField(2)},
		{Contract: addr, Slot: rollup.NewField(2), Value: rollup.NewField(3)},
	})
	want := WorldState{addr: Storage{slot: rollup.NewField(2), rollup.NewField(2): rollup.NewField(3)}}
	if !want.Equal(state) {
		t.Errorf("unexpected world state: %v", strings.Join(state.Diff(want), ", "))
	}
}

func TestWorldState_NewTreeContainsNonZeroSlots(t *testing.T) {
	addr := rollup.AddressFromUint64(1)
	world := WorldState{addr: Storage{
		rollup.NewField(1): rollup.NewField(10),
		rollup.NewField(2): {},
	}}
	tree, err := world.NewTree()
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	if got, err := tree.GetLeafValue(addr, rollup.NewField(1)); err != nil || got != rollup.NewField(10) {
		t.Errorf("unexpected leaf value %v, err %v", got, err)
	}
	if got, err := tree.NumLeaves(); err != nil || got != 1 {
		t.Errorf("unexpected number of leaves %d, err %v", got, err)
	}
}

func TestWorldState_DiffIsSortedAndIgnoresZeroSlots(t *testing.T) {
	first := rollup.AddressFromUint64(1)
	second := rollup.AddressFromUint64(2)
	a := WorldState{
		second: Storage{rollup.NewField(1): rollup.NewField(1)},
		first:  Storage{rollup.NewField(2): rollup.NewField(1), rollup.NewField(3): {}},
	}
	b := WorldState{
		first: Storage{rollup.NewField(1): rollup.NewField(1), rollup.NewField(2): rollup.NewField(1)},
	}
	want := []string{
		fmt.Sprintf("%v/different value for slot %v: %v != %v", first, rollup.NewField(1), rollup.Field{}, rollup.NewField(1)),
		fmt.Sprintf("%v/different value for slot %v: %v != %v", second, rollup.NewField(1), rollup.NewField(1), rollup.Field{}),
	}
	if got := a.Diff(b); !slices.Equal(want, got) {
		t.Errorf("unexpected diffs, wanted %v, got %v", want, got)
	}
}
