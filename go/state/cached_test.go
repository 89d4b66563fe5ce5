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
	"errors"
	"fmt"
	"testing"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"go.uber.org/mock/gomock"
)

func TestCachedTree_ServesRepeatedReadsFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := rollup.NewMockPublicStateTree(ctrl)

	leafSlot := ComputeLeafSlot(contractA, slot1)
	leaf := rollup.LeafPreimage{Index: 3, LeafSlot: leafSlot, Value: rollup.NewField(12)}
	tree.EXPECT().GetLeafPreimage(leafSlot).Return(leaf, true, nil)

	cached, err := NewCachedTree(tree, 16)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for i := 0; i < 3; i++ {
		value, err := cached.GetLeafValue(contractA, slot1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want, got := leaf.Value, value; want != got {
			t.Errorf("unexpected value, wanted %v, got %v", want, got)
		}
	}
}

func TestCachedTree_CachesMissingLeaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := rollup.NewMockPublicStateTree(ctrl)
	leafSlot := ComputeLeafSlot(contractA, slot1)
	tree.EXPECT().GetLeafPreimage(leafSlot).Return(rollup.LeafPreimage{}, false, nil)

	cached, err := NewCachedTree(tree, 16)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, found, err := cached.GetLeafPreimage(leafSlot); err != nil || found {
			t.Errorf("unexpected result, found %t, err %v", found, err)
		}
	}
}

func TestCachedTree_ErrorsAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := rollup.NewMockPublicStateTree(ctrl)
	leafSlot := ComputeLeafSlot(contractA, slot1)
	injected := fmt.Errorf("injected error")
	gomock.InOrder(
		tree.EXPECT().GetLeafPreimage(leafSlot).Return(rollup.LeafPreimage{}, false, injected),
		tree.EXPECT().GetLeafPreimage(leafSlot).Return(rollup.LeafPreimage{Value: rollup.NewField(1)}, true, nil),
	)

	cached, err := NewCachedTree(tree, 16)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	if _, err := cached.GetLeafValue(contractA, slot1); !errors.Is(err, injected) {
		t.Errorf("unexpected error, wanted %v, got %v", injected, err)
	}
	if got, err := cached.GetLeafValue(contractA, slot1); err != nil || got != rollup.NewField(1) {
		t.Errorf("unexpected result %v, err %v", got, err)
	}
}

func TestCachedTree_MatchesWrappedTree(t *testing.T) {
	tree := NewMemoryTree()
	if err := tree.Apply([]rollup.WriteRecord{write(contractA, slot1, 1), write(contractB, slot2, 2)}); err != nil {
		t.Fatalf("failed to apply writes: %v", err)
	}
	cached, err := NewCachedTree(tree.Snapshot(), 1)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for _, contract := range []rollup.Address{contractA, contractB} {
		for _, slot := range []rollup.Field{slot1, slot2} {
			want, _ := tree.GetLeafValue(contract, slot)
			got, err := cached.GetLeafValue(contract, slot)
			if err != nil || want != got {
				t.Errorf("unexpected value of %v/%v, wanted %v, got %v, err %v", contract, slot, want, got, err)
			}
		}
	}
}

func TestCachedTree_InvalidSizeIsRejected(t *testing.T) {
	if _, err := NewCachedTree(NewMemoryTree(), 0); err == nil {
		t.Errorf("expected an error for an empty cache")
	}
}
