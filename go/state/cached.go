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
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedTree is a read-through cache in front of an immutable tree, for
// instance a snapshot shared by all transactions of a block. The wrapped
// tree must index its leaves using ComputeLeafSlot.
type CachedTree struct {
	tree  rollup.PublicStateTree
	cache *lru.Cache[rollup.Field, cachedLeaf]
}

type cachedLeaf struct {
	leaf  rollup.LeafPreimage
	found bool
}

// NewCachedTree wraps the given tree by a cache retaining up to the given
// number of leaves.
func NewCachedTree(tree rollup.PublicStateTree, size int) (*CachedTree, error) {
	cache, err := lru.New[rollup.Field, cachedLeaf](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create leaf cache: %w", err)
	}
	return &CachedTree{tree: tree, cache: cache}, nil
}

func (t *CachedTree) GetLeafValue(contract rollup.Address, slot rollup.Field) (rollup.Field, error) {
	leaf, _, err := t.GetLeafPreimage(ComputeLeafSlot(contract, slot))
	return leaf.Value, err
}

func (t *CachedTree) GetLeafPreimage(leafSlot rollup.Field) (rollup.LeafPreimage, bool, error) {
	if entry, found := t.cache.Get(leafSlot); found {
		return entry.leaf, entry.found, nil
	}
	leaf, found, err := t.tree.GetLeafPreimage(leafSlot)
	if err != nil {
		return rollup.LeafPreimage{}, false, err
	}
	t.cache.Add(leafSlot, cachedLeaf{leaf: leaf, found: found})
	return leaf, found, nil
}
