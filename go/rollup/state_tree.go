// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rollup

//go:generate mockgen -source state_tree.go -destination state_tree_mock.go -package rollup

// PublicStateTree is a read-only view on the public data tree of the rollup.
// Implementations handed to a Processor must not change while a transaction
// is processed, so that concurrently processed transactions never observe
// each other's modifications.
type PublicStateTree interface {
	// GetLeafValue returns the value stored in the given slot of the given
	// contract. Slots never written hold the value zero.
	GetLeafValue(contract Address, slot Field) (Field, error)

	// GetLeafPreimage returns the leaf stored under the given leaf slot, as
	// required for building membership hints. The boolean result is false
	// if no such leaf exists.
	GetLeafPreimage(leafSlot Field) (LeafPreimage, bool, error)
}

// LeafPreimage is a leaf of the public data tree.
type LeafPreimage struct {
	Index    uint64 // position of the leaf in the tree
	LeafSlot Field  // the slot identifying the leaf
	Value    Field  // the value stored in the leaf
}
