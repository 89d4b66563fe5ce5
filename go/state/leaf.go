// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides implementations of the public data tree.
//
// All trees index leaves by their leaf slot, which is derived from the
// contract address and the storage slot. Leaves receive consecutive indices
// in the order they are inserted.
package state

import (
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"golang.org/x/crypto/sha3"
)

// ComputeLeafSlot derives the slot of the leaf holding the given storage
// slot of the given contract.
func ComputeLeafSlot(contract rollup.Address, slot rollup.Field) (res rollup.Field) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(contract[:])
	hasher.Write(slot[:])
	copy(res[:], hasher.Sum(nil))
	return res
}

// Tree is a public data tree that can be updated with the squashed writes
// of processed transactions.
type Tree interface {
	rollup.PublicStateTree

	// Apply stores the values of the given writes in the tree. Writes are
	// applied in order, so later writes to the same slot take precedence.
	Apply(writes []rollup.WriteRecord) error

	// NumLeaves returns the number of leaves in the tree.
	NumLeaves() (uint64, error)
}
