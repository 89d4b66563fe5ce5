// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package journal

import (
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"golang.org/x/exp/slices"
)

// Squash reduces the given writes to the last write of every slot. The
// retained writes keep their relative order, so the result is ordered by the
// position of the last write to each slot. Squashing is idempotent.
func Squash(writes []rollup.WriteRecord) []rollup.WriteRecord {
	seen := make(map[slotKey]struct{}, len(writes))
	res := make([]rollup.WriteRecord, 0, len(writes))
	for i := len(writes) - 1; i >= 0; i-- {
		key := slotKey{writes[i].Contract, writes[i].Slot}
		if _, found := seen[key]; found {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, writes[i])
	}
	slices.Reverse(res)
	return res
}
