// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package enqueued

import (
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
)

// GasMeter tracks the gas budget of a single phase.
type GasMeter struct {
	available rollup.Gas
	used      rollup.Gas
}

func NewGasMeter(available rollup.Gas) *GasMeter {
	return &GasMeter{available: available}
}

// Available returns the remaining budget.
func (m *GasMeter) Available() rollup.Gas {
	return m.available
}

// Used returns the gas charged so far.
func (m *GasMeter) Used() rollup.Gas {
	return m.used
}

// Allocate returns the gas to be offered to the next call. The computation
// gas is capped by the given per-call maximum, unless it is zero.
func (m *GasMeter) Allocate(maxComputationPerCall uint64) rollup.Gas {
	res := m.available
	if maxComputationPerCall > 0 && res.Computation > maxComputationPerCall {
		res.Computation = maxComputationPerCall
	}
	return res
}

// Charge consumes the given amount of gas from the budget. If the budget
// is insufficient, ErrOutOfGas is returned and the meter is not modified.
func (m *GasMeter) Charge(consumed rollup.Gas) error {
	if !consumed.Fits(m.available) {
		return fmt.Errorf("%w: charging %v with %v available", rollup.ErrOutOfGas, consumed, m.available)
	}
	m.available = m.available.Sub(consumed)
	m.used = m.used.Add(consumed)
	return nil
}
