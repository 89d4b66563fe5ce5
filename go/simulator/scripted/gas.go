// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package scripted

import (
	"math"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
)

const (
	BaseGas      = 3
	LoadGas      = 100
	StoreGas     = 200
	StoreDataGas = 64 // a leaf slot and a value published to L1
	LogGas       = 50
	LogDataGas   = 64
	CallGas      = 500

	// MaxCallDepth limits the nesting of calls.
	MaxCallDepth = 16
)

// getStaticGas returns the gas charged for executing the given instruction,
// not including the gas burned by BURN instructions.
func getStaticGas(instruction *Instruction) rollup.Gas {
	switch instruction.Op {
	case LOAD:
		return rollup.Gas{Computation: LoadGas}
	case STORE, WRITE:
		return rollup.Gas{Computation: StoreGas, DataAvailability: StoreDataGas}
	case LOG:
		return rollup.Gas{Computation: LogGas, DataAvailability: LogDataGas}
	case BURN:
		gas, overflow := instruction.Gas.AddChecked(rollup.Gas{Computation: BaseGas})
		if overflow {
			return rollup.Gas{Computation: math.MaxUint64, DataAvailability: math.MaxUint64}
		}
		return gas
	case CALL:
		return rollup.Gas{Computation: CallGas}
	}
	return rollup.Gas{Computation: BaseGas}
}
