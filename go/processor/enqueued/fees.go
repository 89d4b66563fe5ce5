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
	"github.com/holiman/uint256"
)

// ComputeFeeGasUsed computes the gas a transaction is billed for. The
// teardown phase is billed with its limit, not its actual consumption, since
// the fee must be known before the teardown phase runs.
func ComputeFeeGasUsed(privateGasUsed, setupGasUsed, appLogicGasUsed, teardownGasLimits rollup.Gas) (rollup.Gas, error) {
	res := privateGasUsed
	for _, gas := range []rollup.Gas{setupGasUsed, appLogicGasUsed, teardownGasLimits} {
		var overflow bool
		res, overflow = res.AddChecked(gas)
		if overflow {
			return rollup.Gas{}, fmt.Errorf("%w: fee gas exceeds 64-bit range", ErrFeeOverflow)
		}
	}
	return res, nil
}

// ComputeTransactionFee prices the given amount of gas using the fees of
// the given settings, including the inclusion fee.
func ComputeTransactionFee(settings rollup.GasSettings, feeGasUsed rollup.Gas) (rollup.Field, error) {
	computation, overflow1 := new(uint256.Int).MulOverflow(
		uint256.NewInt(feeGasUsed.Computation),
		settings.FeePerComputationGas.ToUint256(),
	)
	dataAvailability, overflow2 := new(uint256.Int).MulOverflow(
		uint256.NewInt(feeGasUsed.DataAvailability),
		settings.FeePerDataGas.ToUint256(),
	)
	fee, overflow3 := new(uint256.Int).AddOverflow(settings.InclusionFee.ToUint256(), computation)
	fee, overflow4 := fee.AddOverflow(fee, dataAvailability)
	if overflow1 || overflow2 || overflow3 || overflow4 {
		return rollup.Field{}, fmt.Errorf("%w: pricing %v", ErrFeeOverflow, feeGasUsed)
	}
	return rollup.FieldFromUint256(fee), nil
}
