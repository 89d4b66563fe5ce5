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
	"context"
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/ethereum/go-ethereum/log"
)

// phaseExecutor runs the enqueued calls of a single phase.
type phaseExecutor struct {
	simulator     rollup.CallSimulator
	globals       rollup.GlobalVariables
	maxGasPerCall uint64
	logger        log.Logger
	metrics       *metrics
}

// run simulates the given calls in order. Every call runs in its own
// checkpoint of the given state, which is reverted if the call fails. The
// first failing call ends the phase and its reason becomes the phase's
// revert reason. Any returned error is fatal for the transaction.
func (e *phaseExecutor) run(
	ctx context.Context,
	state rollup.StateManager,
	phase rollup.Phase,
	calls []rollup.CallRequest,
	meter *GasMeter,
	transactionFee rollup.Field,
) (rollup.PhaseResult, error) {
	res := rollup.PhaseResult{Phase: phase}
	for i, call := range calls {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%v phase interrupted before call %d: %w", phase, i, err)
		}

		checkpoint := state.Checkpoint()
		allocated := meter.Allocate(e.maxGasPerCall)
		result, err := e.simulator.Simulate(ctx, state, call, e.globals, allocated, transactionFee)
		if err != nil {
			return res, fmt.Errorf("failed to simulate call %d of %v phase: %w", i, phase, err)
		}

		used := allocated
		if result.Status != rollup.CallOutOfGas {
			if !result.GasLeft.Fits(allocated) {
				return res, fmt.Errorf("%w: call %d of %v phase reports %v left of %v",
					ErrInvalidGasLeft, i, phase, result.GasLeft, allocated)
			}
			used = allocated.Sub(result.GasLeft)
		}
		if err := meter.Charge(used); err != nil {
			return res, err
		}

		callResult := rollup.EnqueuedCallResult{
			Request:     call,
			Status:      result.Status,
			GasUsed:     used,
			NestedCalls: result.NestedCalls,
		}
		e.metrics.recordCall(phase, result.Status)

		if result.Status.Failed() {
			callResult.RevertReason = revertReason(result)
			res.Calls = append(res.Calls, callResult)
			res.RevertReason = callResult.RevertReason
			res.GasUsed = meter.Used()
			e.logger.Debug("Enqueued call failed", "phase", phase, "call", i,
				"contract", call.ContractAddress, "status", result.Status, "reason", callResult.RevertReason)
			if err := state.Revert(checkpoint); err != nil {
				return res, err
			}
			return res, nil
		}

		res.Calls = append(res.Calls, callResult)
		if err := state.Commit(checkpoint); err != nil {
			return res, err
		}
	}
	res.GasUsed = meter.Used()
	return res, nil
}

// revertReason derives the reason of a failed call. Calls running out of
// gas always report a reason matching rollup.ErrOutOfGas, other failures
// without a reason report rollup.ErrCallReverted.
func revertReason(result rollup.CallResult) error {
	reason := result.RevertReason
	if result.Status == rollup.CallOutOfGas {
		switch {
		case reason == nil:
			return rollup.ErrOutOfGas
		case !errors.Is(reason, rollup.ErrOutOfGas):
			return fmt.Errorf("%w: %w", rollup.ErrOutOfGas, reason)
		}
		return reason
	}
	if reason == nil {
		return rollup.ErrCallReverted
	}
	return reason
}
