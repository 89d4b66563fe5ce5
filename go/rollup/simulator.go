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

import (
	"context"
	"fmt"
)

//go:generate mockgen -source simulator.go -destination simulator_mock.go -package rollup

// CallSimulator is a component capable of executing the logic of a single
// enqueued public call. It is the part of the rollup's public VM that runs
// the byte-code of a function, including any nested calls it issues.
// To obtain a CallSimulator instance, client code should use NewSimulator()
// provided by the registry file in this package.
type CallSimulator interface {
	// Simulate runs the given call against the provided state. All state
	// accesses must be conducted through the state manager. The available
	// gas is the maximum the call may consume. The transaction fee is only
	// known, and thus non-zero, for teardown calls.
	// Reverts, including running out of gas, are reported through the
	// result's status. The error is only non-nil if the simulator failed to
	// conduct the simulation, in which case the result is undefined.
	// Simulators are required to be thread-safe.
	Simulate(
		ctx context.Context,
		state StateManager,
		request CallRequest,
		globals GlobalVariables,
		availableGas Gas,
		transactionFee Field,
	) (CallResult, error)
}

// StateManager provides access to the public state for the duration of the
// processing of a single transaction. All modifications are buffered in the
// manager and may be rolled back using checkpoints.
type StateManager interface {
	// ReadStorage returns the current value of the given slot.
	ReadStorage(contract Address, slot Field) (Field, error)
	// WriteStorage updates the value of the given slot.
	WriteStorage(contract Address, slot Field, value Field)
	// EmitLog records a log, subject to the same rollback rules as writes.
	EmitLog(Log)

	// Checkpoint opens a new scope of modifications.
	Checkpoint() Checkpoint
	// Commit closes the given scope, keeping its modifications. Scopes
	// must be closed in the reverse order of their opening.
	Commit(Checkpoint) error
	// Revert closes the given scope, discarding its modifications. Scopes
	// must be closed in the reverse order of their opening.
	Revert(Checkpoint) error
}

// Checkpoint is a handle for a scope of modifications in a StateManager.
type Checkpoint int

// CallStatus is the tagged outcome of a simulated call.
type CallStatus int

const (
	CallSucceeded CallStatus = iota
	CallReverted
	CallOutOfGas
)

func (s CallStatus) String() string {
	switch s {
	case CallSucceeded:
		return "succeeded"
	case CallReverted:
		return "reverted"
	case CallOutOfGas:
		return "out_of_gas"
	}
	return fmt.Sprintf("CallStatus(%d)", int(s))
}

// Failed is true for reverted calls and calls running out of gas.
func (s CallStatus) Failed() bool {
	return s != CallSucceeded
}

// CallResult summarizes the outcome of a simulated call.
type CallResult struct {
	Status       CallStatus
	RevertReason error         // optional description of a revert
	GasLeft      Gas           // the part of the available gas not consumed
	Output       []Field       // the values returned by the call
	Logs         []Log         // the logs emitted by the call, for information only
	NestedCalls  []CallRequest // the calls issued by the call
}
