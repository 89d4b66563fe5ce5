// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package scripted provides a CallSimulator executing simple scripted
// programs instead of contract byte-code. It serves as a reference
// implementation for tests and the driver.
package scripted

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/holiman/uint256"
)

const (
	// ErrExecutionReverted is matched by the revert reasons of all calls
	// reverted by a program.
	ErrExecutionReverted = rollup.ConstError("execution reverted")
)

func init() {
	if err := rollup.RegisterSimulatorFactory("scripted", newSimulatorFromConfig); err != nil {
		panic(err)
	}
}

func newSimulatorFromConfig(config any) (rollup.CallSimulator, error) {
	switch c := config.(type) {
	case nil:
		return NewSimulator(nil), nil
	case Contracts:
		return NewSimulator(c), nil
	}
	return nil, fmt.Errorf("invalid configuration for scripted simulator: %T", config)
}

// Simulator runs calls by executing the programs of the called contracts.
// The contracts must not be modified after the simulator was created.
type Simulator struct {
	contracts Contracts
}

func NewSimulator(contracts Contracts) *Simulator {
	if contracts == nil {
		contracts = Contracts{}
	}
	return &Simulator{contracts: contracts}
}

func (s *Simulator) Simulate(
	ctx context.Context,
	state rollup.StateManager,
	request rollup.CallRequest,
	globals rollup.GlobalVariables,
	availableGas rollup.Gas,
	transactionFee rollup.Field,
) (rollup.CallResult, error) {
	e := &execution{
		ctx:       ctx,
		contracts: s.contracts,
		state:     state,
		globals:   globals,
		fee:       transactionFee,
		gas:       availableGas,
	}
	output, err := e.call(request, 0)
	switch {
	case err == nil:
		return rollup.CallResult{
			Status:      rollup.CallSucceeded,
			GasLeft:     e.gas,
			Output:      output,
			Logs:        e.logs,
			NestedCalls: e.nested,
		}, nil
	case errors.Is(err, rollup.ErrOutOfGas):
		return rollup.CallResult{
			Status:       rollup.CallOutOfGas,
			RevertReason: err,
			NestedCalls:  e.nested,
		}, nil
	case errors.Is(err, ErrExecutionReverted):
		return rollup.CallResult{
			Status:       rollup.CallReverted,
			RevertReason: err,
			GasLeft:      e.gas,
			NestedCalls:  e.nested,
		}, nil
	}
	return rollup.CallResult{}, err
}

// execution is the state of a single simulated enqueued call, shared by
// all nested calls it issues.
type execution struct {
	ctx       context.Context
	contracts Contracts
	state     rollup.StateManager
	globals   rollup.GlobalVariables
	fee       rollup.Field
	gas       rollup.Gas
	logs      []rollup.Log
	nested    []rollup.CallRequest
}

func reverted(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExecutionReverted, fmt.Sprintf(format, args...))
}

func (e *execution) charge(gas rollup.Gas) error {
	if !gas.Fits(e.gas) {
		e.gas = rollup.Gas{}
		return fmt.Errorf("%w: %v required", rollup.ErrOutOfGas, gas)
	}
	e.gas = e.gas.Sub(gas)
	return nil
}

func (e *execution) call(request rollup.CallRequest, depth int) ([]rollup.Field, error) {
	if depth > MaxCallDepth {
		return nil, reverted("max call depth exceeded")
	}
	program, found := e.contracts[request.ContractAddress][request.FunctionSelector]
	if !found {
		return nil, reverted("unknown function %v of contract %v", request.FunctionSelector, request.ContractAddress)
	}

	var acc uint256.Int
	for pc := range program {
		if err := e.ctx.Err(); err != nil {
			return nil, err
		}
		instruction := &program[pc]
		if err := e.charge(getStaticGas(instruction)); err != nil {
			return nil, err
		}

		switch instruction.Op {
		case LOAD:
			value, err := e.state.ReadStorage(request.ContractAddress, instruction.Slot)
			if err != nil {
				return nil, err
			}
			acc.SetBytes32(value[:])
		case STORE, WRITE:
			if request.IsStaticCall {
				return nil, reverted("storage write in static call")
			}
			value := instruction.Value
			if instruction.Op == STORE {
				value = rollup.FieldFromUint256(&acc)
			}
			e.state.WriteStorage(request.ContractAddress, instruction.Slot, value)
		case SET:
			acc.SetBytes32(instruction.Value[:])
		case ADD:
			acc.Add(&acc, instruction.Value.ToUint256())
		case SUB:
			value := instruction.Value.ToUint256()
			if acc.Lt(value) {
				return nil, reverted("underflow at pc %d", pc)
			}
			acc.Sub(&acc, value)
		case ARG:
			acc.Clear()
			if index := instruction.Value.ToUint256(); index.IsUint64() && index.Uint64() < uint64(len(request.Args)) {
				arg := request.Args[index.Uint64()]
				acc.SetBytes32(arg[:])
			}
		case FEE:
			acc.SetBytes32(e.fee[:])
		case BLOCK:
			acc.SetUint64(e.globals.BlockNumber)
		case LOG:
			log := rollup.Log{
				Contract: request.ContractAddress,
				Fields:   []rollup.Field{instruction.Value, rollup.FieldFromUint256(&acc)},
			}
			e.state.EmitLog(log)
			e.logs = append(e.logs, log)
		case BURN:
			// the burned gas is part of the static costs
		case CALL:
			output, err := e.nestedCall(rollup.CallRequest{
				ContractAddress:  instruction.Target,
				Sender:           request.ContractAddress,
				FunctionSelector: instruction.Selector,
				Args:             []rollup.Field{rollup.FieldFromUint256(&acc)},
				IsStaticCall:     request.IsStaticCall,
			}, depth+1)
			if err != nil {
				return nil, err
			}
			acc.Clear()
			if len(output) > 0 {
				acc.SetBytes32(output[0][:])
			}
		case REVERT:
			return nil, reverted("%s", instruction.Reason)
		case REVERTIF:
			if acc.Eq(instruction.Value.ToUint256()) {
				return nil, reverted("%s", instruction.Reason)
			}
		case RETURN:
			return []rollup.Field{rollup.FieldFromUint256(&acc)}, nil
		default:
			return nil, reverted("invalid instruction %v at pc %d", instruction.Op, pc)
		}
	}
	return nil, nil
}

// nestedCall runs the given call in its own checkpoint. A failing nested
// call makes the calling program fail as well.
func (e *execution) nestedCall(request rollup.CallRequest, depth int) ([]rollup.Field, error) {
	e.nested = append(e.nested, request)
	numLogs := len(e.logs)
	checkpoint := e.state.Checkpoint()
	output, err := e.call(request, depth)
	if err != nil {
		e.logs = e.logs[:numLogs]
		if revertErr := e.state.Revert(checkpoint); revertErr != nil {
			return nil, revertErr
		}
		return nil, err
	}
	if err := e.state.Commit(checkpoint); err != nil {
		return nil, err
	}
	return output, nil
}
