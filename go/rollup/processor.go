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

//go:generate mockgen -source processor.go -destination processor_mock.go -package rollup

// Processor is an interface for a component capable of executing the public
// part of transactions. Implementations run the enqueued public calls of a
// transaction in the setup, app-logic, and teardown phases, meter the gas
// consumed by those, derive the transaction fee, and summarize the resulting
// public state updates.
type Processor interface {
	// Process executes the enqueued public calls of the given transaction.
	// A non-nil error signals that the transaction can not be included in a
	// block; in this case the result is undefined. Reverts of revertible
	// phases are not errors, they are reported through the result.
	Process(context.Context, Transaction) (TxExecutionResult, error)
}

// Transaction summarizes the public part of a transaction as handed over by
// its private execution.
type Transaction struct {
	Hash          Field         // the hash identifying the transaction
	SetupCalls    []CallRequest // non-revertible calls, executed first
	AppLogicCalls []CallRequest // revertible calls, executed after setup
	TeardownCall  *CallRequest  // optional call executed last, usually paying the fee
	GasSettings   GasSettings   // the gas limits and prices agreed to by the sender

	// Gas consumed by the private execution of the transaction.
	NonRevertiblePrivateGasUsed Gas
	RevertiblePrivateGasUsed    Gas

	// Logs emitted by the private execution that survive any public revert.
	NonRevertibleLogs []Log
}

// PrivateGasUsed returns the total gas consumed by the private execution.
// An error is returned if the total can not be represented.
func (t *Transaction) PrivateGasUsed() (Gas, error) {
	res, overflow := t.NonRevertiblePrivateGasUsed.AddChecked(t.RevertiblePrivateGasUsed)
	if overflow {
		return Gas{}, fmt.Errorf("%w: private gas used %v and %v overflow",
			ErrInvalidGasSettings, t.NonRevertiblePrivateGasUsed, t.RevertiblePrivateGasUsed)
	}
	return res, nil
}

// Calls returns the enqueued calls to be executed in the given phase.
func (t *Transaction) Calls(phase Phase) []CallRequest {
	switch phase {
	case PhaseSetup:
		return t.SetupCalls
	case PhaseAppLogic:
		return t.AppLogicCalls
	case PhaseTeardown:
		if t.TeardownCall == nil {
			return nil
		}
		return []CallRequest{*t.TeardownCall}
	}
	return nil
}

// HasPublicCalls is false for transactions that only have a private part.
func (t *Transaction) HasPublicCalls() bool {
	return len(t.SetupCalls) > 0 || len(t.AppLogicCalls) > 0 || t.TeardownCall != nil
}

// CallRequest describes a single enqueued public function call.
type CallRequest struct {
	ContractAddress  Address // the contract whose function is called
	Sender           Address // the caller, zero for calls without a sender
	FunctionSelector Field   // identifies the called function
	Args             []Field // the arguments of the call
	IsStaticCall     bool    // if set, the call must not modify state
}

// GasSettings are the gas limits and prices a transaction's sender agreed to.
type GasSettings struct {
	GasLimits            Gas   // limit for the whole transaction, excluding teardown
	TeardownGasLimits    Gas   // separate allowance of the teardown phase
	InclusionFee         Field // fixed fee for including the transaction
	FeePerComputationGas Field // price of a unit of computation gas
	FeePerDataGas        Field // price of a unit of data-availability gas
}

// Validate checks that the gas settings are consistent.
func (s *GasSettings) Validate() error {
	if !s.TeardownGasLimits.Fits(s.GasLimits) {
		return fmt.Errorf("%w: teardown gas limits %v exceed gas limits %v",
			ErrInvalidGasSettings, s.TeardownGasLimits, s.GasLimits)
	}
	if _, overflow := s.GasLimits.AddChecked(s.TeardownGasLimits); overflow {
		return fmt.Errorf("%w: gas limits %v and teardown gas limits %v overflow",
			ErrInvalidGasSettings, s.GasLimits, s.TeardownGasLimits)
	}
	return nil
}

// GlobalVariables are the block-level parameters visible to public calls.
type GlobalVariables struct {
	ChainID      Field
	Version      Field
	BlockNumber  uint64
	SlotNumber   uint64
	Timestamp    uint64
	Coinbase     EthAddress // the L1 address receiving the block rewards
	FeeRecipient Address    // the rollup address receiving the fees
}

// TxExecutionResult summarizes the public execution of a transaction.
type TxExecutionResult struct {
	ProcessedPhases []PhaseResult // one entry per executed phase, in execution order
	RevertCode      RevertCode    // the classification of the outcome
	RevertReason    error         // app-logic's revert reason if any, else teardown's

	// GasUsed is the gas actually consumed by each executed phase.
	GasUsed map[Phase]Gas
	// TotalGasUsed is the actual gas consumed by private and public execution.
	TotalGasUsed Gas
	// FeeGasUsed is the gas billed to the sender, which accounts for the
	// teardown phase with its declared limit instead of its actual usage.
	FeeGasUsed Gas

	TransactionFee Field         // the fee charged for the transaction
	SquashedWrites []WriteRecord // the surviving writes, one per slot, in canonical order
	Logs           []Log         // the surviving logs, non-revertible ones first
}

// PhaseResult summarizes the execution of a single phase.
type PhaseResult struct {
	Phase        Phase
	RevertReason error                // nil if the phase succeeded
	GasUsed      Gas                  // gas consumed by all calls of the phase
	Writes       []WriteRecord        // writes contributed by the phase, nil if reverted
	Logs         []Log                // logs contributed by the phase, nil if reverted
	Calls        []EnqueuedCallResult // results of the calls executed in the phase
}

// Reverted is true if the phase ended in a revert.
func (r *PhaseResult) Reverted() bool {
	return r.RevertReason != nil
}

// EnqueuedCallResult summarizes the execution of a single enqueued call.
type EnqueuedCallResult struct {
	Request      CallRequest
	Status       CallStatus
	RevertReason error
	GasUsed      Gas
	NestedCalls  []CallRequest
}
