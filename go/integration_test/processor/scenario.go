// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/simulator/scripted"
)

// Scenario represents a test scenario for a transaction processor. A scenario
// consists of a public state before and after the transaction, the programs
// of the contracts involved, the transaction to be processed, block
// parameters, and the expected outcome.
type Scenario struct {
	Before      WorldState
	After       WorldState
	Contracts   scripted.Contracts
	Globals     rollup.GlobalVariables
	Transaction rollup.Transaction
	Outcome     Outcome
	Error       error // if set, processing must fail with a matching error
}

// Outcome summarizes the expected properties of a processed transaction.
type Outcome struct {
	RevertCode     rollup.RevertCode
	Phases         []rollup.Phase
	TotalGasUsed   rollup.Gas
	FeeGasUsed     rollup.Gas
	TransactionFee rollup.Field
	Logs           []rollup.Log
}

// Run processes the scenario's transaction using the processor registered
// under the given name and checks the result. The squashed writes of the
// transaction are applied to the state before the transaction to obtain the
// state after it.
func (s *Scenario) Run(t *testing.T, processorName string) rollup.TxExecutionResult {
	t.Helper()
	tree, err := s.Before.NewTree()
	if err != nil {
		t.Fatalf("failed to create state tree: %v", err)
	}
	simulator := scripted.NewSimulator(s.Contracts)
	processor := rollup.GetProcessor(processorName, simulator, tree, s.Globals)
	if processor == nil {
		t.Fatalf("processor %s not found", processorName)
	}

	result, err := processor.Process(context.Background(), s.Transaction)
	if s.Error != nil {
		if !errors.Is(err, s.Error) {
			t.Fatalf("unexpected error, wanted %v, got %v", s.Error, err)
		}
		return result
	}
	if err != nil {
		t.Fatalf("failed to process transaction: %v", err)
	}

	// check the public state after the transaction
	after := s.Before.Clone()
	if after == nil {
		after = WorldState{}
	}
	after.Apply(result.SquashedWrites)
	if want, got := s.After, after; !want.Equal(got) {
		diff := strings.Join(got.Diff(want), "\n\t")
		t.Errorf("unexpected world state after the transaction: \n\t%v", diff)
	}

	// check the result
	if want, got := s.Outcome.RevertCode, result.RevertCode; want != got {
		t.Errorf("unexpected revert code, want %v, got %v", want, got)
	}
	if want, got := s.Outcome.RevertCode.IsOK(), result.RevertReason == nil; want != got {
		t.Errorf("unexpected revert reason: %v", result.RevertReason)
	}
	phases := make([]rollup.Phase, 0, len(result.ProcessedPhases))
	for _, phase := range result.ProcessedPhases {
		phases = append(phases, phase.Phase)
	}
	if want, got := s.Outcome.Phases, phases; !slices.Equal(want, got) {
		t.Errorf("unexpected processed phases, want %v, got %v", want, got)
	}
	if want, got := s.Outcome.TotalGasUsed, result.TotalGasUsed; want != got {
		t.Errorf("unexpected total gas used, want %v, got %v", want, got)
	}
	if want, got := s.Outcome.FeeGasUsed, result.FeeGasUsed; want != got {
		t.Errorf("unexpected fee gas used, want %v, got %v", want, got)
	}
	if want, got := s.Outcome.TransactionFee, result.TransactionFee; want != got {
		t.Errorf("unexpected transaction fee, want %v, got %v", want.ToUint256(), got.ToUint256())
	}

	if len(result.Logs) != len(s.Outcome.Logs) {
		t.Errorf("unexpected logs: %v", result.Logs)
	} else {
		for i, want := range s.Outcome.Logs {
			got := result.Logs[i]
			if want, got := want.Contract, got.Contract; want != got {
				t.Errorf("unexpected log contract, want %v, got %v", want, got)
			}
			if want, got := want.Fields, got.Fields; !slices.Equal(want, got) {
				t.Errorf("unexpected log fields, want %v, got %v", want, got)
			}
		}
	}
	return result
}
