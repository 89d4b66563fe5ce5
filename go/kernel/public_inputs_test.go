// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kernel

import (
	"errors"
	"testing"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/state"
)

func TestBuildPublicInputs_CopiesResultAndPadsWithZeros(t *testing.T) {
	contract := rollup.AddressFromUint64(1)
	tx := rollup.Transaction{Hash: rollup.NewField(0xabc)}
	globals := rollup.GlobalVariables{FeeRecipient: rollup.AddressFromUint64(0xfee)}
	result := rollup.TxExecutionResult{
		RevertCode:     rollup.RevertCodeTeardownReverted,
		TotalGasUsed:   rollup.Gas{Computation: 10, DataAvailability: 20},
		FeeGasUsed:     rollup.Gas{Computation: 30, DataAvailability: 40},
		TransactionFee: rollup.NewField(1234),
		SquashedWrites: []rollup.WriteRecord{
			{Contract: contract, Slot: rollup.NewField(2), Value: rollup.NewField(3)},
			{Contract: contract, Slot: rollup.NewField(1), Value: rollup.NewField(4)},
		},
		Logs: []rollup.Log{{Contract: contract, Fields: []rollup.Field{rollup.NewField(5)}}},
	}

	inputs, err := BuildPublicInputs(&tx, globals, &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inputs.TxHash != tx.Hash || inputs.RevertCode != result.RevertCode ||
		inputs.GasUsed != result.TotalGasUsed || inputs.FeeGasUsed != result.FeeGasUsed ||
		inputs.TransactionFee != result.TransactionFee || inputs.FeeRecipient != globals.FeeRecipient {
		t.Errorf("unexpected summary in public inputs: %+v", inputs)
	}
	if want, got := 2, inputs.NumPublicDataWrites; want != got {
		t.Errorf("unexpected number of writes, wanted %d, got %d", want, got)
	}
	for i, write := range result.SquashedWrites {
		want := PublicDataWrite{
			LeafSlot: state.ComputeLeafSlot(write.Contract, write.Slot),
			Value:    write.Value,
		}
		if got := inputs.PublicDataWrites[i]; want != got {
			t.Errorf("unexpected write %d, wanted %v, got %v", i, want, got)
		}
	}
	for i := 2; i < MaxPublicDataUpdateRequestsPerTx; i++ {
		if inputs.PublicDataWrites[i] != (PublicDataWrite{}) {
			t.Errorf("write %d is not zero padded", i)
		}
	}
	if want, got := HashLog(result.Logs[0]), inputs.LogHashes[0]; want != got {
		t.Errorf("unexpected log hash, wanted %v, got %v", want, got)
	}
	if !inputs.LogHashes[1].IsZero() {
		t.Errorf("log hashes are not zero padded")
	}
}

func TestBuildPublicInputs_CapacityIsEnforced(t *testing.T) {
	tests := map[string]struct {
		result rollup.TxExecutionResult
		want   error
	}{
		"too many writes": {
			result: rollup.TxExecutionResult{SquashedWrites: make([]rollup.WriteRecord, MaxPublicDataUpdateRequestsPerTx+1)},
			want:   ErrTooManyPublicDataWrites,
		},
		"too many logs": {
			result: rollup.TxExecutionResult{Logs: make([]rollup.Log, MaxLogsPerTx+1)},
			want:   ErrTooManyLogs,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := BuildPublicInputs(&rollup.Transaction{}, rollup.GlobalVariables{}, &test.result)
			if !errors.Is(err, test.want) {
				t.Errorf("unexpected error, wanted %v, got %v", test.want, err)
			}
		})
	}
}

func TestHashLog_DependsOnAllFields(t *testing.T) {
	base := rollup.Log{Contract: rollup.AddressFromUint64(1), Fields: []rollup.Field{rollup.NewField(1)}}
	variants := []rollup.Log{
		{Contract: rollup.AddressFromUint64(2), Fields: base.Fields},
		{Contract: base.Contract, Fields: []rollup.Field{rollup.NewField(2)}},
		{Contract: base.Contract},
	}
	for _, variant := range variants {
		if HashLog(base) == HashLog(variant) {
			t.Errorf("logs %v and %v have the same hash", base, variant)
		}
	}
}
