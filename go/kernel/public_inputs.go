// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package kernel assembles the public inputs of the kernel circuit proving
// the public execution of a transaction.
package kernel

import (
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/state"
	"golang.org/x/crypto/sha3"
)

const (
	// MaxPublicDataUpdateRequestsPerTx is the number of public data writes
	// the circuit accepts per transaction.
	MaxPublicDataUpdateRequestsPerTx = 64

	// MaxLogsPerTx is the number of log hashes the circuit accepts per
	// transaction.
	MaxLogsPerTx = 8

	ErrTooManyPublicDataWrites = rollup.ConstError("too many public data writes")
	ErrTooManyLogs             = rollup.ConstError("too many logs")
)

// PublicDataWrite is an update of a leaf of the public data tree.
type PublicDataWrite struct {
	LeafSlot rollup.Field
	Value    rollup.Field
}

// PublicInputs summarizes the public execution of a transaction in the
// fixed-size layout consumed by the kernel circuit. Unused entries are zero.
type PublicInputs struct {
	TxHash              rollup.Field
	RevertCode          rollup.RevertCode
	GasUsed             rollup.Gas
	FeeGasUsed          rollup.Gas
	TransactionFee      rollup.Field
	FeeRecipient        rollup.Address
	PublicDataWrites    [MaxPublicDataUpdateRequestsPerTx]PublicDataWrite
	NumPublicDataWrites int
	LogHashes           [MaxLogsPerTx]rollup.Field
	NumLogs             int
}

// BuildPublicInputs converts the result of processing the given transaction
// into the inputs of the kernel circuit.
func BuildPublicInputs(
	tx *rollup.Transaction,
	globals rollup.GlobalVariables,
	result *rollup.TxExecutionResult,
) (PublicInputs, error) {
	if len(result.SquashedWrites) > MaxPublicDataUpdateRequestsPerTx {
		return PublicInputs{}, fmt.Errorf("%w: %d, limit is %d",
			ErrTooManyPublicDataWrites, len(result.SquashedWrites), MaxPublicDataUpdateRequestsPerTx)
	}
	if len(result.Logs) > MaxLogsPerTx {
		return PublicInputs{}, fmt.Errorf("%w: %d, limit is %d", ErrTooManyLogs, len(result.Logs), MaxLogsPerTx)
	}

	res := PublicInputs{
		TxHash:              tx.Hash,
		RevertCode:          result.RevertCode,
		GasUsed:             result.TotalGasUsed,
		FeeGasUsed:          result.FeeGasUsed,
		TransactionFee:      result.TransactionFee,
		FeeRecipient:        globals.FeeRecipient,
		NumPublicDataWrites: len(result.SquashedWrites),
		NumLogs:             len(result.Logs),
	}
	for i, write := range result.SquashedWrites {
		res.PublicDataWrites[i] = PublicDataWrite{
			LeafSlot: state.ComputeLeafSlot(write.Contract, write.Slot),
			Value:    write.Value,
		}
	}
	for i, log := range result.Logs {
		res.LogHashes[i] = HashLog(log)
	}
	return res, nil
}

// HashLog computes the hash committing to the given log.
func HashLog(log rollup.Log) (res rollup.Field) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(log.Contract[:])
	for _, field := range log.Fields {
		hasher.Write(field[:])
	}
	copy(res[:], hasher.Sum(nil))
	return res
}
