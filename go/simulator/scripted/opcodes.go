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
	"fmt"
	"strings"
)

// OpCode identifies an instruction of a scripted program. Programs operate
// on a single 256-bit accumulator register.
type OpCode int

const (
	// Storage
	LOAD  OpCode = iota // acc = storage[slot]
	STORE               // storage[slot] = acc
	WRITE               // storage[slot] = value

	// Accumulator
	SET   // acc = value
	ADD   // acc = acc + value, wrapping
	SUB   // acc = acc - value, reverts on underflow
	ARG   // acc = args[value], zero if missing
	FEE   // acc = transaction fee
	BLOCK // acc = block number

	// Control
	LOG        // emit log (value, acc)
	BURN       // consume gas
	CALL       // call function selector of target contract
	REVERT     // revert with reason
	REVERTIF   // revert with reason if acc == value
	RETURN     // stop and output acc
	numOpCodes // not an opcode
)

var opCodeNames = [numOpCodes]string{
	LOAD:     "LOAD",
	STORE:    "STORE",
	WRITE:    "WRITE",
	SET:      "SET",
	ADD:      "ADD",
	SUB:      "SUB",
	ARG:      "ARG",
	FEE:      "FEE",
	BLOCK:    "BLOCK",
	LOG:      "LOG",
	BURN:     "BURN",
	CALL:     "CALL",
	REVERT:   "REVERT",
	REVERTIF: "REVERTIF",
	RETURN:   "RETURN",
}

func (op OpCode) String() string {
	if !op.isValid() {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opCodeNames[op]
}

func (op OpCode) isValid() bool {
	return op >= 0 && op < numOpCodes
}

func (op OpCode) MarshalText() ([]byte, error) {
	if !op.isValid() {
		return nil, fmt.Errorf("invalid opcode: %d", int(op))
	}
	return []byte(op.String()), nil
}

func (op *OpCode) UnmarshalText(data []byte) error {
	for i, name := range opCodeNames {
		if strings.EqualFold(name, string(data)) {
			*op = OpCode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown opcode: %s", data)
}
