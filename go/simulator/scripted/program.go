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
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
)

// Instruction is a single step of a program. Operands not used by the
// opcode are ignored.
type Instruction struct {
	Op       OpCode         `json:"op"`
	Slot     rollup.Field   `json:"slot"`
	Value    rollup.Field   `json:"value"`
	Gas      rollup.Gas     `json:"gas"`
	Target   rollup.Address `json:"target"`
	Selector rollup.Field   `json:"selector"`
	Reason   string         `json:"reason,omitempty"`
}

// Program is a sequence of instructions executed in order.
type Program []Instruction

// Contract maps function selectors to the programs implementing them.
type Contract map[rollup.Field]Program

// Contracts maps contract addresses to their code.
type Contracts map[rollup.Address]Contract

// Instruction constructors, for building programs in code.

func Load(slot rollup.Field) Instruction {
	return Instruction{Op: LOAD, Slot: slot}
}

func Store(slot rollup.Field) Instruction {
	return Instruction{Op: STORE, Slot: slot}
}

func Write(slot, value rollup.Field) Instruction {
	return Instruction{Op: WRITE, Slot: slot, Value: value}
}

func Set(value rollup.Field) Instruction {
	return Instruction{Op: SET, Value: value}
}

func Add(value rollup.Field) Instruction {
	return Instruction{Op: ADD, Value: value}
}

func Sub(value rollup.Field) Instruction {
	return Instruction{Op: SUB, Value: value}
}

func Arg(index uint64) Instruction {
	return Instruction{Op: ARG, Value: rollup.NewField(index)}
}

func Fee() Instruction {
	return Instruction{Op: FEE}
}

func Block() Instruction {
	return Instruction{Op: BLOCK}
}

func Log(topic rollup.Field) Instruction {
	return Instruction{Op: LOG, Value: topic}
}

func Burn(gas rollup.Gas) Instruction {
	return Instruction{Op: BURN, Gas: gas}
}

func Call(target rollup.Address, selector rollup.Field) Instruction {
	return Instruction{Op: CALL, Target: target, Selector: selector}
}

func Revert(reason string) Instruction {
	return Instruction{Op: REVERT, Reason: reason}
}

func RevertIf(value rollup.Field, reason string) Instruction {
	return Instruction{Op: REVERTIF, Value: value, Reason: reason}
}

func Return() Instruction {
	return Instruction{Op: RETURN}
}
