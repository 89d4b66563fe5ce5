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

import "fmt"

// Address represents the 256-bit (32 bytes) address of a contract on the
// rollup. Contract addresses are field elements.
type Address [32]byte

// EthAddress represents the 160-bit (20 bytes) address of an account or
// contract on L1.
type EthAddress [20]byte

// Field represents an element of the rollup's scalar field, encoded as a
// 256-bit big-endian integer. Storage slots and storage values are fields.
type Field [32]byte

// Gas summarizes an amount of gas in the two dimensions metered by the rollup.
type Gas struct {
	Computation      uint64 // gas spent on executing public logic
	DataAvailability uint64 // gas spent on publishing data to L1
}

// WriteRecord is a single storage write recorded by the journal. Records are
// immutable once created. The sequence is the global position of the write
// among all writes performed while processing a transaction.
type WriteRecord struct {
	Contract Address
	Slot     Field
	Value    Field
	Sequence uint64
}

// Log is an unencrypted log emitted by a public function.
type Log struct {
	Contract Address
	Fields   []Field
}

// Phase is an enum listing the three stages of public execution of a
// transaction. Phases are executed in the order of their definition.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseAppLogic
	PhaseTeardown
	numPhases int = iota
)

// GetAllPhases lists all phases in execution order.
func GetAllPhases() []Phase {
	return []Phase{PhaseSetup, PhaseAppLogic, PhaseTeardown}
}

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseAppLogic:
		return "app_logic"
	case PhaseTeardown:
		return "teardown"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Revertible reports whether a failure in the phase leaves the transaction
// includable in a block.
func (p Phase) Revertible() bool {
	return p == PhaseAppLogic || p == PhaseTeardown
}

// RevertCode classifies the outcome of the public execution of a transaction
// as consumed by the rollup circuits.
type RevertCode int

const (
	RevertCodeOK RevertCode = iota
	RevertCodeAppLogicReverted
	RevertCodeTeardownReverted
	RevertCodeBothReverted
)

// GetRevertCode derives the revert code from the outcomes of the revertible
// phases.
func GetRevertCode(appLogicReverted, teardownReverted bool) RevertCode {
	switch {
	case appLogicReverted && teardownReverted:
		return RevertCodeBothReverted
	case appLogicReverted:
		return RevertCodeAppLogicReverted
	case teardownReverted:
		return RevertCodeTeardownReverted
	}
	return RevertCodeOK
}

func (c RevertCode) String() string {
	switch c {
	case RevertCodeOK:
		return "OK"
	case RevertCodeAppLogicReverted:
		return "APP_LOGIC_REVERTED"
	case RevertCodeTeardownReverted:
		return "TEARDOWN_REVERTED"
	case RevertCodeBothReverted:
		return "BOTH_REVERTED"
	}
	return fmt.Sprintf("RevertCode(%d)", int(c))
}

// IsOK is true if none of the revertible phases reverted.
func (c RevertCode) IsOK() bool {
	return c == RevertCodeOK
}
