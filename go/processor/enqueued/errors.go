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
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
)

const (
	// ErrSetupReverted is matched by all SetupRevertedError instances.
	ErrSetupReverted = rollup.ConstError("setup phase reverted")

	// ErrInvalidGasLeft is reported if a simulator claims more gas left than
	// it was granted.
	ErrInvalidGasLeft = rollup.ConstError("invalid gas left")

	// ErrTooManyEnqueuedCalls is reported for transactions exceeding the
	// configured number of enqueued calls.
	ErrTooManyEnqueuedCalls = rollup.ConstError("too many enqueued calls")

	// ErrFeeOverflow is reported if a fee can not be represented as a field.
	ErrFeeOverflow = rollup.ConstError("transaction fee overflow")
)

// SetupRevertedError is returned by the processor if a call of the setup
// phase failed. Transactions failing in the setup phase can not be included
// in a block.
type SetupRevertedError struct {
	TxHash    rollup.Field
	CallIndex int
	Contract  rollup.Address
	Reason    error
}

func (e *SetupRevertedError) Error() string {
	return fmt.Sprintf("%v: tx %v, call %d to contract %v: %v",
		ErrSetupReverted, e.TxHash, e.CallIndex, e.Contract, e.Reason)
}

func (e *SetupRevertedError) Unwrap() error {
	return e.Reason
}

func (e *SetupRevertedError) Is(target error) bool {
	return target == ErrSetupReverted
}
