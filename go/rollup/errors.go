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

// ConstError is an error type that can be used to define error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrCallReverted is the generic revert reason of a call whose simulator
	// did not provide a more specific reason.
	ErrCallReverted = ConstError("call reverted")

	// ErrOutOfGas is reported when a call consumes more gas than it was granted.
	ErrOutOfGas = ConstError("out of gas")

	// ErrInvalidGasSettings is reported for gas settings that can never be
	// satisfied by a transaction.
	ErrInvalidGasSettings = ConstError("invalid gas settings")

	// ErrInvalidCallRequest is reported for malformed enqueued calls.
	ErrInvalidCallRequest = ConstError("invalid call request")
)
