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
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return bytesToText(a[:])
}

func (a *Address) UnmarshalText(data []byte) error {
	return textToBytes(a[:], data)
}

// AddressFromUint64 creates an address with the given numeric value.
func AddressFromUint64(value uint64) Address {
	return Address(NewField(value))
}

func (a EthAddress) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a EthAddress) IsZero() bool {
	return a == EthAddress{}
}

func (a EthAddress) MarshalText() ([]byte, error) {
	return bytesToText(a[:])
}

func (a *EthAddress) UnmarshalText(data []byte) error {
	return textToBytes(a[:], data)
}

func (f Field) String() string {
	return fmt.Sprintf("0x%x", f[:])
}

func (f Field) IsZero() bool {
	return f == Field{}
}

func (f Field) ToBig() *big.Int {
	return new(big.Int).SetBytes(f[:])
}

func (f Field) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(f[:])
}

func (f Field) MarshalText() ([]byte, error) {
	return bytesToText(f[:])
}

func (f *Field) UnmarshalText(data []byte) error {
	return textToBytes(f[:], data)
}

// NewField creates a new Field instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewField(args ...uint64) (result Field) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args); i++ {
		start := (offset * 8) + i*8
		end := start + 8
		binary.BigEndian.PutUint64(result[start:end], args[i])
	}
	return
}

// FieldFromUint256 converts a *uint256.Int to a Field.
// If the input is nil, it returns 0.
func FieldFromUint256(value *uint256.Int) (result Field) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(hexutil.Encode(data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	decoded, err := hexutil.Decode(s)
	if err != nil {
		return err
	}
	if want, got := len(trg), len(decoded); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg, decoded)
	return nil
}

// -- Gas --

// Add returns the component-wise sum of g and o. Overflows wrap around;
// use AddChecked where operands are not bounded by validated limits.
func (g Gas) Add(o Gas) Gas {
	return Gas{
		Computation:      g.Computation + o.Computation,
		DataAvailability: g.DataAvailability + o.DataAvailability,
	}
}

// AddChecked is like Add but reports whether any of the dimensions overflowed.
func (g Gas) AddChecked(o Gas) (Gas, bool) {
	computation, c1 := bits.Add64(g.Computation, o.Computation, 0)
	dataAvailability, c2 := bits.Add64(g.DataAvailability, o.DataAvailability, 0)
	return Gas{Computation: computation, DataAvailability: dataAvailability}, c1 != 0 || c2 != 0
}

// Sub returns the component-wise difference of g and o. The caller must
// ensure that o fits into g.
func (g Gas) Sub(o Gas) Gas {
	return Gas{
		Computation:      g.Computation - o.Computation,
		DataAvailability: g.DataAvailability - o.DataAvailability,
	}
}

// Fits is true if no dimension of g exceeds the respective dimension of limit.
func (g Gas) Fits(limit Gas) bool {
	return g.Computation <= limit.Computation && g.DataAvailability <= limit.DataAvailability
}

// Min returns the component-wise minimum of g and o.
func (g Gas) Min(o Gas) Gas {
	return Gas{
		Computation:      min(g.Computation, o.Computation),
		DataAvailability: min(g.DataAvailability, o.DataAvailability),
	}
}

func (g Gas) IsZero() bool {
	return g == Gas{}
}

func (g Gas) String() string {
	return fmt.Sprintf("{computation: %d, da: %d}", g.Computation, g.DataAvailability)
}

// -- Phase and RevertCode --

func (p Phase) MarshalJSON() ([]byte, error) {
	if p < 0 || int(p) >= numPhases {
		return nil, fmt.Errorf("invalid phase: %v", p)
	}
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, phase := range GetAllPhases() {
		if strings.EqualFold(phase.String(), name) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown phase: %s", name)
}

func (c RevertCode) MarshalJSON() ([]byte, error) {
	switch c {
	case RevertCodeOK, RevertCodeAppLogicReverted, RevertCodeTeardownReverted, RevertCodeBothReverted:
		return json.Marshal(c.String())
	}
	return nil, fmt.Errorf("invalid revert code: %v", c)
}
