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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Function selectors used by the example contracts.
var (
	SelectorRun       = rollup.NewField(0)
	SelectorIncrement = rollup.NewField(1)
	SelectorGet       = rollup.NewField(2)
	SelectorPayFee    = rollup.NewField(3)
)

// Example is a named contract for tests, benchmarks and the driver.
type Example struct {
	Name        string
	Description string
	Contract    Contract
}

// GetCounterExample provides a contract maintaining a counter in the given
// slot. The increment function returns the new value.
func GetCounterExample(slot rollup.Field) Example {
	return Example{
		Name:        "counter",
		Description: "increments a counter and logs its new value",
		Contract: Contract{
			SelectorIncrement: {Load(slot), Add(rollup.NewField(1)), Store(slot), Log(slot), Return()},
			SelectorGet:       {Load(slot), Return()},
		},
	}
}

// GetGasBurnerExample provides a contract consuming the given amount of gas
// without any side effects.
func GetGasBurnerExample(gas rollup.Gas) Example {
	return Example{
		Name:        "gas_burner",
		Description: "burns a fixed amount of gas",
		Contract: Contract{
			SelectorRun: {Burn(gas), Return()},
		},
	}
}

// GetFailingExample provides a contract writing to the given slot before
// reverting with the given reason.
func GetFailingExample(slot rollup.Field, reason string) Example {
	return Example{
		Name:        "failing",
		Description: "writes a slot and reverts",
		Contract: Contract{
			SelectorRun: {Write(slot, rollup.NewField(1)), Revert(reason)},
		},
	}
}

// GetFeePayerExample provides a contract recording the transaction fee in
// the given slot. It is intended to be called in the teardown phase, where
// the fee is known.
func GetFeePayerExample(slot rollup.Field) Example {
	return Example{
		Name:        "fee_payer",
		Description: "records the transaction fee",
		Contract: Contract{
			SelectorPayFee: {Fee(), RevertIf(rollup.Field{}, "fee unknown"), Store(slot), Log(slot), Return()},
		},
	}
}

// GetProxyExample provides a contract forwarding its first argument to the
// given function of the given target contract.
func GetProxyExample(target rollup.Address, selector rollup.Field) Example {
	return Example{
		Name:        "proxy",
		Description: "forwards calls to another contract",
		Contract: Contract{
			SelectorRun: {Arg(0), Call(target, selector), Return()},
		},
	}
}

// GetExamples returns one instance of every example, sorted by name.
func GetExamples() []Example {
	slot := rollup.NewField(1)
	examples := map[string]Example{}
	for _, example := range []Example{
		GetCounterExample(slot),
		GetGasBurnerExample(rollup.Gas{Computation: 1_000}),
		GetFailingExample(slot, "failing example"),
		GetFeePayerExample(slot),
		GetProxyExample(rollup.AddressFromUint64(1), SelectorIncrement),
	} {
		examples[example.Name] = example
	}
	names := maps.Keys(examples)
	slices.Sort(names)
	res := make([]Example, 0, len(names))
	for _, name := range names {
		res = append(res, examples[name])
	}
	return res
}
