// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/simulator/scripted"
)

// Scenario is the input of the run command: a block of transactions to be
// processed on top of an initial public state.
type Scenario struct {
	Globals      rollup.GlobalVariables `json:"globals"`
	Contracts    scripted.Contracts     `json:"contracts"`
	State        []StateEntry           `json:"state"`
	Transactions []rollup.Transaction   `json:"transactions"`
}

// StateEntry is a single slot of the initial public state.
type StateEntry struct {
	Contract rollup.Address `json:"contract"`
	Slot     rollup.Field   `json:"slot"`
	Value    rollup.Field   `json:"value"`
}

// LoadScenario parses the scenario stored in the given JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	res := &Scenario{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return res, nil
}

// Validate checks that the block the transactions are processed in can be
// published to L1.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Globals.Coinbase.IsZero() {
		errs = append(errs, fmt.Errorf("coinbase must not be the zero address"))
	}
	if s.Globals.FeeRecipient.IsZero() {
		errs = append(errs, fmt.Errorf("rollup address must not be the zero address"))
	}
	seen := map[rollup.Field]struct{}{}
	for i, tx := range s.Transactions {
		if _, found := seen[tx.Hash]; found {
			errs = append(errs, fmt.Errorf("transaction %d: duplicate hash %v", i, tx.Hash))
		}
		seen[tx.Hash] = struct{}{}
	}
	return errors.Join(errs...)
}

// initialWrites converts the initial state into writes to be applied to an
// empty tree.
func (s *Scenario) initialWrites() []rollup.WriteRecord {
	res := make([]rollup.WriteRecord, 0, len(s.State))
	for i, entry := range s.State {
		res = append(res, rollup.WriteRecord{
			Contract: entry.Contract,
			Slot:     entry.Slot,
			Value:    entry.Value,
			Sequence: uint64(i),
		})
	}
	return res
}
