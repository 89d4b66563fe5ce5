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
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
)

func TestMetrics_NilMetricsIgnoreEvents(t *testing.T) {
	var m *metrics
	m.recordCall(rollup.PhaseSetup, rollup.CallSucceeded)
	m.recordPhase(&rollup.PhaseResult{})
	m.recordTransaction(rollup.RevertCodeOK)
	m.recordAbort()
}

func TestMetrics_ProcessorsShareRegisteredCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newMetrics(registry, log.New())
	second := newMetrics(registry, log.New())

	first.recordTransaction(rollup.RevertCodeOK)
	second.recordTransaction(rollup.RevertCodeOK)

	if want, got := 2.0, testutil.ToFloat64(first.transactions.WithLabelValues("OK")); want != got {
		t.Errorf("unexpected counter value, wanted %v, got %v", want, got)
	}
}

func TestMetrics_ProcessorRecordsOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := prometheus.NewRegistry()
	simulator := newSimulator(t, ctrl, map[rollup.Address]behavior{
		setupContract:    {gasUsed: rollup.Gas{Computation: 7}},
		appContract:      {status: rollup.CallReverted, reason: fmt.Errorf("failed")},
		teardownContract: {},
	}, nil)

	config := DefaultConfig()
	config.Registerer = registry
	processor := NewProcessor(simulator, nil, rollup.GlobalVariables{}, config)
	if _, err := processor.Process(context.Background(), newTestTransaction()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := processor.metrics
	tests := map[string]struct {
		collector prometheus.Collector
		want      float64
	}{
		"transactions":      {m.transactions.WithLabelValues(rollup.RevertCodeAppLogicReverted.String()), 1},
		"setup phases":      {m.phases.WithLabelValues("setup", "succeeded"), 1},
		"app logic phases":  {m.phases.WithLabelValues("app_logic", "reverted"), 1},
		"teardown phases":   {m.phases.WithLabelValues("teardown", "succeeded"), 1},
		"reverted calls":    {m.calls.WithLabelValues("app_logic", "reverted"), 1},
		"setup computation": {m.gas.WithLabelValues("setup", "computation"), 7},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := testutil.ToFloat64(test.collector); test.want != got {
				t.Errorf("unexpected counter value, wanted %v, got %v", test.want, got)
			}
		})
	}
}

func TestMetrics_ProcessorCountsAbortedTransactions(t *testing.T) {
	tests := map[string]struct {
		behaviors map[rollup.Address]behavior
		modify    func(*rollup.Transaction)
	}{
		"invalid gas settings": {
			modify: func(tx *rollup.Transaction) {
				tx.GasSettings.TeardownGasLimits = rollup.Gas{Computation: 2_000}
			},
		},
		"private gas overflow": {
			modify: func(tx *rollup.Transaction) {
				tx.NonRevertiblePrivateGasUsed = rollup.Gas{Computation: math.MaxUint64}
				tx.RevertiblePrivateGasUsed = rollup.Gas{Computation: 2}
			},
		},
		"setup reverted": {
			behaviors: map[rollup.Address]behavior{
				setupContract: {status: rollup.CallReverted, reason: fmt.Errorf("failed")},
			},
			modify: func(*rollup.Transaction) {},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			simulator := newSimulator(t, ctrl, test.behaviors, nil)

			config := DefaultConfig()
			config.Registerer = prometheus.NewRegistry()
			processor := NewProcessor(simulator, nil, rollup.GlobalVariables{}, config)

			tx := newTestTransaction()
			test.modify(&tx)
			if _, err := processor.Process(context.Background(), tx); err == nil {
				t.Fatalf("transaction should have been rejected")
			}
			if want, got := 1.0, testutil.ToFloat64(processor.metrics.transactions.WithLabelValues("aborted")); want != got {
				t.Errorf("unexpected number of aborted transactions, wanted %v, got %v", want, got)
			}
		})
	}
}
