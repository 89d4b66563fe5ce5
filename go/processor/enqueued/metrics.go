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
	"errors"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics collects the processor's counters. A nil *metrics is valid and
// records nothing.
type metrics struct {
	transactions *prometheus.CounterVec // by revert code, or "aborted"
	phases       *prometheus.CounterVec // by phase and outcome
	calls        *prometheus.CounterVec // by phase and call status
	gas          *prometheus.CounterVec // by phase and gas dimension
}

func newMetrics(registerer prometheus.Registerer, logger log.Logger) *metrics {
	if registerer == nil {
		return nil
	}
	return &metrics{
		transactions: getOrRegister(registerer, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollup",
			Subsystem: "enqueued",
			Name:      "transactions_total",
			Help:      "Number of processed transactions by outcome.",
		}, []string{"outcome"})),
		phases: getOrRegister(registerer, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollup",
			Subsystem: "enqueued",
			Name:      "phases_total",
			Help:      "Number of executed phases by outcome.",
		}, []string{"phase", "outcome"})),
		calls: getOrRegister(registerer, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollup",
			Subsystem: "enqueued",
			Name:      "calls_total",
			Help:      "Number of simulated enqueued calls by status.",
		}, []string{"phase", "status"})),
		gas: getOrRegister(registerer, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollup",
			Subsystem: "enqueued",
			Name:      "gas_used_total",
			Help:      "Gas consumed by enqueued calls.",
		}, []string{"phase", "dimension"})),
	}
}

// getOrRegister registers the given collector, or returns the collector
// registered under the same description before. Processors created for
// different blocks share the counters this way.
func getOrRegister(registerer prometheus.Registerer, logger log.Logger, collector *prometheus.CounterVec) *prometheus.CounterVec {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}
	var registered prometheus.AlreadyRegisteredError
	if errors.As(err, &registered) {
		if existing, ok := registered.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing
		}
	}
	logger.Warn("Failed to register processor metric", "err", err)
	return collector
}

func (m *metrics) recordCall(phase rollup.Phase, status rollup.CallStatus) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(phase.String(), status.String()).Inc()
}

func (m *metrics) recordPhase(result *rollup.PhaseResult) {
	if m == nil {
		return
	}
	outcome := "succeeded"
	if result.Reverted() {
		outcome = "reverted"
	}
	phase := result.Phase.String()
	m.phases.WithLabelValues(phase, outcome).Inc()
	m.gas.WithLabelValues(phase, "computation").Add(float64(result.GasUsed.Computation))
	m.gas.WithLabelValues(phase, "data_availability").Add(float64(result.GasUsed.DataAvailability))
}

func (m *metrics) recordTransaction(code rollup.RevertCode) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(code.String()).Inc()
}

func (m *metrics) recordAbort() {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues("aborted").Inc()
}
