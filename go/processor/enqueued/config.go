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
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// MaxComputationGasPerCall is the default cap on the computation gas
	// offered to a single enqueued call.
	MaxComputationGasPerCall = 12_000_000

	// MaxEnqueuedCallsPerTx is the default limit on the number of enqueued
	// calls of a single transaction, summed over all phases.
	MaxEnqueuedCallsPerTx = 32
)

// Config summarizes the configuration options of the processor.
type Config struct {
	// MaxComputationGasPerCall caps the computation gas offered to each
	// enqueued call. Zero disables the cap.
	MaxComputationGasPerCall uint64
	// MaxEnqueuedCallsPerTx limits the number of enqueued calls of a
	// transaction. Zero disables the limit.
	MaxEnqueuedCallsPerTx int
	// Registerer is used to export processor metrics. If nil, no metrics
	// are exported.
	Registerer prometheus.Registerer
	// Logger is used for diagnostic output. If nil, the root logger is used.
	Logger log.Logger
}

// DefaultConfig returns the configuration used by the registered processor.
func DefaultConfig() Config {
	return Config{
		MaxComputationGasPerCall: MaxComputationGasPerCall,
		MaxEnqueuedCallsPerTx:    MaxEnqueuedCallsPerTx,
	}
}
