// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/Fantom-foundation/Tosca-Rollup/go/processor/enqueued"
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

type jobsFlagType struct {
	cli.IntFlag
}

var JobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of transactions processed simultaneously",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(context *cli.Context) int {
	jobs := context.Int(f.Name)
	if jobs <= 0 {
		return runtime.NumCPU()
	}
	return jobs
}

type dbFlagType struct {
	cli.StringFlag
}

var DbFlag = &dbFlagType{
	cli.StringFlag{
		Name:      "db",
		Usage:     "directory of the LevelDB public state, kept in memory if empty",
		TakesFile: true,
	},
}

func (f *dbFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type metricsAddrFlagType struct {
	cli.StringFlag
}

var MetricsAddrFlag = &metricsAddrFlagType{
	cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve prometheus metrics on the given address, disabled if empty",
	},
}

func (f *metricsAddrFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type simulatorFlagType struct {
	cli.StringFlag
}

var SimulatorFlag = &simulatorFlagType{
	cli.StringFlag{
		Name:  "simulator",
		Usage: "name of the registered simulator running the enqueued calls",
		Value: "scripted",
	},
}

func (f *simulatorFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type cacheSizeFlagType struct {
	cli.IntFlag
}

var CacheSizeFlag = &cacheSizeFlagType{
	cli.IntFlag{
		Name:  "cache-size",
		Usage: "number of public state leaves kept in memory",
		Value: 1 << 14,
	},
}

func (f *cacheSizeFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type maxGasPerCallFlagType struct {
	cli.Uint64Flag
}

var MaxGasPerCallFlag = &maxGasPerCallFlagType{
	cli.Uint64Flag{
		Name:  "max-gas-per-call",
		Usage: "computation gas cap of a single enqueued call, 0 for no cap",
		Value: enqueued.MaxComputationGasPerCall,
	},
}

func (f *maxGasPerCallFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type coinbaseFlagType struct {
	cli.StringFlag
}

var CoinbaseFlag = &coinbaseFlagType{
	cli.StringFlag{
		Name:  "coinbase",
		Usage: "L1 address receiving the block rewards, overrides the scenario's value",
	},
}

// Fetch returns the zero address if the flag is not set.
func (f *coinbaseFlagType) Fetch(context *cli.Context) (rollup.EthAddress, error) {
	var res rollup.EthAddress
	if value := context.String(f.Name); value != "" {
		if err := res.UnmarshalText([]byte(value)); err != nil {
			return res, fmt.Errorf("invalid coinbase %q: %w", value, err)
		}
	}
	return res, nil
}

type rollupAddressFlagType struct {
	cli.StringFlag
}

var RollupAddressFlag = &rollupAddressFlagType{
	cli.StringFlag{
		Name:  "rollup-address",
		Usage: "rollup address receiving the transaction fees, overrides the scenario's value",
	},
}

// Fetch returns the zero address if the flag is not set.
func (f *rollupAddressFlagType) Fetch(context *cli.Context) (rollup.Address, error) {
	var res rollup.Address
	if value := context.String(f.Name); value != "" {
		if err := res.UnmarshalText([]byte(value)); err != nil {
			return res, fmt.Errorf("invalid rollup address %q: %w", value, err)
		}
	}
	return res, nil
}

var commonFlags = []cli.Flag{
	cpuProfileFlag,
	verbosityFlag,
}

var cpuProfileFlag = &cli.StringFlag{
	Name:  "cpuprofile",
	Usage: "store CPU profile in the provided filename",
}

var verbosityFlag = &cli.IntFlag{
	Name:  "verbosity",
	Usage: "log level: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	Value: 3,
}

// AddCommonFlags adds the profiling and logging flags to the given command
// and wraps its action to apply them before it is run.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
		log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false)))

		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
