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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	cliUtils "github.com/Fantom-foundation/Tosca-Rollup/go/driver/cli"
	"github.com/Fantom-foundation/Tosca-Rollup/go/kernel"
	"github.com/Fantom-foundation/Tosca-Rollup/go/processor/enqueued"
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/state"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var RunCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Process the transactions of a scenario and commit their public state updates",
	ArgsUsage: "<scenario.json>",
	Flags: []cli.Flag{
		cliUtils.JobsFlag,
		cliUtils.DbFlag,
		cliUtils.MetricsAddrFlag,
		cliUtils.SimulatorFlag,
		cliUtils.CacheSizeFlag,
		cliUtils.MaxGasPerCallFlag,
		cliUtils.CoinbaseFlag,
		cliUtils.RollupAddressFlag,
	},
})

// runConfig summarizes the options of a single run.
type runConfig struct {
	jobs          int
	simulator     string
	cacheSize     int
	maxGasPerCall uint64
	registerer    prometheus.Registerer
}

func doRun(context *cli.Context) (err error) {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one scenario file, got %d", context.Args().Len())
	}
	scenario, err := LoadScenario(context.Args().First())
	if err != nil {
		return err
	}

	coinbase, err := cliUtils.CoinbaseFlag.Fetch(context)
	if err != nil {
		return err
	}
	if !coinbase.IsZero() {
		scenario.Globals.Coinbase = coinbase
	}
	rollupAddress, err := cliUtils.RollupAddressFlag.Fetch(context)
	if err != nil {
		return err
	}
	if !rollupAddress.IsZero() {
		scenario.Globals.FeeRecipient = rollupAddress
	}
	if err := scenario.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	registry := prometheus.NewRegistry()
	if addr := cliUtils.MetricsAddrFlag.Fetch(context); addr != "" {
		server := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed", "addr", addr, "err", err)
			}
		}()
		defer server.Close()
		log.Info("Serving metrics", "addr", addr)
	}

	tree, err := state.NewLevelDBTree(cliUtils.DbFlag.Fetch(context))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := tree.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	config := runConfig{
		jobs:          cliUtils.JobsFlag.Fetch(context),
		simulator:     cliUtils.SimulatorFlag.Fetch(context),
		cacheSize:     cliUtils.CacheSizeFlag.Fetch(context),
		maxGasPerCall: cliUtils.MaxGasPerCallFlag.Fetch(context),
		registerer:    registry,
	}

	fmt.Printf("Processing %d transactions using %d jobs ...\n", len(scenario.Transactions), config.jobs)
	start := time.Now()
	outcomes, err := runScenario(context.Context, scenario, tree, config)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	if err := printOutcomes(context.App.Writer, outcomes, duration); err != nil {
		return err
	}
	return commitOutcomes(tree, outcomes)
}

// txOutcome is the result of processing a single transaction of a scenario.
type txOutcome struct {
	tx       *rollup.Transaction
	result   rollup.TxExecutionResult
	inputs   kernel.PublicInputs
	rejected error // the reason for excluding the transaction from the block
}

// runScenario processes all transactions of the given scenario concurrently
// on a snapshot of the given tree. The tree is initialized with the
// scenario's state if it is empty. Outcomes are reported in the order of the
// transactions, where transactions conflicting with earlier ones are
// rejected. An error is returned if processing was aborted.
func runScenario(
	ctx context.Context,
	scenario *Scenario,
	tree *state.LevelDBTree,
	config runConfig,
) ([]txOutcome, error) {
	numLeaves, err := tree.NumLeaves()
	if err != nil {
		return nil, err
	}
	if numLeaves == 0 {
		if err := tree.Apply(scenario.initialWrites()); err != nil {
			return nil, fmt.Errorf("failed to initialize state: %w", err)
		}
	} else if len(scenario.State) > 0 {
		log.Warn("Ignoring initial state of scenario, database is not empty", "leaves", numLeaves)
	}

	snapshot, err := tree.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()
	cached, err := state.NewCachedTree(snapshot, config.cacheSize)
	if err != nil {
		return nil, err
	}

	simulator, err := rollup.NewSimulator(config.simulator, scenario.Contracts)
	if err != nil {
		return nil, err
	}
	processor := enqueued.NewProcessor(simulator, cached, scenario.Globals, enqueued.Config{
		MaxComputationGasPerCall: config.maxGasPerCall,
		MaxEnqueuedCallsPerTx:    enqueued.MaxEnqueuedCallsPerTx,
		Registerer:               config.registerer,
	})

	outcomes := make([]txOutcome, len(scenario.Transactions))
	group, ctx := errgroup.WithContext(ctx)
	if config.jobs > 0 {
		group.SetLimit(config.jobs)
	}
	for i := range scenario.Transactions {
		group.Go(func() error {
			tx := &scenario.Transactions[i]
			outcome := &outcomes[i]
			outcome.tx = tx

			result, err := processor.Process(ctx, *tx)
			if err != nil {
				if !isRejection(err) {
					return fmt.Errorf("failed to process transaction %v: %w", tx.Hash, err)
				}
				outcome.rejected = err
				return nil
			}
			outcome.result = result
			outcome.inputs, outcome.rejected = kernel.BuildPublicInputs(tx, scenario.Globals, &result)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	rejectConflictingWrites(outcomes)
	return outcomes, nil
}

// errConflictingWrites rejects transactions updating a slot that an earlier
// included transaction of the same run updates as well. All transactions
// read the same snapshot, so the later update would be based on stale state.
const errConflictingWrites = rollup.ConstError("conflicting writes")

type slotKey struct {
	contract rollup.Address
	slot     rollup.Field
}

// rejectConflictingWrites marks included transactions as rejected if they
// write to a slot written by an earlier included transaction.
func rejectConflictingWrites(outcomes []txOutcome) {
	writers := map[slotKey]rollup.Field{}
	for i := range outcomes {
		outcome := &outcomes[i]
		if outcome.rejected != nil {
			continue
		}
		writes := outcome.result.SquashedWrites
		for _, write := range writes {
			if writer, found := writers[slotKey{write.Contract, write.Slot}]; found {
				outcome.rejected = fmt.Errorf("%w: slot %v of contract %v already written by tx %v",
					errConflictingWrites, write.Slot, write.Contract, writer)
				log.Warn("Rejecting transaction", "tx", outcome.tx.Hash, "err", outcome.rejected)
				break
			}
		}
		if outcome.rejected != nil {
			continue
		}
		for _, write := range writes {
			writers[slotKey{write.Contract, write.Slot}] = outcome.tx.Hash
		}
	}
}

// isRejection is true for errors excluding a transaction from the block
// without affecting the processing of other transactions.
func isRejection(err error) bool {
	return errors.Is(err, enqueued.ErrSetupReverted) ||
		errors.Is(err, rollup.ErrInvalidGasSettings) ||
		errors.Is(err, rollup.ErrInvalidCallRequest) ||
		errors.Is(err, enqueued.ErrTooManyEnqueuedCalls) ||
		errors.Is(err, enqueued.ErrFeeOverflow)
}

func printOutcomes(out io.Writer, outcomes []txOutcome, duration time.Duration) error {
	var totalGas rollup.Gas
	included := 0
	for _, outcome := range outcomes {
		if outcome.rejected != nil {
			if _, err := fmt.Fprintf(out, "tx %v: rejected: %v\n", outcome.tx.Hash, outcome.rejected); err != nil {
				return err
			}
			continue
		}
		included++
		res := &outcome.result
		totalGas = totalGas.Add(res.TotalGasUsed)
		if _, err := fmt.Fprintf(out,
			"tx %v: %v, gas used %v, fee %s, %d writes, %d logs\n",
			outcome.tx.Hash, res.RevertCode, res.TotalGasUsed, res.TransactionFee.ToUint256().Dec(),
			outcome.inputs.NumPublicDataWrites, outcome.inputs.NumLogs,
		); err != nil {
			return err
		}
		if res.RevertReason != nil {
			if _, err := fmt.Fprintf(out, "\treason: %v\n", res.RevertReason); err != nil {
				return err
			}
		}
	}

	rate := float64(len(outcomes)) / duration.Seconds()
	_, err := fmt.Fprintf(out,
		"Included %d of %d transactions in %v (~%s tx per second), computation gas %s, data availability gas %s\n",
		included, len(outcomes), duration.Round(time.Millisecond),
		unitconv.FormatPrefix(rate, unitconv.SI, 0),
		unitconv.FormatPrefix(float64(totalGas.Computation), unitconv.SI, 1),
		unitconv.FormatPrefix(float64(totalGas.DataAvailability), unitconv.SI, 1),
	)
	return err
}

// commitOutcomes applies the squashed writes of all included transactions to
// the given tree, in the order of the transactions.
func commitOutcomes(tree state.Tree, outcomes []txOutcome) error {
	for _, outcome := range outcomes {
		if outcome.rejected != nil {
			continue
		}
		if err := tree.Apply(outcome.result.SquashedWrites); err != nil {
			return fmt.Errorf("failed to commit transaction %v: %w", outcome.tx.Hash, err)
		}
	}
	return nil
}
