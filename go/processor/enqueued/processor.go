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

	"github.com/Fantom-foundation/Tosca-Rollup/go/journal"
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/ethereum/go-ethereum/log"
)

func init() {
	rollup.RegisterProcessorFactory("enqueued", newProcessor)
}

func newProcessor(
	simulator rollup.CallSimulator,
	tree rollup.PublicStateTree,
	globals rollup.GlobalVariables,
) rollup.Processor {
	return NewProcessor(simulator, tree, globals, DefaultConfig())
}

// Processor executes the enqueued public calls of transactions in three
// phases. The setup phase is not revertible, a failure aborts the whole
// transaction. The app-logic and teardown phases are rolled back
// individually if one of their calls fails.
//
// A Processor holds no transaction specific state and may be used by
// multiple goroutines concurrently, provided the simulator is thread-safe.
type Processor struct {
	tree     rollup.PublicStateTree
	globals  rollup.GlobalVariables
	config   Config
	logger   log.Logger
	metrics  *metrics
	executor phaseExecutor
}

// NewProcessor creates a processor running calls with the given simulator on
// top of the given tree, which must not be modified while transactions are
// processed.
func NewProcessor(
	simulator rollup.CallSimulator,
	tree rollup.PublicStateTree,
	globals rollup.GlobalVariables,
	config Config,
) *Processor {
	logger := config.Logger
	if logger == nil {
		logger = log.Root()
	}
	logger = logger.New("block", globals.BlockNumber)
	metrics := newMetrics(config.Registerer, logger)
	return &Processor{
		tree:    tree,
		globals: globals,
		config:  config,
		logger:  logger,
		metrics: metrics,
		executor: phaseExecutor{
			simulator:     simulator,
			globals:       globals,
			maxGasPerCall: config.MaxComputationGasPerCall,
			logger:        logger,
			metrics:       metrics,
		},
	}
}

// Process runs the enqueued calls of the given transaction. A non-nil error
// means that the transaction can not be included in a block. This is the
// case for malformed transactions, failing setup calls, reported as
// *SetupRevertedError, and infrastructure failures.
func (p *Processor) Process(ctx context.Context, tx rollup.Transaction) (_ rollup.TxExecutionResult, err error) {
	defer func() {
		if err != nil {
			p.metrics.recordAbort()
		}
	}()

	logger := p.logger.New("tx", tx.Hash)
	if err := p.validate(&tx); err != nil {
		return rollup.TxExecutionResult{}, err
	}

	state := journal.New(p.tree)
	// Validated above.
	privateGasUsed, _ := tx.PrivateGasUsed()
	res := rollup.TxExecutionResult{
		GasUsed:      map[rollup.Phase]rollup.Gas{},
		TotalGasUsed: privateGasUsed,
	}

	// Setup
	c0 := state.Checkpoint()
	meter := NewGasMeter(tx.GasSettings.GasLimits.Sub(privateGasUsed))
	setup, err := p.runPhase(ctx, state, c0, &tx, rollup.PhaseSetup, meter, rollup.Field{})
	if err != nil {
		return rollup.TxExecutionResult{}, err
	}
	if setup != nil && setup.Reverted() {
		index := len(setup.Calls) - 1
		err := &SetupRevertedError{
			TxHash:    tx.Hash,
			CallIndex: index,
			Contract:  setup.Calls[index].Request.ContractAddress,
			Reason:    setup.RevertReason,
		}
		logger.Warn("Setup phase reverted", "err", err)
		return rollup.TxExecutionResult{}, err
	}
	appendPhase(&res, setup)

	// App logic
	c1 := state.Checkpoint()
	meter = NewGasMeter(meter.Available())
	appLogic, err := p.runPhase(ctx, state, c1, &tx, rollup.PhaseAppLogic, meter, rollup.Field{})
	if err != nil {
		return rollup.TxExecutionResult{}, err
	}
	if err := closePhase(state, c1, appLogic); err != nil {
		return rollup.TxExecutionResult{}, err
	}
	appendPhase(&res, appLogic)

	// The fee only depends on the declared teardown limits and is thus
	// known before the teardown phase runs.
	feeGasUsed, err := ComputeFeeGasUsed(
		privateGasUsed,
		res.GasUsed[rollup.PhaseSetup],
		res.GasUsed[rollup.PhaseAppLogic],
		tx.GasSettings.TeardownGasLimits,
	)
	if err != nil {
		return rollup.TxExecutionResult{}, err
	}
	fee, err := ComputeTransactionFee(tx.GasSettings, feeGasUsed)
	if err != nil {
		return rollup.TxExecutionResult{}, err
	}

	// Teardown
	c2 := state.Checkpoint()
	meter = NewGasMeter(tx.GasSettings.TeardownGasLimits)
	teardown, err := p.runPhase(ctx, state, c2, &tx, rollup.PhaseTeardown, meter, fee)
	if err != nil {
		return rollup.TxExecutionResult{}, err
	}
	if err := closePhase(state, c2, teardown); err != nil {
		return rollup.TxExecutionResult{}, err
	}
	appendPhase(&res, teardown)

	if err := state.Commit(c0); err != nil {
		return rollup.TxExecutionResult{}, err
	}

	appLogicReverted := appLogic != nil && appLogic.Reverted()
	teardownReverted := teardown != nil && teardown.Reverted()
	res.RevertCode = rollup.GetRevertCode(appLogicReverted, teardownReverted)
	switch {
	case appLogicReverted:
		res.RevertReason = appLogic.RevertReason
	case teardownReverted:
		res.RevertReason = teardown.RevertReason
	}

	res.FeeGasUsed = feeGasUsed
	res.TransactionFee = fee
	res.SquashedWrites = journal.Squash(state.Writes())
	res.Logs = append(append([]rollup.Log{}, tx.NonRevertibleLogs...), state.Logs()...)

	p.metrics.recordTransaction(res.RevertCode)
	logger.Debug("Processed transaction", "revertCode", res.RevertCode,
		"gasUsed", res.TotalGasUsed, "fee", fee, "writes", len(res.SquashedWrites))
	return res, nil
}

// runPhase executes the calls of the given phase, if there are any. The
// writes and logs recorded since the given checkpoint are attached to the
// result. The result is nil if the phase has no calls.
func (p *Processor) runPhase(
	ctx context.Context,
	state *journal.Journal,
	checkpoint rollup.Checkpoint,
	tx *rollup.Transaction,
	phase rollup.Phase,
	meter *GasMeter,
	transactionFee rollup.Field,
) (*rollup.PhaseResult, error) {
	calls := tx.Calls(phase)
	if len(calls) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing interrupted before %v phase: %w", phase, err)
	}

	p.logger.Debug("Running phase", "tx", tx.Hash, "phase", phase, "calls", len(calls), "gas", meter.Available())
	res, err := p.executor.run(ctx, state, phase, calls, meter, transactionFee)
	if err != nil {
		return nil, err
	}
	if !res.Reverted() {
		if res.Writes, err = state.WritesSince(checkpoint); err != nil {
			return nil, err
		}
		if res.Logs, err = state.LogsSince(checkpoint); err != nil {
			return nil, err
		}
	}
	p.metrics.recordPhase(&res)
	return &res, nil
}

// appendPhase adds the given phase to the result, unless it is nil.
func appendPhase(res *rollup.TxExecutionResult, phase *rollup.PhaseResult) {
	if phase == nil {
		return
	}
	res.ProcessedPhases = append(res.ProcessedPhases, *phase)
	res.GasUsed[phase.Phase] = phase.GasUsed
	res.TotalGasUsed = res.TotalGasUsed.Add(phase.GasUsed)
}

// closePhase commits or reverts the checkpoint of a revertible phase.
func closePhase(state *journal.Journal, checkpoint rollup.Checkpoint, res *rollup.PhaseResult) error {
	if res != nil && res.Reverted() {
		return state.Revert(checkpoint)
	}
	return state.Commit(checkpoint)
}

func (p *Processor) validate(tx *rollup.Transaction) error {
	settings := &tx.GasSettings
	if err := settings.Validate(); err != nil {
		return err
	}
	private, err := tx.PrivateGasUsed()
	if err != nil {
		return err
	}
	if !private.Fits(settings.GasLimits) {
		return fmt.Errorf("%w: private gas used %v exceeds gas limits %v",
			rollup.ErrInvalidGasSettings, private, settings.GasLimits)
	}

	// The billed gas can never exceed the gas limits plus the teardown
	// limits, so fees can not overflow if this bound can be priced.
	bound, _ := settings.GasLimits.AddChecked(settings.TeardownGasLimits)
	if _, err := ComputeTransactionFee(*settings, bound); err != nil {
		return fmt.Errorf("%w: %w", rollup.ErrInvalidGasSettings, err)
	}

	numCalls := 0
	for _, phase := range rollup.GetAllPhases() {
		for i, call := range tx.Calls(phase) {
			if call.ContractAddress.IsZero() {
				return fmt.Errorf("%w: call %d of %v phase targets the zero address",
					rollup.ErrInvalidCallRequest, i, phase)
			}
			numCalls++
		}
	}
	if limit := p.config.MaxEnqueuedCallsPerTx; limit > 0 && numCalls > limit {
		return fmt.Errorf("%w: %d calls, limit is %d", ErrTooManyEnqueuedCalls, numCalls, limit)
	}
	return nil
}
