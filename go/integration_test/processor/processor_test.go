// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"testing"

	"github.com/Fantom-foundation/Tosca-Rollup/go/processor/enqueued"
	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"github.com/Fantom-foundation/Tosca-Rollup/go/simulator/scripted"
	"golang.org/x/exp/maps"
)

var (
	counterAddress = rollup.AddressFromUint64(0x100)
	failingAddress = rollup.AddressFromUint64(0x200)
	feeAddress     = rollup.AddressFromUint64(0x300)
	burnerAddress  = rollup.AddressFromUint64(0x400)

	counterSlot = rollup.NewField(1)
	feeSlot     = rollup.NewField(2)

	increment = rollup.CallRequest{ContractAddress: counterAddress, FunctionSelector: scripted.SelectorIncrement}
	fail      = rollup.CallRequest{ContractAddress: failingAddress, FunctionSelector: scripted.SelectorRun}
	payFee    = rollup.CallRequest{ContractAddress: feeAddress, FunctionSelector: scripted.SelectorPayFee}
	burn      = rollup.CallRequest{ContractAddress: burnerAddress, FunctionSelector: scripted.SelectorRun}

	privateLog = rollup.Log{Contract: rollup.AddressFromUint64(0x500), Fields: []rollup.Field{rollup.NewField(0xabc)}}
)

// Gas consumed by the calls of the example contracts.
var (
	incrementGas = rollup.Gas{
		Computation:      scripted.LoadGas + scripted.BaseGas + scripted.StoreGas + scripted.LogGas + scripted.BaseGas,
		DataAvailability: scripted.StoreDataGas + scripted.LogDataGas,
	}
	failGas = rollup.Gas{
		Computation:      scripted.StoreGas + scripted.BaseGas,
		DataAvailability: scripted.StoreDataGas,
	}
	payFeeGas = rollup.Gas{
		Computation:      3*scripted.BaseGas + scripted.StoreGas + scripted.LogGas,
		DataAvailability: scripted.StoreDataGas + scripted.LogDataGas,
	}
)

func getContracts() scripted.Contracts {
	return scripted.Contracts{
		counterAddress: scripted.GetCounterExample(counterSlot).Contract,
		failingAddress: scripted.GetFailingExample(counterSlot, "failing on purpose").Contract,
		feeAddress:     scripted.GetFeePayerExample(feeSlot).Contract,
		burnerAddress:  scripted.GetGasBurnerExample(rollup.Gas{Computation: 200_000}).Contract,
	}
}

func getTransaction() rollup.Transaction {
	return rollup.Transaction{
		Hash: rollup.NewField(0x1234),
		GasSettings: rollup.GasSettings{
			GasLimits:            rollup.Gas{Computation: 100_000, DataAvailability: 100_000},
			TeardownGasLimits:    rollup.Gas{Computation: 10_000, DataAvailability: 10_000},
			InclusionFee:         rollup.NewField(1000),
			FeePerComputationGas: rollup.NewField(2),
			FeePerDataGas:        rollup.NewField(3),
		},
		NonRevertiblePrivateGasUsed: rollup.Gas{Computation: 20, DataAvailability: 10},
		RevertiblePrivateGasUsed:    rollup.Gas{Computation: 30, DataAvailability: 10},
	}
}

// sum adds up the given amounts of gas.
func sum(gas ...rollup.Gas) rollup.Gas {
	res := rollup.Gas{}
	for _, cur := range gas {
		res = res.Add(cur)
	}
	return res
}

// fee prices the given amount of gas with the settings of getTransaction.
func fee(gas rollup.Gas) rollup.Field {
	return rollup.NewField(1000 + 2*gas.Computation + 3*gas.DataAvailability)
}

func counterLog(value uint64) rollup.Log {
	return rollup.Log{Contract: counterAddress, Fields: []rollup.Field{counterSlot, rollup.NewField(value)}}
}

func feeLog(value rollup.Field) rollup.Log {
	return rollup.Log{Contract: feeAddress, Fields: []rollup.Field{feeSlot, value}}
}

func getScenarios() map[string]Scenario {
	tx := getTransaction()
	private := sum(tx.NonRevertiblePrivateGasUsed, tx.RevertiblePrivateGasUsed)
	teardownLimits := tx.GasSettings.TeardownGasLimits
	before := WorldState{counterAddress: Storage{counterSlot: rollup.NewField(5)}}
	res := map[string]Scenario{}

	withCalls := func(setup []rollup.CallRequest, appLogic []rollup.CallRequest, teardown *rollup.CallRequest) rollup.Transaction {
		res := getTransaction()
		res.SetupCalls = setup
		res.AppLogicCalls = appLogic
		res.TeardownCall = teardown
		return res
	}

	feeGas := sum(private, incrementGas, teardownLimits)
	res["AppLogicOnly"] = Scenario{
		Before:      before,
		After:       WorldState{counterAddress: Storage{counterSlot: rollup.NewField(6)}},
		Transaction: withCalls(nil, []rollup.CallRequest{increment}, nil),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeOK,
			Phases:         []rollup.Phase{rollup.PhaseAppLogic},
			TotalGasUsed:   sum(private, incrementGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{counterLog(6)},
		},
	}

	feeGas = sum(private, incrementGas, incrementGas, teardownLimits)
	res["AllPhasesSucceed"] = Scenario{
		Before: before,
		After: WorldState{
			counterAddress: Storage{counterSlot: rollup.NewField(7)},
			feeAddress:     Storage{feeSlot: fee(feeGas)},
		},
		Transaction: withCalls([]rollup.CallRequest{increment}, []rollup.CallRequest{increment}, &payFee),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeOK,
			Phases:         rollup.GetAllPhases(),
			TotalGasUsed:   sum(private, incrementGas, incrementGas, payFeeGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{counterLog(6), counterLog(7), feeLog(fee(feeGas))},
		},
	}

	feeGas = sum(private, incrementGas, incrementGas, failGas, teardownLimits)
	res["AppLogicReverted"] = Scenario{
		Before: before,
		After: WorldState{
			counterAddress: Storage{counterSlot: rollup.NewField(6)},
			feeAddress:     Storage{feeSlot: fee(feeGas)},
		},
		Transaction: withCalls([]rollup.CallRequest{increment}, []rollup.CallRequest{increment, fail, increment}, &payFee),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeAppLogicReverted,
			Phases:         rollup.GetAllPhases(),
			TotalGasUsed:   sum(private, incrementGas, incrementGas, failGas, payFeeGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{counterLog(6), feeLog(fee(feeGas))},
		},
	}

	feeGas = sum(private, incrementGas, teardownLimits)
	res["TeardownReverted"] = Scenario{
		Before:      before,
		After:       WorldState{counterAddress: Storage{counterSlot: rollup.NewField(6)}},
		Transaction: withCalls(nil, []rollup.CallRequest{increment}, &fail),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeTeardownReverted,
			Phases:         []rollup.Phase{rollup.PhaseAppLogic, rollup.PhaseTeardown},
			TotalGasUsed:   sum(private, incrementGas, failGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{counterLog(6)},
		},
	}

	feeGas = sum(private, failGas, teardownLimits)
	res["BothReverted"] = Scenario{
		Before:      before,
		After:       before,
		Transaction: withCalls(nil, []rollup.CallRequest{fail}, &fail),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeBothReverted,
			Phases:         []rollup.Phase{rollup.PhaseAppLogic, rollup.PhaseTeardown},
			TotalGasUsed:   sum(private, failGas, failGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
		},
	}

	feeGas = sum(private, incrementGas, incrementGas, incrementGas, teardownLimits)
	res["WritesAreSquashedAcrossPhases"] = Scenario{
		Before:      before,
		After:       WorldState{counterAddress: Storage{counterSlot: rollup.NewField(8)}},
		Transaction: withCalls([]rollup.CallRequest{increment}, []rollup.CallRequest{increment, increment}, nil),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeOK,
			Phases:         []rollup.Phase{rollup.PhaseSetup, rollup.PhaseAppLogic},
			TotalGasUsed:   sum(private, incrementGas, incrementGas, incrementGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{counterLog(6), counterLog(7), counterLog(8)},
		},
	}

	available := tx.GasSettings.GasLimits.Sub(private)
	feeGas = sum(private, available, teardownLimits)
	res["AppLogicOutOfGas"] = Scenario{
		Before:      before,
		After:       before,
		Transaction: withCalls(nil, []rollup.CallRequest{burn}, nil),
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeAppLogicReverted,
			Phases:         []rollup.Phase{rollup.PhaseAppLogic},
			TotalGasUsed:   tx.GasSettings.GasLimits,
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
		},
	}

	feeGas = sum(private, teardownLimits)
	privateOnly := withCalls(nil, nil, nil)
	privateOnly.NonRevertibleLogs = []rollup.Log{privateLog}
	res["PrivateOnly"] = Scenario{
		Before:      before,
		After:       before,
		Transaction: privateOnly,
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeOK,
			TotalGasUsed:   private,
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{privateLog},
		},
	}

	feeGas = sum(private, failGas, teardownLimits)
	withPrivateLog := withCalls(nil, []rollup.CallRequest{fail}, nil)
	withPrivateLog.NonRevertibleLogs = []rollup.Log{privateLog}
	res["NonRevertibleLogsSurviveReverts"] = Scenario{
		Before:      before,
		After:       before,
		Transaction: withPrivateLog,
		Outcome: Outcome{
			RevertCode:     rollup.RevertCodeAppLogicReverted,
			Phases:         []rollup.Phase{rollup.PhaseAppLogic},
			TotalGasUsed:   sum(private, failGas),
			FeeGasUsed:     feeGas,
			TransactionFee: fee(feeGas),
			Logs:           []rollup.Log{privateLog},
		},
	}

	res["SetupReverted"] = Scenario{
		Before:      before,
		Transaction: withCalls([]rollup.CallRequest{increment, fail}, []rollup.CallRequest{increment}, &payFee),
		Error:       enqueued.ErrSetupReverted,
	}

	invalidSettings := withCalls(nil, []rollup.CallRequest{increment}, nil)
	invalidSettings.GasSettings.TeardownGasLimits = rollup.Gas{Computation: 1_000_000}
	res["InvalidGasSettings"] = Scenario{
		Before:      before,
		Transaction: invalidSettings,
		Error:       rollup.ErrInvalidGasSettings,
	}

	res["ZeroContractAddress"] = Scenario{
		Before:      before,
		Transaction: withCalls(nil, []rollup.CallRequest{{FunctionSelector: scripted.SelectorIncrement}}, nil),
		Error:       rollup.ErrInvalidCallRequest,
	}

	return res
}

func TestProcessor_Scenarios(t *testing.T) {
	for name, scenario := range getScenarios() {
		t.Run(name, func(t *testing.T) {
			scenario.Contracts = getContracts()
			scenario.Globals = rollup.GlobalVariables{BlockNumber: 12, FeeRecipient: rollup.AddressFromUint64(0x99)}
			scenario.Run(t, "enqueued")
		})
	}
}

func TestProcessor_RevertedPhasesContributeNoWrites(t *testing.T) {
	scenario := getScenarios()["AppLogicReverted"]
	scenario.Contracts = getContracts()
	result := scenario.Run(t, "enqueued")

	for _, phase := range result.ProcessedPhases {
		if phase.Reverted() && (phase.Writes != nil || phase.Logs != nil) {
			t.Errorf("reverted %v phase reports writes %v and logs %v", phase.Phase, phase.Writes, phase.Logs)
		}
		if !phase.Reverted() && len(phase.Writes) == 0 {
			t.Errorf("successful %v phase reports no writes", phase.Phase)
		}
	}
	if want, got := 2, len(result.SquashedWrites); want != got {
		t.Errorf("unexpected number of squashed writes, wanted %d, got %d", want, got)
	}
}

func TestProcessor_SquashedWritesHoldOneEntryPerSlot(t *testing.T) {
	scenario := getScenarios()["WritesAreSquashedAcrossPhases"]
	scenario.Contracts = getContracts()
	result := scenario.Run(t, "enqueued")

	if want, got := 1, len(result.SquashedWrites); want != got {
		t.Fatalf("unexpected number of squashed writes, wanted %d, got %d", want, got)
	}
	write := result.SquashedWrites[0]
	if write.Contract != counterAddress || write.Slot != counterSlot || write.Value != rollup.NewField(8) {
		t.Errorf("unexpected squashed write: %+v", write)
	}
	if want, got := 3, len(result.ProcessedPhases[0].Writes)+len(result.ProcessedPhases[1].Writes); want != got {
		t.Errorf("unexpected number of phase writes, wanted %d, got %d", want, got)
	}
}

func TestProcessor_GasUsedPerPhaseAddsUpToTotal(t *testing.T) {
	for name, scenario := range getScenarios() {
		if scenario.Error != nil {
			continue
		}
		t.Run(name, func(t *testing.T) {
			scenario.Contracts = getContracts()
			result := scenario.Run(t, "enqueued")
			tx := getTransaction()
			total := sum(tx.NonRevertiblePrivateGasUsed, tx.RevertiblePrivateGasUsed)
			for _, phase := range maps.Keys(result.GasUsed) {
				total = total.Add(result.GasUsed[phase])
			}
			if want, got := result.TotalGasUsed, total; want != got {
				t.Errorf("phase gas does not add up, wanted %v, got %v", want, got)
			}
			for _, phase := range result.ProcessedPhases {
				if want, got := result.GasUsed[phase.Phase], phase.GasUsed; want != got {
					t.Errorf("inconsistent gas of %v phase, %v != %v", phase.Phase, want, got)
				}
			}
		})
	}
}
