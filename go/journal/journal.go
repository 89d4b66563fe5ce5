// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package journal

import (
	"fmt"

	"github.com/Fantom-foundation/Tosca-Rollup/go/rollup"
	"golang.org/x/exp/slices"
)

const (
	// ErrCheckpointOrder is returned when a checkpoint is closed while it is
	// not the most recently opened one. This is a programming error.
	ErrCheckpointOrder = rollup.ConstError("checkpoint closed out of order")

	// ErrUnknownCheckpoint is returned for handles not referring to an
	// open checkpoint.
	ErrUnknownCheckpoint = rollup.ConstError("unknown checkpoint")
)

// Journal is an append-only log of the storage writes and logs produced while
// processing a single transaction. It buffers all modifications on top of a
// read-only public state tree and supports nested checkpoints to roll back
// the modifications of reverted calls and phases.
//
// Writes are kept in a single slice. A checkpoint is a cursor into this
// slice, and reverting a checkpoint truncates the slice. Reads are served
// through a per-slot stack of write positions.
//
// A Journal is not thread-safe. It is intended to be used by a single
// transaction and then discarded.
type Journal struct {
	tree        rollup.PublicStateTree
	writes      []rollup.WriteRecord
	logs        []rollup.Log
	latest      map[slotKey][]int // positions of the surviving writes per slot
	checkpoints []checkpoint      // stack of open checkpoints
	nextID      rollup.Checkpoint
	nextSeq     uint64
}

type slotKey struct {
	contract rollup.Address
	slot     rollup.Field
}

type checkpoint struct {
	id     rollup.Checkpoint
	writes int
	logs   int
}

// New creates an empty journal on top of the given tree. A nil tree is
// interpreted as an empty state.
func New(tree rollup.PublicStateTree) *Journal {
	return &Journal{
		tree:   tree,
		latest: map[slotKey][]int{},
	}
}

// ReadStorage returns the value of the latest surviving write to the given
// slot. If there is none, the value is obtained from the tree.
func (j *Journal) ReadStorage(contract rollup.Address, slot rollup.Field) (rollup.Field, error) {
	if positions := j.latest[slotKey{contract, slot}]; len(positions) > 0 {
		return j.writes[positions[len(positions)-1]].Value, nil
	}
	if j.tree == nil {
		return rollup.Field{}, nil
	}
	value, err := j.tree.GetLeafValue(contract, slot)
	if err != nil {
		return rollup.Field{}, fmt.Errorf("failed to read slot %v of contract %v: %w", slot, contract, err)
	}
	return value, nil
}

// WriteStorage records a write of the given value to the given slot.
func (j *Journal) WriteStorage(contract rollup.Address, slot rollup.Field, value rollup.Field) {
	key := slotKey{contract, slot}
	j.latest[key] = append(j.latest[key], len(j.writes))
	j.writes = append(j.writes, rollup.WriteRecord{
		Contract: contract,
		Slot:     slot,
		Value:    value,
		Sequence: j.nextSeq,
	})
	j.nextSeq++
}

// EmitLog records the given log. Logs are rolled back like writes.
func (j *Journal) EmitLog(log rollup.Log) {
	j.logs = append(j.logs, rollup.Log{
		Contract: log.Contract,
		Fields:   slices.Clone(log.Fields),
	})
}

// Checkpoint opens a new scope of modifications.
func (j *Journal) Checkpoint() rollup.Checkpoint {
	id := j.nextID
	j.nextID++
	j.checkpoints = append(j.checkpoints, checkpoint{
		id:     id,
		writes: len(j.writes),
		logs:   len(j.logs),
	})
	return id
}

// Commit closes the given checkpoint, keeping all modifications made since
// it was opened. The modifications become part of the enclosing scope.
func (j *Journal) Commit(id rollup.Checkpoint) error {
	if _, err := j.pop(id); err != nil {
		return err
	}
	return nil
}

// Revert closes the given checkpoint, discarding all modifications made
// since it was opened. Sequence numbers of discarded writes are not reused.
func (j *Journal) Revert(id rollup.Checkpoint) error {
	cp, err := j.pop(id)
	if err != nil {
		return err
	}
	for i := len(j.writes) - 1; i >= cp.writes; i-- {
		write := &j.writes[i]
		key := slotKey{write.Contract, write.Slot}
		positions := j.latest[key]
		if len(positions) <= 1 {
			delete(j.latest, key)
		} else {
			j.latest[key] = positions[:len(positions)-1]
		}
	}
	j.writes = j.writes[:cp.writes]
	j.logs = j.logs[:cp.logs]
	return nil
}

func (j *Journal) pop(id rollup.Checkpoint) (checkpoint, error) {
	if len(j.checkpoints) == 0 {
		return checkpoint{}, fmt.Errorf("%w: %d, no checkpoint is open", ErrUnknownCheckpoint, id)
	}
	top := j.checkpoints[len(j.checkpoints)-1]
	if top.id != id {
		if _, found := j.find(id); !found {
			return checkpoint{}, fmt.Errorf("%w: %d", ErrUnknownCheckpoint, id)
		}
		return checkpoint{}, fmt.Errorf("%w: closing %d while %d is open", ErrCheckpointOrder, id, top.id)
	}
	j.checkpoints = j.checkpoints[:len(j.checkpoints)-1]
	return top, nil
}

func (j *Journal) find(id rollup.Checkpoint) (checkpoint, bool) {
	for _, cp := range j.checkpoints {
		if cp.id == id {
			return cp, true
		}
	}
	return checkpoint{}, false
}

// Writes returns all surviving writes in the order they were issued.
func (j *Journal) Writes() []rollup.WriteRecord {
	return slices.Clone(j.writes)
}

// WritesSince returns the surviving writes issued since the given, still
// open, checkpoint was created.
func (j *Journal) WritesSince(id rollup.Checkpoint) ([]rollup.WriteRecord, error) {
	cp, found := j.find(id)
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCheckpoint, id)
	}
	return slices.Clone(j.writes[cp.writes:]), nil
}

// Logs returns all surviving logs in the order they were emitted.
func (j *Journal) Logs() []rollup.Log {
	return slices.Clone(j.logs)
}

// LogsSince returns the surviving logs emitted since the given, still open,
// checkpoint was created.
func (j *Journal) LogsSince(id rollup.Checkpoint) ([]rollup.Log, error) {
	cp, found := j.find(id)
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCheckpoint, id)
	}
	return slices.Clone(j.logs[cp.logs:]), nil
}

// Depth returns the number of open checkpoints.
func (j *Journal) Depth() int {
	return len(j.checkpoints)
}
