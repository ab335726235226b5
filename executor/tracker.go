// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package executor

import (
	"fmt"
	"sync"

	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/events"
	"github.com/luxfi/fhe16/journal"
)

// Tracker consumes journal entries and maintains the request graph: which
// result handles are awaited, which handles already have a value, and which
// jobs are ready to evaluate.
//
// Correlation uses the identical derivation algorithm as the host — same
// domain tags, same concatenation order, same hash — so every observed
// record is checked against an independent recomputation of its result
// handle. Identical (operation, operands) tuples share a result handle and
// are deduplicated: only the first occurrence becomes a job.
type Tracker struct {
	namespace fhe16.Namespace
	log       log.Logger

	mu       sync.Mutex
	seen     set.Set[fhe16.Handle] // result handles already tracked
	resolved set.Set[fhe16.Handle] // handles with a published value
	pending  map[fhe16.Handle]*Job
	operands map[fhe16.Handle][]fhe16.Handle // result -> operands, the DAG edges
}

// NewTracker creates a tracker correlating records issued under [namespace]
func NewTracker(namespace fhe16.Namespace, logger log.Logger) *Tracker {
	return &Tracker{
		namespace: namespace,
		log:       logger,
		seen:      set.NewSet[fhe16.Handle](0),
		resolved:  set.NewSet[fhe16.Handle](0),
		pending:   make(map[fhe16.Handle]*Job),
		operands:  make(map[fhe16.Handle][]fhe16.Handle),
	}
}

// Sync observes every entry of the journal in log order
func (t *Tracker) Sync(jrnl journal.Journal) error {
	entries, err := jrnl.Entries()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := t.Observe(entry); err != nil {
			return fmt.Errorf("entry %d: %w", entry.Seq, err)
		}
	}
	return nil
}

// Observe processes one journal entry. Request records become pending jobs;
// input registrations resolve their handle; workflow completion records are
// summaries and carry no new work.
func (t *Tracker) Observe(entry journal.Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev := entry.Event.(type) {
	case *events.InputHandleRegistered:
		t.resolved.Add(ev.Handle)
		t.log.Debug("input handle resolved", log.Stringer("handle", ev.Handle))
		return nil

	case *events.UnaryOpRequested:
		want := fhe16.DeriveUnaryHandle(t.namespace, ev.Op, ev.InputHandle)
		if want != ev.ResultHandle {
			return fmt.Errorf("%w: %s", ErrHandleMismatch, ev.ResultHandle)
		}
		t.addJob(&Job{
			Caller:   ev.Caller,
			Arity:    1,
			Op:       uint8(ev.Op),
			Operands: []fhe16.Handle{ev.InputHandle},
			Result:   ev.ResultHandle,
		})
		return nil

	case *events.BinaryOpRequested:
		want := fhe16.DeriveBinaryHandle(t.namespace, ev.Op, ev.LHSHandle, ev.RHSHandle)
		if want != ev.ResultHandle {
			return fmt.Errorf("%w: %s", ErrHandleMismatch, ev.ResultHandle)
		}
		t.addJob(&Job{
			Caller:   ev.Caller,
			Arity:    2,
			Op:       uint8(ev.Op),
			Operands: []fhe16.Handle{ev.LHSHandle, ev.RHSHandle},
			Result:   ev.ResultHandle,
		})
		return nil

	case *events.TernaryOpRequested:
		want := fhe16.DeriveTernaryHandle(t.namespace, ev.Op, ev.AHandle, ev.BHandle, ev.CHandle)
		if want != ev.ResultHandle {
			return fmt.Errorf("%w: %s", ErrHandleMismatch, ev.ResultHandle)
		}
		t.addJob(&Job{
			Caller:   ev.Caller,
			Arity:    3,
			Op:       uint8(ev.Op),
			Operands: []fhe16.Handle{ev.AHandle, ev.BHandle, ev.CHandle},
			Result:   ev.ResultHandle,
		})
		return nil

	default:
		// Workflow summaries and future record types carry no executor work
		return nil
	}
}

// addJob registers a pending job unless its result handle was already seen
func (t *Tracker) addJob(job *Job) {
	if t.seen.Contains(job.Result) {
		t.log.Debug("dropping duplicate request", log.Stringer("result", job.Result))
		return
	}
	t.seen.Add(job.Result)
	t.pending[job.Result] = job
	t.operands[job.Result] = job.Operands
}

// Ready returns the pending jobs whose operands are all resolved
func (t *Tracker) Ready() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ready []*Job
	for _, job := range t.pending {
		if t.operandsResolved(job) {
			ready = append(ready, job)
		}
	}
	return ready
}

func (t *Tracker) operandsResolved(job *Job) bool {
	for _, operand := range job.Operands {
		if !t.resolved.Contains(operand) {
			return false
		}
	}
	return true
}

// MarkComputed records that a value was published under [handle], resolving
// it as an operand for dependent jobs
func (t *Tracker) MarkComputed(handle fhe16.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resolved.Add(handle)
	delete(t.pending, handle)
}

// PendingCount returns the number of jobs awaiting evaluation
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Dependencies returns the operand handles a result was requested over, or
// nil for handles this tracker never saw requested. Walking Dependencies
// transitively reconstructs the computation DAG from record contents alone.
func (t *Tracker) Dependencies(result fhe16.Handle) []fhe16.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	operands, ok := t.operands[result]
	if !ok {
		return nil
	}
	out := make([]fhe16.Handle, len(operands))
	copy(out, operands)
	return out
}
