// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package executor

import (
	"github.com/luxfi/log"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/journal"
)

// Executor drains a journal: it tracks requested operations, evaluates the
// ones whose operand ciphertexts are available, and publishes results keyed
// by the derived handles. Liveness is best-effort; requests whose inputs
// were never provided simply stay pending.
type Executor struct {
	tracker   *Tracker
	evaluator Evaluator
	results   *ResultStore
	log       log.Logger
}

// New creates an executor for records issued under [namespace]
func New(namespace fhe16.Namespace, evaluator Evaluator, capacity int, logger log.Logger) *Executor {
	return &Executor{
		tracker:   NewTracker(namespace, logger),
		evaluator: evaluator,
		results:   NewResultStore(capacity),
		log:       logger,
	}
}

// PublishInput provides the ciphertext for a registered input handle. The
// handle is not checked against the ciphertext: handles are asserted names,
// not commitments.
func (e *Executor) PublishInput(handle fhe16.Handle, ct Ciphertext) {
	e.results.Put(handle, ct)
	e.tracker.MarkComputed(handle)
}

// Result returns the ciphertext published under a handle, if any
func (e *Executor) Result(handle fhe16.Handle) (Ciphertext, bool) {
	return e.results.Cached(handle)
}

// Dependencies exposes the tracked DAG edges for a result handle
func (e *Executor) Dependencies(result fhe16.Handle) []fhe16.Handle {
	return e.tracker.Dependencies(result)
}

// Process observes every journal entry and evaluates until no more progress
// can be made. Returns the number of results computed in this pass.
func (e *Executor) Process(jrnl journal.Journal) (int, error) {
	if err := e.tracker.Sync(jrnl); err != nil {
		return 0, err
	}

	computed := 0
	for {
		progressed := false
		for _, job := range e.tracker.Ready() {
			inputs := make([]Ciphertext, 0, len(job.Operands))
			available := true
			for _, operand := range job.Operands {
				ct, ok := e.results.Cached(operand)
				if !ok {
					available = false
					break
				}
				inputs = append(inputs, ct)
			}
			if !available {
				continue
			}

			out, err := job.Evaluate(e.evaluator, inputs)
			if err != nil {
				return computed, err
			}

			e.results.Put(job.Result, out)
			e.tracker.MarkComputed(job.Result)
			e.log.Debug("result published", log.Stringer("handle", job.Result))
			computed++
			progressed = true
		}
		if !progressed {
			return computed, nil
		}
	}
}
