// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts records emitted and atomic units resolved. A nil *Metrics
// disables collection.
type Metrics struct {
	recordsEmittedCount *prometheus.CounterVec
	unitsCommittedCount prometheus.Counter
	unitsAbortedCount   prometheus.Counter
}

// NewMetrics creates and registers host metrics
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := Metrics{
		recordsEmittedCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fhe16_records_emitted_count",
				Help: "Number of request records emitted, by record kind",
			},
			[]string{"kind"},
		),
		unitsCommittedCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fhe16_units_committed_count",
				Help: "Number of atomic units committed",
			},
		),
		unitsAbortedCount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fhe16_units_aborted_count",
				Help: "Number of atomic units aborted, discarding their records",
			},
		),
	}

	registerer.MustRegister(m.recordsEmittedCount)
	registerer.MustRegister(m.unitsCommittedCount)
	registerer.MustRegister(m.unitsAbortedCount)

	return &m
}

func (m *Metrics) recordEmitted(kind string) {
	if m == nil {
		return
	}
	m.recordsEmittedCount.WithLabelValues(kind).Inc()
}

func (m *Metrics) unitCommitted() {
	if m == nil {
		return
	}
	m.unitsCommittedCount.Inc()
}

func (m *Metrics) unitAborted() {
	if m == nil {
		return
	}
	m.unitsAbortedCount.Inc()
}
