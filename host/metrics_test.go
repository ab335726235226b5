// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"errors"
	"testing"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/fhe16"
	"github.com/luxfi/fhe16/journal"
)

func TestMetricsCountRecordsAndUnits(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	h := New(fhe16.Namespace{0x01}, journal.NewMemory(), log.NoLog{}, metrics)

	_, err := h.RequestBinary(fhe16.Caller{}, fhe16.Add, fhe16.Handle{1}, fhe16.Handle{2})
	require.NoError(t, err)

	_, err = h.RequestUnary(fhe16.Caller{}, fhe16.Not, fhe16.Handle{1})
	require.NoError(t, err)

	err = h.Atomic(func(*Session) error { return errors.New("boom") })
	require.Error(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.recordsEmittedCount.WithLabelValues("binary")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.recordsEmittedCount.WithLabelValues("unary")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.unitsCommittedCount))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.unitsAbortedCount))
}
