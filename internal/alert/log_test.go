package alert

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwatch-sim/internal/grid"
)

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 3; i++ {
		_, evicted := r.Push(i)
		assert.False(t, evicted)
	}
	assert.Equal(t, []int{1, 2, 3}, r.Items())

	old, evicted := r.Push(4)
	require.True(t, evicted)
	assert.Equal(t, 1, old)
	assert.Equal(t, []int{2, 3, 4}, r.Items())
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 3, r.Cap())
}

func TestRingDefaultCapacity(t *testing.T) {
	r := NewRing[string](0)
	assert.Equal(t, DefaultCapacity, r.Cap())
	assert.Empty(t, r.Items())
}

func TestRingNeverExceedsCapacity(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 100; i++ {
		r.Push(i)
		assert.LessOrEqual(t, r.Len(), 4)
	}
	assert.Equal(t, []int{96, 97, 98, 99}, r.Items())
}

func reading(metric string, status grid.Status, v float64) grid.Reading {
	return grid.Reading{Metric: metric, Unit: "MW", Value: v, Status: status, Trend: grid.TrendUp, Timestamp: time.Unix(0, 0).UTC()}
}

func TestLogIgnoresOptimal(t *testing.T) {
	l := NewLog(5)
	_, ok := l.Record(reading("load", grid.StatusOptimal, 10))
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())

	e, ok := l.Record(reading("load", grid.StatusWarning, 75))
	require.True(t, ok)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "load warning: 75.00 MW (up)", e.Message)

	_, ok = l.Record(reading("load", grid.StatusUnknown, 75))
	assert.True(t, ok)
}

func TestLogKeepsLastK(t *testing.T) {
	const k = 5
	l := NewLog(k)
	for i := 0; i <= k; i++ {
		l.Record(reading(fmt.Sprintf("m%d", i), grid.StatusCritical, float64(i)))
	}
	snap := l.Snapshot()
	require.Len(t, snap, k)
	for _, e := range snap {
		assert.NotEqual(t, "m0", e.Reading.Metric, "oldest entry should be evicted")
	}
	assert.Equal(t, "m5", snap[0].Reading.Metric, "snapshot is newest first")
	assert.Equal(t, "m1", snap[k-1].Reading.Metric)
}

func TestLogConcurrentRecord(t *testing.T) {
	l := NewLog(3)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Record(reading("load", grid.StatusWarning, float64(i)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 3, l.Cap())
}
