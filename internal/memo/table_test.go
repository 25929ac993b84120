package memo

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_GetPutDelete(t *testing.T) {
	tbl := New[uint64, string]("test")

	_, ok := tbl.Get(1)
	assert.False(t, ok)

	tbl.Put(1, "one")
	v, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	tbl.Delete(1)
	tbl.Delete(1) // no-op
	_, ok = tbl.Get(1)
	assert.False(t, ok)

	assert.Equal(t, Stats{Hits: 1, Misses: 2, Size: 0}, tbl.Stats())
}

func TestTable_Clear(t *testing.T) {
	tbl := New[int, int]("test")
	for i := 0; i < 10; i++ {
		tbl.Put(i, i*i)
	}
	require.Equal(t, 10, tbl.Len())
	tbl.Clear()
	assert.Equal(t, 0, tbl.Len())
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := New[int, int]("test")
	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			tbl.Put(i, i)
			v, ok := tbl.Get(i)
			assert.True(t, ok)
			assert.Equal(t, i, v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, n, tbl.Len())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	tbl := New[int, int]("degree")
	tbl.Instrument(m)
	tbl.Put(1, 1)
	tbl.Put(2, 2)
	tbl.Get(1)
	tbl.Get(3)
	tbl.Get(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits.WithLabelValues("degree")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.misses.WithLabelValues("degree")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.entries.WithLabelValues("degree")))

	again, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m.hits, again.hits)
}
