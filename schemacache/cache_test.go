package schemacache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-Wang/Swifka-sub000/avro"
	"github.com/Ender-Wang/Swifka-sub000/errors"
	"github.com/Ender-Wang/Swifka-sub000/metric"
	"github.com/Ender-Wang/Swifka-sub000/protobuf"
)

func TestCache_SetGetDelete(t *testing.T) {
	cache, err := New[string]()
	require.NoError(t, err)

	created, err := cache.Set("k1", "v1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = cache.Set("k1", "v2")
	require.NoError(t, err)
	assert.False(t, created, "overwrite is not a new entry")

	value, ok := cache.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "v2", value)

	_, ok = cache.Get("missing")
	assert.False(t, ok)

	deleted, err := cache.Delete("k1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = cache.Delete("k1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCache_EmptyKeyRejected(t *testing.T) {
	cache, err := New[int]()
	require.NoError(t, err)

	_, err = cache.Set("", 1)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	_, err = cache.Delete("")
	require.Error(t, err)
}

func TestCache_Statistics(t *testing.T) {
	cache, err := New[int]()
	require.NoError(t, err)

	_, _ = cache.Set("a", 1)
	_, _ = cache.Set("b", 2)
	cache.Get("a")
	cache.Get("a")
	cache.Get("nope")

	stats := cache.Stats().Snapshot()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.Sets)
	assert.Equal(t, int64(2), stats.CurrentSize)
	assert.InDelta(t, 2.0/3.0, stats.HitRatio, 1e-9)
}

func TestCache_EvictCallback(t *testing.T) {
	var evicted []string
	cache, err := New[int](WithEvictCallback[int](func(key string, _ int) {
		evicted = append(evicted, key)
	}))
	require.NoError(t, err)

	_, _ = cache.Set("a", 1)
	_, _ = cache.Set("b", 2)

	_, err = cache.Delete("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, evicted)

	cache.Clear()
	assert.Len(t, evicted, 2)
	assert.Equal(t, 0, cache.Size())
}

func TestCache_WithMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	cache, err := New[int](WithMetrics[int](registry, "proto-schemas"))
	require.NoError(t, err)

	_, _ = cache.Set("a", 1)
	cache.Get("a")
	cache.Get("miss")

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["wirelens_schemacache_hits_total"])
	assert.True(t, names["wirelens_schemacache_size"])
}

func TestCache_MetricsRegistrationConflict(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	_, err := New[int](WithMetrics[int](registry, "dup"))
	require.NoError(t, err)

	// Same component name registers the same metric keys again.
	_, err = New[int](WithMetrics[int](registry, "dup"))
	require.Error(t, err)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache, err := New[int]()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			keys := []string{"a", "b", "c", "d"}
			for j := 0; j < 100; j++ {
				key := keys[(n+j)%len(keys)]
				_, _ = cache.Set(key, j)
				cache.Get(key)
				if j%10 == 0 {
					_, _ = cache.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Size(), 4)
}

func TestGetProto_ParseThrough(t *testing.T) {
	cache, err := New[*protobuf.Schema]()
	require.NoError(t, err)

	schema, err := GetProto(cache, "orders", `message Order { int32 qty = 1; }`)
	require.NoError(t, err)
	_, ok := schema.Message("Order")
	assert.True(t, ok)
	assert.Equal(t, int64(1), cache.Stats().Misses())

	// Second lookup hits; the text is ignored.
	again, err := GetProto(cache, "orders", `message Ignored {}`)
	require.NoError(t, err)
	assert.Same(t, schema, again)
	assert.Equal(t, int64(1), cache.Stats().Hits())
}

func TestGetAvro_ParseThrough(t *testing.T) {
	cache, err := New[*avro.Schema]()
	require.NoError(t, err)

	schema, err := GetAvro(cache, "readings", `{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	require.NoError(t, err)
	assert.Equal(t, avro.KindRecord, schema.Kind)

	// Parse failures are not cached.
	_, err = GetAvro(cache, "bad", `{broken`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidSchema)
	assert.Equal(t, 1, cache.Size())

	// The bad key stays a miss, so a corrected schema can land later.
	fixed, err := GetAvro(cache, "bad", `"long"`)
	require.NoError(t, err)
	assert.Equal(t, avro.KindLong, fixed.Kind)
	assert.Equal(t, 2, cache.Size())
}
