package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/indicalc/pkg/types"
)

func TestMemoryService(t *testing.T) {
	t.Run("load_empty", func(t *testing.T) {
		service := NewMemoryService()
		store := service.NewStore("test")

		j := 0
		err := store.Load(&j)
		assert.ErrorIs(t, err, ErrPersistenceNotExists)
	})

	t.Run("save_and_load", func(t *testing.T) {
		service := NewMemoryService()
		store := service.NewStore("test")

		i := 3
		err := store.Save(i)

		assert.NoError(t, err)

		var j = 0
		err = store.Load(&j)
		assert.NoError(t, err)
		assert.Equal(t, i, j)
	})

	t.Run("save_pointer", func(t *testing.T) {
		service := NewMemoryService()
		store := service.NewStore("status", "BTCUSDT@1h")

		status := &types.PairStatus{State: types.PairStateSleeping, Cycles: 3}
		assert.NoError(t, store.Save(status))

		var loaded types.PairStatus
		assert.NoError(t, store.Load(&loaded))
		assert.Equal(t, *status, loaded)

		assert.NoError(t, store.Reset())
		assert.ErrorIs(t, store.Load(&loaded), ErrPersistenceNotExists)
	})
}

func TestJsonPersistenceService(t *testing.T) {
	service := &JsonPersistenceService{Directory: t.TempDir()}
	store := service.NewStore("BTCUSDT@1h", "status")

	var status types.PairStatus
	assert.ErrorIs(t, store.Load(&status), ErrPersistenceNotExists)

	saved := types.PairStatus{
		Pair:       types.Pair{Asset: "BTCUSDT", Interval: types.Interval1h},
		State:      types.PairStateDrained,
		Checkpoint: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		WindowSize: 42,
	}
	assert.NoError(t, store.Save(saved))
	assert.NoError(t, store.Load(&status))
	assert.Equal(t, saved, status)

	assert.NoError(t, store.Reset())
	assert.NoError(t, store.Reset(), "resetting a missing file is fine")
}

func TestJsonStore_ConcurrentSave(t *testing.T) {
	service := &JsonPersistenceService{Directory: t.TempDir()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(cycles int64) {
			defer wg.Done()
			// each writer owns its handle, like separate processes do
			store := service.NewStore("BTCUSDT@1h", "status")
			assert.NoError(t, store.Save(types.PairStatus{Cycles: cycles}))
		}(int64(i))
	}
	wg.Wait()

	var status types.PairStatus
	require.NoError(t, service.NewStore("BTCUSDT@1h", "status").Load(&status))
	assert.True(t, status.Cycles >= 0 && status.Cycles < 8)
}

func TestPersistenceServiceFacade_Get(t *testing.T) {
	facade := NewPersistenceServiceFacade(nil, &JsonPersistenceConfig{Directory: t.TempDir()})

	s, err := facade.Get("memory")
	assert.NoError(t, err)
	assert.Equal(t, facade.Memory, s)

	s, err = facade.Get("json")
	assert.NoError(t, err)
	assert.Equal(t, facade.Json, s)

	_, err = facade.Get("redis")
	assert.Error(t, err)

	_, err = facade.Get("etcd")
	assert.Error(t, err)
}
