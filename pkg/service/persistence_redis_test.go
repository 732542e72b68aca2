package service

import (
	"context"
	"testing"
	"time"

	"github.com/codingconcepts/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/indicalc/pkg/testutil"
	"github.com/c9s/indicalc/pkg/types"
)

func TestRedisPersistentService(t *testing.T) {
	if _, ok := testutil.IntegrationTestConfigured(t, "REDIS"); !ok {
		t.Skip("redis integration test is not configured")
	}

	var config RedisPersistenceConfig
	require.NoError(t, env.Set(&config))

	if config.Port == "" {
		config.Port = "6379"
	}
	config.TTL = time.Minute

	redisService := NewRedisPersistenceService(&config)
	assert.NotNil(t, redisService)
	require.NoError(t, redisService.Ping(context.Background()))

	store := redisService.NewStore("indicalc", "test")
	assert.NotNil(t, store)

	err := store.Reset()
	assert.NoError(t, err)

	var status types.PairStatus
	err = store.Load(&status)
	assert.Error(t, err)
	assert.EqualError(t, ErrPersistenceNotExists, err.Error())

	saved := types.PairStatus{State: types.PairStateFetching, Cycles: 7}
	err = store.Save(&saved)
	assert.NoError(t, err, "should store value without error")

	var loaded types.PairStatus
	err = store.Load(&loaded)
	assert.NoError(t, err, "should load value without error")
	assert.Equal(t, saved, loaded)

	ttl, err := redisService.redis.TTL(context.Background(), store.(*RedisStore).ID).Result()
	assert.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl = %s", ttl)

	err = store.Reset()
	assert.NoError(t, err)
}

type expiringStatus struct {
	types.PairStatus
}

func (expiringStatus) Expiration() time.Duration {
	return time.Hour
}

func TestRedisPersistenceService_Keys(t *testing.T) {
	s := NewRedisPersistenceService(&RedisPersistenceConfig{Host: "127.0.0.1", Port: "6379", Namespace: "prod", TTL: time.Minute})

	store := s.NewStore("indicalc", "status", "BTCUSDT@1h").(*RedisStore)
	assert.Equal(t, "prod:indicalc:status:BTCUSDT@1h", store.ID)
	assert.Equal(t, time.Minute, store.TTL)

	s = NewRedisPersistenceService(&RedisPersistenceConfig{Host: "127.0.0.1", Port: "6379"})
	assert.Equal(t, "indicalc", s.NewStore("indicalc").(*RedisStore).ID)
}

func TestRedisStore_Expiration(t *testing.T) {
	store := &RedisStore{ID: "indicalc:status", TTL: time.Minute}
	assert.Equal(t, time.Minute, store.expiration(&types.PairStatus{}))
	assert.Equal(t, time.Hour, store.expiration(expiringStatus{}), "the value decides its own expiration")

	store.TTL = 0
	assert.Zero(t, store.expiration(&types.PairStatus{}))
}

func TestRedisStore_NotConfigured(t *testing.T) {
	store := &RedisStore{ID: "indicalc:status"}
	assert.Error(t, store.Load(&types.PairStatus{}))
	assert.Error(t, store.Save(&types.PairStatus{}))
	assert.NoError(t, store.Reset())
}
