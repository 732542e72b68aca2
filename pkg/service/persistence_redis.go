package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var redisLogger = log.WithField("persistence", "redis")

// RedisTimeout bounds every redis command issued by the stores.
var RedisTimeout = 3 * time.Second

// RedisPersistenceService keeps each store under one key. Keys are joined with ":" and
// prefixed with the configured namespace.
type RedisPersistenceService struct {
	redis     *redis.Client
	namespace string

	// ttl applies to the values that do not implement Expirable, zero keeps them forever.
	ttl time.Duration
}

func NewRedisPersistenceService(config *RedisPersistenceConfig) *RedisPersistenceService {
	client := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(config.Host, config.Port),
		// pragma: allowlist nextline secret
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisPersistenceService{
		redis:     client,
		namespace: config.Namespace,
		ttl:       config.TTL,
	}
}

func (s *RedisPersistenceService) key(id string, subIDs ...string) string {
	parts := make([]string, 0, len(subIDs)+2)
	if s.namespace != "" {
		parts = append(parts, s.namespace)
	}

	parts = append(parts, id)
	parts = append(parts, subIDs...)
	return strings.Join(parts, ":")
}

// Ping checks that the server is reachable, so a misconfigured status store fails at
// start-up instead of on the first saved status.
func (s *RedisPersistenceService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, RedisTimeout)
	defer cancel()

	return s.redis.Ping(ctx).Err()
}

func (s *RedisPersistenceService) NewStore(id string, subIDs ...string) Store {
	return &RedisStore{
		redis: s.redis,
		ID:    s.key(id, subIDs...),
		TTL:   s.ttl,
	}
}

type RedisStore struct {
	redis *redis.Client

	ID  string
	TTL time.Duration
}

func (store *RedisStore) expiration(val interface{}) time.Duration {
	if expiring, ok := val.(Expirable); ok {
		return expiring.Expiration()
	}

	return store.TTL
}

func (store *RedisStore) Load(val interface{}) error {
	if store.redis == nil {
		return errors.New("can not load from redis, redis persistence is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), RedisTimeout)
	defer cancel()

	data, err := store.redis.Get(ctx, store.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrPersistenceNotExists
	} else if err != nil {
		return err
	}

	redisLogger.Debugf("get %s: %s", store.ID, data)

	if len(data) == 0 || string(data) == "null" {
		return ErrPersistenceNotExists
	}

	return json.Unmarshal(data, val)
}

func (store *RedisStore) Save(val interface{}) error {
	if val == nil {
		return nil
	}

	if store.redis == nil {
		return errors.New("can not save to redis, redis persistence is not configured")
	}

	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), RedisTimeout)
	defer cancel()

	ttl := store.expiration(val)
	redisLogger.Debugf("set %s (ttl %s): %s", store.ID, ttl, data)
	return store.redis.Set(ctx, store.ID, data, ttl).Err()
}

func (store *RedisStore) Reset() error {
	if store.redis == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), RedisTimeout)
	defer cancel()

	return store.redis.Del(ctx, store.ID).Err()
}
