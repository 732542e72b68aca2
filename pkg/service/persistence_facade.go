package service

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type PersistenceServiceFacade struct {
	Redis  *RedisPersistenceService
	Json   *JsonPersistenceService
	Memory *MemoryService
}

// NewPersistenceServiceFacade configures the backends that have a config; memory is
// always available.
func NewPersistenceServiceFacade(redisConfig *RedisPersistenceConfig, jsonConfig *JsonPersistenceConfig) *PersistenceServiceFacade {
	facade := &PersistenceServiceFacade{
		Memory: NewMemoryService(),
	}

	if redisConfig != nil {
		log.Infof("redis persistence is enabled: %s:%s", redisConfig.Host, redisConfig.Port)
		facade.Redis = NewRedisPersistenceService(redisConfig)
	}

	if jsonConfig != nil && jsonConfig.Directory != "" {
		log.Infof("json persistence is enabled: %s", jsonConfig.Directory)
		facade.Json = &JsonPersistenceService{Directory: jsonConfig.Directory}
	}

	return facade
}

// Get returns the persistence service of the given type, one of "memory", "json" and
// "redis".
func (facade *PersistenceServiceFacade) Get(t string) (PersistenceService, error) {
	switch t {
	case "", "memory":
		return facade.Memory, nil

	case "json":
		if facade.Json != nil {
			return facade.Json, nil
		}

	case "redis":
		if facade.Redis != nil {
			return facade.Redis, nil
		}

	default:
		return nil, fmt.Errorf("unsupported persistence type %q", t)
	}

	return nil, fmt.Errorf("persistence type %q is not configured", t)
}
