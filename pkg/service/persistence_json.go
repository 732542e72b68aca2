package service

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

type JsonPersistenceService struct {
	Directory string
}

func (s *JsonPersistenceService) NewStore(id string, subIDs ...string) Store {
	return &JsonStore{
		ID:        id,
		Directory: filepath.Join(append([]string{s.Directory}, subIDs...)...),
	}
}

type JsonStore struct {
	ID        string
	Directory string
}

func (store JsonStore) path() string {
	return filepath.Join(store.Directory, store.ID) + ".json"
}

// lock serializes the writers of the store across processes.
func (store JsonStore) lock() (func(), error) {
	if err := os.MkdirAll(store.Directory, 0777); err != nil {
		return nil, err
	}

	fileLock := flock.New(store.path() + ".lock")
	if err := fileLock.Lock(); err != nil {
		log.WithError(err).Errorf("json store file lock error: %s", store.path())
		return nil, err
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			log.WithError(err).Errorf("json store file unlock error: %s", store.path())
		}
	}, nil
}

func (store JsonStore) Reset() error {
	unlock, err := store.lock()
	if err != nil {
		return err
	}
	defer unlock()

	err = os.Remove(store.path())
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (store JsonStore) Load(val interface{}) error {
	data, err := os.ReadFile(store.path())
	if os.IsNotExist(err) {
		return ErrPersistenceNotExists
	} else if err != nil {
		return err
	}

	if len(data) == 0 {
		return ErrPersistenceNotExists
	}

	return json.Unmarshal(data, val)
}

// Save writes the value through a temporary file so readers never see a partial file.
func (store JsonStore) Save(val interface{}) error {
	unlock, err := store.lock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	tmp := store.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0666); err != nil {
		return err
	}

	return os.Rename(tmp, store.path())
}
