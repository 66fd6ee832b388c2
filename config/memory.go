package config

import (
	"github.com/clear-ness/view-counter/model"
)

// MemoryStore keeps the configuration in memory only.
type MemoryStore struct {
	commonStore
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{}
	ms.Load()

	return ms
}

// NewMemoryStoreWithConfig starts from a copy of cfg, with defaults filled in.
func NewMemoryStoreWithConfig(cfg *model.Config) (*MemoryStore, error) {
	ms := &MemoryStore{}
	if _, err := ms.Set(cfg); err != nil {
		return nil, err
	}

	return ms, nil
}

func (ms *MemoryStore) Set(newCfg *model.Config) (*model.Config, error) {
	return ms.commonStore.set(newCfg, ms.commonStore.validate, nil)
}

// Load resets the store to the default configuration.
func (ms *MemoryStore) Load() error {
	cfg := &model.Config{}
	cfg.SetDefaults()

	_, err := ms.commonStore.set(cfg, nil, nil)
	return err
}

func (ms *MemoryStore) Close() error {
	return nil
}
