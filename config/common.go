package config

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/clear-ness/view-counter/model"
)

type commonStore struct {
	configLock sync.RWMutex
	config     *model.Config

	listenersLock sync.RWMutex
	listeners     map[string]Listener
}

func (cs *commonStore) load(f io.ReadCloser, format string, needsSave bool, validate func(*model.Config) error, persist func(*model.Config) error) error {
	loadedCfg, err := unmarshalConfig(f, format)
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal config")
	}

	// a generated salt has to be written back, or every load hands out a new
	// one and invalidates the nonces already rendered
	if salt := loadedCfg.ViewCounterSettings.NonceSalt; salt == nil || *salt == "" {
		needsSave = true
	}

	loadedCfg.SetDefaults()

	if validate != nil {
		if err = validate(loadedCfg); err != nil {
			return err
		}
	}

	cs.configLock.Lock()
	var unlockOnce sync.Once
	defer unlockOnce.Do(cs.configLock.Unlock)

	if needsSave && persist != nil {
		if err = persist(loadedCfg); err != nil {
			return errors.Wrap(err, "failed to persist config")
		}
	}

	oldCfg := cs.config
	cs.config = loadedCfg
	unlockOnce.Do(cs.configLock.Unlock)

	if oldCfg != nil {
		cs.invokeConfigListeners(oldCfg, loadedCfg)
	}

	return nil
}

func (cs *commonStore) set(newCfg *model.Config, validate func(*model.Config) error, persist func(*model.Config) error) (*model.Config, error) {
	newCfg = newCfg.Clone()
	newCfg.SetDefaults()

	if validate != nil {
		if err := validate(newCfg); err != nil {
			return nil, err
		}
	}

	cs.configLock.Lock()
	var unlockOnce sync.Once
	defer unlockOnce.Do(cs.configLock.Unlock)

	if persist != nil {
		if err := persist(newCfg); err != nil {
			return nil, errors.Wrap(err, "failed to persist config")
		}
	}

	oldCfg := cs.config
	cs.config = newCfg
	unlockOnce.Do(cs.configLock.Unlock)

	if oldCfg != nil {
		cs.invokeConfigListeners(oldCfg, newCfg)
	}

	return oldCfg, nil
}

func (cs *commonStore) Get() *model.Config {
	cs.configLock.RLock()
	defer cs.configLock.RUnlock()

	return cs.config
}

func (cs *commonStore) AddListener(listener Listener) string {
	cs.listenersLock.Lock()
	defer cs.listenersLock.Unlock()

	if cs.listeners == nil {
		cs.listeners = make(map[string]Listener)
	}

	id := model.NewId()
	cs.listeners[id] = listener

	return id
}

func (cs *commonStore) RemoveListener(id string) {
	cs.listenersLock.Lock()
	defer cs.listenersLock.Unlock()

	delete(cs.listeners, id)
}

func (cs *commonStore) invokeConfigListeners(oldCfg, newCfg *model.Config) {
	cs.listenersLock.RLock()
	defer cs.listenersLock.RUnlock()

	for _, listener := range cs.listeners {
		listener(oldCfg, newCfg)
	}
}

func (cs *commonStore) validate(cfg *model.Config) error {
	if err := cfg.IsValid(); err != nil {
		return err
	}

	return nil
}
