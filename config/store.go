package config

import (
	"github.com/clear-ness/view-counter/model"
)

// Listener is called with the previous and the new configuration after a change.
type Listener func(oldConfig *model.Config, newConfig *model.Config)

type Store interface {
	Get() *model.Config
	// Set replaces the configuration and returns the previous one.
	Set(*model.Config) (*model.Config, error)
	Load() error
	AddListener(listener Listener) string
	RemoveListener(id string)
	Close() error
}
