package app

import (
	"github.com/pkg/errors"

	"github.com/clear-ness/view-counter/config"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/store"
)

type Option func(s *Server) error

func StoreOverride(override interface{}) Option {
	return func(s *Server) error {
		switch o := override.(type) {
		case store.Store:
			s.newSqlStore = func() store.Store {
				return o
			}
			return nil

		case func(*Server) store.Store:
			s.newSqlStore = func() store.Store {
				return o(s)
			}
			return nil

		default:
			return errors.New("invalid StoreOverride")
		}
	}
}

// ConfigStore replaces the default config.json file store.
func ConfigStore(configStore config.Store) Option {
	return func(s *Server) error {
		s.configStore = configStore
		return nil
	}
}

// ConfigFile loads the configuration from path, reloading it on change when watch is set.
func ConfigFile(path string, watch bool) Option {
	return func(s *Server) error {
		configStore, err := config.NewFileStore(path, watch)
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}

		s.configStore = configStore
		return nil
	}
}

func SetLogger(logger *mlog.Logger) Option {
	return func(s *Server) error {
		s.Log = logger
		return nil
	}
}

type AppOption func(a *App)
type AppOptionCreator func() []AppOption

func ServerConnector(s *Server) AppOption {
	return func(a *App) {
		a.Srv = s
		a.Log = s.Log
	}
}
