package app

import (
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

func (a *App) Config() *model.Config {
	return a.Srv.Config()
}

func (s *Server) Config() *model.Config {
	return s.configStore.Get()
}

func (a *App) GetSiteURL() string {
	return *a.Config().ServiceSettings.SiteURL
}

func (s *Server) UpdateConfig(f func(*model.Config)) error {
	cfg := s.Config().Clone()
	f(cfg)

	if _, err := s.configStore.Set(cfg); err != nil {
		return err
	}

	return nil
}

func (a *App) UpdateConfig(f func(*model.Config)) error {
	return a.Srv.UpdateConfig(f)
}

func loggerConfigurationFromSettings(settings *model.LogSettings) *mlog.LoggerConfiguration {
	return &mlog.LoggerConfiguration{
		EnableConsole: *settings.EnableConsole,
		ConsoleJson:   *settings.ConsoleJson,
		ConsoleLevel:  *settings.ConsoleLevel,
	}
}

// configChanged keeps the logger and the nonce generator in step with the configuration.
func (s *Server) configChanged(oldConfig *model.Config, newConfig *model.Config) {
	s.Log.ChangeLevels(loggerConfigurationFromSettings(&newConfig.LogSettings))

	if *oldConfig.ViewCounterSettings.NonceSalt != *newConfig.ViewCounterSettings.NonceSalt ||
		*oldConfig.ViewCounterSettings.NonceLifetimeSeconds != *newConfig.ViewCounterSettings.NonceLifetimeSeconds {
		mlog.Info("Nonce settings changed, issued nonces may no longer verify")
		s.setNonceGenerator(newConfig)
	}
}
