package commands

import (
	"github.com/spf13/viper"

	"github.com/clear-ness/view-counter/app"
)

// initApp builds a server that is not listening, for commands that only
// need the store.
func initApp() (*app.App, error) {
	server, err := app.NewServer(app.ConfigFile(viper.GetString("config"), false))
	if err != nil {
		return nil, err
	}

	return server.FakeApp(), nil
}
