package app

import (
	"github.com/clear-ness/view-counter/mlog"
)

type App struct {
	Srv *Server

	Log *mlog.Logger

	RequestId string
	// requested client's ip address
	IpAddress string
	// requested url
	Path      string
	UserAgent string
}

func New(options ...AppOption) *App {
	app := &App{}

	for _, option := range options {
		option(app)
	}

	return app
}

func (a *App) Shutdown() {
	a.Srv.Shutdown()
	a.Srv = nil
}
