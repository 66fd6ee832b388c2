package web

import (
	"net/http"
	"strings"

	"github.com/clear-ness/view-counter/app"
	"github.com/clear-ness/view-counter/audit"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

type Context struct {
	App           *app.App
	Log           *mlog.Logger
	Params        *Params
	Err           *model.AppError
	siteURLHeader string
}

func (c *Context) MakeAuditRecord(event string, initialStatus string) *audit.Record {
	return &audit.Record{
		APIPath:   c.App.Path,
		Event:     event,
		Status:    initialStatus,
		Client:    c.App.UserAgent,
		IPAddress: c.App.IpAddress,
		Meta:      audit.Meta{},
	}
}

// LogAuditRec logs failures at info, successes only at debug.
func (c *Context) LogAuditRec(rec *audit.Record) {
	if rec.Status == audit.Fail {
		c.Log.Info("Audit", rec.Fields()...)
		return
	}
	c.Log.Debug("Audit", rec.Fields()...)
}

func (c *Context) SetInvalidParam(parameter string) {
	c.Err = NewInvalidParamError(parameter)
}

func NewInvalidParamError(parameter string) *model.AppError {
	err := model.NewAppError("Context", "api.context.invalid_body_param.app_error", map[string]interface{}{"Name": parameter}, "", http.StatusBadRequest)
	return err
}

func (c *Context) SetInvalidUrlParam(parameter string) {
	c.Err = NewInvalidUrlParamError(parameter)
}

func NewInvalidUrlParamError(parameter string) *model.AppError {
	err := model.NewAppError("Context", "api.context.invalid_url_param.app_error", map[string]interface{}{"Name": parameter}, "", http.StatusBadRequest)
	return err
}

func (c *Context) SetSiteURLHeader(url string) {
	c.siteURLHeader = strings.TrimRight(url, "/")
}

func (c *Context) GetSiteURLHeader() string {
	return c.siteURLHeader
}

func (c *Context) RequirePostId() *Context {
	if c.Err != nil {
		return c
	}

	if c.Params.PostId <= 0 {
		c.SetInvalidUrlParam("post_id")
	}

	return c
}
