package web

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"strings"

	"github.com/clear-ness/view-counter/app"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/utils"
)

func GetHandlerName(h func(*Context, http.ResponseWriter, *http.Request)) string {
	handlerName := runtime.FuncForPC(reflect.ValueOf(h).Pointer()).Name()
	pos := strings.LastIndex(handlerName, ".")
	if pos != -1 && len(handlerName) > pos {
		handlerName = handlerName[pos+1:]
	}
	return handlerName
}

type Handler struct {
	GetGlobalAppOptions app.AppOptionCreator
	HandleFunc          func(*Context, http.ResponseWriter, *http.Request)
	HandlerName         string
	IsStatic            bool
}

func GetProtocol(r *http.Request) string {
	if r.Header.Get(model.HEADER_FORWARDED_PROTO) == "https" || r.TLS != nil {
		return "https"
	}
	return "http"
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := model.NewId()
	mlog.Debug("Received HTTP request", mlog.String("method", r.Method), mlog.String("url", r.URL.Path), mlog.String("request_id", requestID))

	c := &Context{}
	c.App = app.New(
		h.GetGlobalAppOptions()...,
	)
	c.App.RequestId = requestID

	c.App.IpAddress = utils.GetIpAddress(r, c.App.Config().ServiceSettings.TrustedProxyIPHeader)

	c.App.UserAgent = r.UserAgent()
	c.Params = ParamsFromRequest(r)
	c.App.Path = r.URL.Path
	c.Log = c.App.Log.With(
		mlog.String("path", c.App.Path),
		mlog.String("request_id", c.App.RequestId),
		mlog.String("ip_addr", c.App.IpAddress),
		mlog.String("method", r.Method),
	)

	subpath, _ := utils.GetSubpathFromConfig(c.App.Config())
	siteURLHeader := GetProtocol(r) + "://" + r.Host + subpath
	c.SetSiteURLHeader(siteURLHeader)

	w.Header().Set(model.HEADER_REQUEST_ID, c.App.RequestId)
	w.Header().Set(model.HEADER_VERSION_ID, fmt.Sprintf("%v", model.CurrentVersion))

	if !h.IsStatic {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == "GET" {
			w.Header().Set("Expires", "0")
		}
	}

	h.HandleFunc(c, w, r)

	if c.Err != nil {
		c.Err.RequestId = c.App.RequestId
		c.Err.Where = r.URL.Path

		if c.Err.StatusCode >= http.StatusInternalServerError {
			c.Log.Error(c.Err.Error(), mlog.String("handler", h.HandlerName))
		} else {
			c.Log.Debug(c.Err.Error(), mlog.String("handler", h.HandlerName))
		}

		if !*c.App.Config().ServiceSettings.EnableDeveloper {
			// hide internal error details
			c.Err.DetailedError = ""

			c.Err.Where = ""
		}

		if IsApiCall(c.App, r) {
			w.WriteHeader(c.Err.StatusCode)
			w.Write([]byte(c.Err.ToJson()))
		} else {
			http.Error(w, http.StatusText(c.Err.StatusCode), c.Err.StatusCode)
		}
	}
}
