package web

import (
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"

	"github.com/clear-ness/view-counter/app"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/services/configservice"
	"github.com/clear-ness/view-counter/utils"
)

type Web struct {
	GetGlobalAppOptions app.AppOptionCreator
	MainRouter          *mux.Router
}

func New(globalOptionsFunc app.AppOptionCreator, root *mux.Router) *Web {
	web := &Web{
		GetGlobalAppOptions: globalOptionsFunc,
		MainRouter:          root,
	}

	web.InitTracker()

	return web
}

func (w *Web) NewStaticHandler(h func(*Context, http.ResponseWriter, *http.Request)) http.Handler {
	return &Handler{
		GetGlobalAppOptions: w.GetGlobalAppOptions,
		HandleFunc:          h,
		HandlerName:         GetHandlerName(h),
		IsStatic:            true,
	}
}

func ReturnStatusOK(w http.ResponseWriter) {
	m := make(map[string]string)
	m[model.STATUS] = model.STATUS_OK
	w.Write([]byte(model.MapToJson(m)))
}

func IsApiCall(config configservice.ConfigService, r *http.Request) bool {
	subpath, _ := utils.GetSubpathFromConfig(config.Config())

	return strings.HasPrefix(r.URL.Path, path.Join(subpath, "api")+"/")
}
