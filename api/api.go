package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clear-ness/view-counter/app"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/web"
)

type Routes struct {
	Root    *mux.Router // ''
	ApiRoot *mux.Router // 'api/v1'

	Views *mux.Router // 'api/v1/views'

	Posts *mux.Router // 'api/v1/posts'
	Post  *mux.Router // 'api/v1/posts/{post_id:[0-9]+}'
}

type API struct {
	GetGlobalAppOptions app.AppOptionCreator
	BaseRoutes          *Routes
}

func Init(globalOptionsFunc app.AppOptionCreator, root *mux.Router) *API {
	api := &API{
		GetGlobalAppOptions: globalOptionsFunc,
		BaseRoutes:          &Routes{},
	}

	api.BaseRoutes.Root = root
	api.BaseRoutes.ApiRoot = root.PathPrefix(model.API_URL_SUFFIX).Subrouter()

	api.BaseRoutes.Views = api.BaseRoutes.ApiRoot.PathPrefix("/views").Subrouter()

	api.BaseRoutes.Posts = api.BaseRoutes.ApiRoot.PathPrefix("/posts").Subrouter()
	api.BaseRoutes.Post = api.BaseRoutes.Posts.PathPrefix("/{post_id:[0-9]+}").Subrouter()

	api.InitViews()
	api.InitPost()

	root.Handle("/api/v1/{anything:.*}", http.HandlerFunc(api.Handle404))

	return api
}

func (api *API) Handle404(w http.ResponseWriter, r *http.Request) {
	err := model.NewAppError("Handle404", "api.context.404.app_error", nil, r.URL.Path, http.StatusNotFound)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write([]byte(err.ToJson()))
}

var ReturnStatusOK = web.ReturnStatusOK
