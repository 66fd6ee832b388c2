package api

import (
	"net/http"

	"github.com/clear-ness/view-counter/model"
)

func (api *API) InitPost() {
	api.BaseRoutes.Post.Handle("/views", api.ApiHandler(getPostViews)).Methods("GET")
	api.BaseRoutes.Post.Handle("/tracker", api.ApiHandler(getTrackerSettings)).Methods("GET")
}

func getPostViews(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequirePostId()
	if c.Err != nil {
		return
	}

	views, countable, err := c.App.GetPostViews(c.Params.PostId)
	if err != nil {
		c.Err = err
		return
	}

	postViews := &model.PostViews{
		PostId:    c.Params.PostId,
		Views:     views,
		Countable: countable,
	}

	w.Write([]byte(postViews.ToJson()))
}

func getTrackerSettings(c *Context, w http.ResponseWriter, r *http.Request) {
	c.RequirePostId()
	if c.Err != nil {
		return
	}

	settings, err := c.App.GetTrackerSettings(c.Params.PostId)
	if err != nil {
		c.Err = err
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(settings.ToJson()))
}
