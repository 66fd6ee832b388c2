package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Params struct {
	PostId int64
}

func ParamsFromRequest(r *http.Request) *Params {
	params := &Params{}

	props := mux.Vars(r)

	if val, ok := props["post_id"]; ok {
		if postId, err := strconv.ParseInt(val, 10, 64); err == nil {
			params.PostId = postId
		}
	}

	return params
}
