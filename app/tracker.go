package app

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/clear-ness/view-counter/model"
)

// ShouldLoadTracker reports whether pages of the post get the tracker. An
// empty PostTypes setting allows every post type.
func (a *App) ShouldLoadTracker(post *model.Post) bool {
	postTypes := a.Config().ViewCounterSettings.PostTypes
	if len(postTypes) == 0 {
		return true
	}

	for _, postType := range postTypes {
		if postType == post.Type {
			return true
		}
	}

	return false
}

func (a *App) GetViewReportURL() string {
	return strings.TrimRight(a.GetSiteURL(), "/") + model.API_URL_SUFFIX + "/views"
}

// GetTrackerSettings returns what a page of the post needs to report a view:
// the report url, a fresh nonce, the post id and the configured delay.
func (a *App) GetTrackerSettings(postId int64) (*model.TrackerSettings, *model.AppError) {
	post, err := a.GetPost(postId)
	if err != nil {
		return nil, err
	}

	if !a.ShouldLoadTracker(post) {
		return nil, model.NewAppError("GetTrackerSettings", "app.tracker.not_loaded.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", type="+post.Type, http.StatusNotFound)
	}

	a.Srv.Metrics.IncrementTrackerRender()

	return &model.TrackerSettings{
		Url:    a.GetViewReportURL(),
		Nonce:  a.Srv.Nonce().Create(model.VIEWS_NONCE_ACTION),
		PostId: post.Id,
		Delay:  *a.Config().ViewCounterSettings.Delay,
	}, nil
}
