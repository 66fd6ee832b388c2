package app

import (
	"net/http"

	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

func (a *App) GetPost(postId int64) (*model.Post, *model.AppError) {
	return a.Srv.Store.Post().Get(postId)
}

// SavePost creates the post, or updates it when a post with the same id exists.
func (a *App) SavePost(post *model.Post) (*model.Post, *model.AppError) {
	if post == nil {
		return nil, model.NewAppError("SavePost", "app.post.save.missing.app_error", nil, "", http.StatusBadRequest)
	}

	existing, err := a.Srv.Store.Post().Get(post.Id)
	if err != nil && err.StatusCode != http.StatusNotFound {
		return nil, err
	}

	if existing == nil {
		rpost, err := a.Srv.Store.Post().Save(post.Clone())
		if err != nil {
			mlog.Error("Couldn't save the post", mlog.Int64("post_id", post.Id), mlog.Err(err))
			return nil, err
		}

		return rpost, nil
	}

	updated := post.Clone()
	updated.CreateAt = existing.CreateAt

	rpost, err := a.Srv.Store.Post().Update(updated)
	if err != nil {
		mlog.Error("Couldn't update the post", mlog.Int64("post_id", post.Id), mlog.Err(err))
		return nil, err
	}

	return rpost, nil
}

func (a *App) DeletePost(postId int64) *model.AppError {
	return a.Srv.Store.Post().Delete(postId)
}
