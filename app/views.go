package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/services/metrics"
)

type postContextKey struct{}

// WithPost returns a context carrying the post currently being rendered.
func WithPost(ctx context.Context, post *model.Post) context.Context {
	return context.WithValue(ctx, postContextKey{}, post)
}

// PostFromContext returns the post carried by ctx, if any.
func PostFromContext(ctx context.Context) (*model.Post, bool) {
	post, ok := ctx.Value(postContextKey{}).(*model.Post)
	return post, ok && post != nil
}

// ParsePostId sanitizes a raw post id the way PHP's FILTER_SANITIZE_NUMBER_INT
// does and accepts only positive integers.
func ParsePostId(rawPostId string) (int64, bool) {
	postId, err := strconv.ParseInt(model.SanitizeNumberInt(rawPostId), 10, 64)
	if err != nil || postId < 1 {
		return 0, false
	}

	return postId, true
}

// HandleViewReport counts one view of the post. Any rejection leaves the
// stored counter untouched.
func (a *App) HandleViewReport(rawPostId string, rawNonce string) *model.AppError {
	start := time.Now()
	result := metrics.ResultCounted
	defer func() {
		a.Srv.Metrics.IncrementViewReport(result)
		a.Srv.Metrics.ObserveViewReportDuration(time.Since(start).Seconds())
	}()

	postId, ok := ParsePostId(rawPostId)
	if !ok {
		result = metrics.ResultInvalid
		return model.NewAppError("HandleViewReport", "api.views.invalid_input.app_error", nil, "post_id="+rawPostId, http.StatusBadRequest)
	}

	if !a.Srv.Nonce().IsValid(rawNonce, model.VIEWS_NONCE_ACTION) {
		result = metrics.ResultInvalid
		return model.NewAppError("HandleViewReport", "api.views.invalid_input.app_error", nil, "invalid nonce, post_id="+strconv.FormatInt(postId, 10), http.StatusBadRequest)
	}

	post, err := a.GetPost(postId)
	if err != nil {
		if err.StatusCode == http.StatusNotFound {
			result = metrics.ResultNotFound
			return model.NewAppError("HandleViewReport", "api.views.not_found.app_error", nil, "post_id="+strconv.FormatInt(postId, 10), http.StatusNotFound)
		}

		result = metrics.ResultError
		return err
	}

	if !post.CanCountViews() {
		result = metrics.ResultNotEligible
		return model.NewAppError("HandleViewReport", "api.views.not_eligible.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", type="+post.Type+", status="+post.Status, http.StatusBadRequest)
	}

	if *a.Config().ViewCounterSettings.IgnoreBots && IsBotUserAgent(a.UserAgent) {
		result = metrics.ResultNotEligible
		return model.NewAppError("HandleViewReport", "api.views.not_eligible.app_error", nil, "bot user agent, post_id="+strconv.FormatInt(postId, 10), http.StatusBadRequest)
	}

	count, err := a.Srv.Store.PostMeta().Increment(postId, model.VIEWS_META_KEY)
	if err != nil {
		result = metrics.ResultError
		return err
	}

	mlog.Debug("View counted", mlog.Int64("post_id", postId), mlog.Int64("views", count))

	return nil
}

// GetPostViews returns the view count of the post and whether its views are
// counted at all. Missing or ineligible posts report (0, false).
func (a *App) GetPostViews(postId int64) (int64, bool, *model.AppError) {
	post, err := a.GetPost(postId)
	if err != nil {
		if err.StatusCode == http.StatusNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	return a.getPostViews(post)
}

// GetPostViewsForContext is GetPostViews for the post carried by ctx.
func (a *App) GetPostViewsForContext(ctx context.Context) (int64, bool, *model.AppError) {
	post, ok := PostFromContext(ctx)
	if !ok {
		return 0, false, nil
	}

	return a.getPostViews(post)
}

func (a *App) getPostViews(post *model.Post) (int64, bool, *model.AppError) {
	if !post.CanCountViews() {
		return 0, false, nil
	}

	value, err := a.Srv.Store.PostMeta().Get(post.Id, model.VIEWS_META_KEY)
	if err != nil {
		return 0, false, err
	}

	return model.ParseViewsCount(value), true, nil
}

// SetPostViews overwrites the stored counter, for administrative fixes.
func (a *App) SetPostViews(postId int64, views int64) *model.AppError {
	if views < 0 {
		return model.NewAppError("SetPostViews", "app.views.set.negative.app_error", nil, "views="+strconv.FormatInt(views, 10), http.StatusBadRequest)
	}

	if _, err := a.GetPost(postId); err != nil {
		return err
	}

	return a.Srv.Store.PostMeta().Set(postId, model.VIEWS_META_KEY, strconv.FormatInt(views, 10))
}
