package app

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
)

func TestShouldLoadTracker(t *testing.T) {
	th := Setup(t)
	defer th.TearDown()

	post := &model.Post{Id: 1, Type: model.POST_TYPE_POST}
	page := &model.Post{Id: 2, Type: model.POST_TYPE_PAGE}

	assert.True(t, th.App.ShouldLoadTracker(post))
	assert.True(t, th.App.ShouldLoadTracker(page))

	require.NoError(t, th.App.UpdateConfig(func(cfg *model.Config) {
		cfg.ViewCounterSettings.PostTypes = []string{model.POST_TYPE_PAGE}
	}))

	assert.False(t, th.App.ShouldLoadTracker(post))
	assert.True(t, th.App.ShouldLoadTracker(page))
}

func TestGetTrackerSettings(t *testing.T) {
	th := Setup(t)
	defer th.TearDown()

	th.CreatePost(t, 42, model.POST_TYPE_POST, model.POST_STATUS_PUBLISH)

	settings, err := th.App.GetTrackerSettings(42)
	require.Nil(t, err)
	assert.Equal(t, "http://localhost:8065/api/v1/views", settings.Url)
	assert.Equal(t, int64(42), settings.PostId)
	assert.Equal(t, model.VIEW_COUNTER_SETTINGS_DEFAULT_DELAY, settings.Delay)
	assert.True(t, th.Server.Nonce().IsValid(settings.Nonce, model.VIEWS_NONCE_ACTION))

	_, err = th.App.GetTrackerSettings(999)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)

	require.NoError(t, th.App.UpdateConfig(func(cfg *model.Config) {
		cfg.ViewCounterSettings.PostTypes = []string{model.POST_TYPE_PAGE}
		*cfg.ViewCounterSettings.Delay = 0
	}))

	_, err = th.App.GetTrackerSettings(42)
	require.NotNil(t, err)
	assert.Equal(t, "app.tracker.not_loaded.app_error", err.Id)
}

func TestNonceSaltChange(t *testing.T) {
	th := Setup(t)
	defer th.TearDown()

	nonce := th.Server.Nonce().Create(model.VIEWS_NONCE_ACTION)
	require.True(t, th.Server.Nonce().IsValid(nonce, model.VIEWS_NONCE_ACTION))

	require.NoError(t, th.App.UpdateConfig(func(cfg *model.Config) {
		*cfg.ViewCounterSettings.NonceSalt = "another salt"
	}))

	assert.False(t, th.Server.Nonce().IsValid(nonce, model.VIEWS_NONCE_ACTION))
}
