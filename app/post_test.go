package app

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
)

func TestSavePost(t *testing.T) {
	th := Setup(t)
	defer th.TearDown()

	created := th.CreatePost(t, 42, model.POST_TYPE_POST, model.POST_STATUS_DRAFT)

	updated, err := th.App.SavePost(&model.Post{Id: 42, Type: model.POST_TYPE_POST, Status: model.POST_STATUS_PUBLISH, Title: "published"})
	require.Nil(t, err)
	assert.Equal(t, created.CreateAt, updated.CreateAt)
	assert.Equal(t, model.POST_STATUS_PUBLISH, updated.Status)

	got, err := th.App.GetPost(42)
	require.Nil(t, err)
	assert.Equal(t, "published", got.Title)
	assert.True(t, got.CanCountViews())

	_, err = th.App.SavePost(&model.Post{Id: 43, Type: "", Status: model.POST_STATUS_PUBLISH})
	require.NotNil(t, err)
	assert.Equal(t, "model.post.is_valid.type.app_error", err.Id)

	_, err = th.App.SavePost(nil)
	require.NotNil(t, err)
}

func TestDeletePost(t *testing.T) {
	th := Setup(t)
	defer th.TearDown()

	th.CreatePost(t, 42, model.POST_TYPE_POST, model.POST_STATUS_PUBLISH)
	require.Nil(t, th.App.SetPostViews(42, 3))

	require.Nil(t, th.App.DeletePost(42))

	_, err := th.App.GetPost(42)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func TestIsBotUserAgent(t *testing.T) {
	assert.True(t, IsBotUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"))
	assert.False(t, IsBotUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Safari/605.1.15"))
	assert.False(t, IsBotUserAgent(""))
}
