package storetest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
)

func TestPostStore(t *testing.T, ss store.Store) {
	t.Run("SaveAndGet", func(t *testing.T) { testPostStoreSaveAndGet(t, ss) })
	t.Run("SaveDuplicate", func(t *testing.T) { testPostStoreSaveDuplicate(t, ss) })
	t.Run("GetMissing", func(t *testing.T) { testPostStoreGetMissing(t, ss) })
	t.Run("Update", func(t *testing.T) { testPostStoreUpdate(t, ss) })
	t.Run("Delete", func(t *testing.T) { testPostStoreDelete(t, ss) })
}

func testPostStoreSaveAndGet(t *testing.T, ss store.Store) {
	post := &model.Post{Id: 101, Type: model.POST_TYPE_POST, Status: model.POST_STATUS_PUBLISH, Title: "hello"}

	saved, err := ss.Post().Save(post)
	require.Nil(t, err)
	assert.NotZero(t, saved.CreateAt)
	assert.Equal(t, saved.CreateAt, saved.UpdateAt)

	got, err := ss.Post().Get(101)
	require.Nil(t, err)
	assert.Equal(t, int64(101), got.Id)
	assert.Equal(t, model.POST_TYPE_POST, got.Type)
	assert.Equal(t, model.POST_STATUS_PUBLISH, got.Status)
	assert.Equal(t, "hello", got.Title)
}

func testPostStoreSaveDuplicate(t *testing.T, ss store.Store) {
	_, err := ss.Post().Save(&model.Post{Id: 102, Type: model.POST_TYPE_PAGE, Status: model.POST_STATUS_DRAFT})
	require.Nil(t, err)

	_, err = ss.Post().Save(&model.Post{Id: 102, Type: model.POST_TYPE_PAGE, Status: model.POST_STATUS_DRAFT})
	require.NotNil(t, err)
	assert.Equal(t, "store.sql_post.save.exists.app_error", err.Id)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	_, err = ss.Post().Save(&model.Post{Id: 0, Type: model.POST_TYPE_PAGE, Status: model.POST_STATUS_DRAFT})
	require.NotNil(t, err)
	assert.Equal(t, "model.post.is_valid.id.app_error", err.Id)
}

func testPostStoreGetMissing(t *testing.T, ss store.Store) {
	_, err := ss.Post().Get(999999)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func testPostStoreUpdate(t *testing.T, ss store.Store) {
	post, err := ss.Post().Save(&model.Post{Id: 103, Type: model.POST_TYPE_POST, Status: model.POST_STATUS_DRAFT})
	require.Nil(t, err)

	// prime any cache in front of the store
	_, err = ss.Post().Get(103)
	require.Nil(t, err)

	post.Status = model.POST_STATUS_PUBLISH
	_, err = ss.Post().Update(post)
	require.Nil(t, err)

	got, err := ss.Post().Get(103)
	require.Nil(t, err)
	assert.Equal(t, model.POST_STATUS_PUBLISH, got.Status)

	_, err = ss.Post().Update(&model.Post{Id: 999998, Type: model.POST_TYPE_POST, Status: model.POST_STATUS_DRAFT, CreateAt: 1})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func testPostStoreDelete(t *testing.T, ss store.Store) {
	_, err := ss.Post().Save(&model.Post{Id: 104, Type: model.POST_TYPE_POST, Status: model.POST_STATUS_PUBLISH})
	require.Nil(t, err)
	_, err = ss.PostMeta().Increment(104, model.VIEWS_META_KEY)
	require.Nil(t, err)

	require.Nil(t, ss.Post().Delete(104))

	_, err = ss.Post().Get(104)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)

	value, err := ss.PostMeta().Get(104, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, "", value)
}
