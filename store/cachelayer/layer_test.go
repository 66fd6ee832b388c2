package cachelayer

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store/sqlstore"
	"github.com/clear-ness/view-counter/store/storetest"
)

func newTestCacheStore(t *testing.T) (*CacheStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.CacheSettings.Enable = true
	*cfg.CacheSettings.CacheEndpoint = mr.Addr()

	supplier := sqlstore.NewSqlSupplier(*storetest.MakeSqlSettings())
	cacheStore := NewCacheLayer(supplier, cfg)
	t.Cleanup(func() {
		cacheStore.DropAllTables()
		cacheStore.Close()
	})

	return cacheStore, mr
}

func TestPostStore(t *testing.T) {
	ss, _ := newTestCacheStore(t)
	storetest.TestPostStore(t, ss)
}

func TestPostMetaStore(t *testing.T) {
	ss, _ := newTestCacheStore(t)
	storetest.TestPostMetaStore(t, ss)
}

func TestPostMetaCache(t *testing.T) {
	ss, mr := newTestCacheStore(t)

	require.Nil(t, ss.PostMeta().Set(42, model.VIEWS_META_KEY, "7"))

	cached, err := mr.Get(postMetaKey(42, model.VIEWS_META_KEY))
	require.NoError(t, err)
	assert.Equal(t, "7", cached)

	t.Run("increment is visible through the cache", func(t *testing.T) {
		value, err := ss.PostMeta().Get(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		require.Equal(t, "7", value)

		count, err := ss.PostMeta().Increment(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		assert.Equal(t, int64(8), count)

		value, err = ss.PostMeta().Get(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		assert.Equal(t, "8", value)
	})

	t.Run("reads are served from the cache", func(t *testing.T) {
		mr.Set(postMetaKey(42, model.VIEWS_META_KEY), "100")

		value, err := ss.PostMeta().Get(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		assert.Equal(t, "100", value)
	})

	t.Run("keys are tracked per post", func(t *testing.T) {
		members, err := mr.Members(postMetaKeysKey(42))
		require.NoError(t, err)
		assert.Contains(t, members, postMetaKey(42, model.VIEWS_META_KEY))
	})

	t.Run("invalidate", func(t *testing.T) {
		ss.Invalidate()
		assert.False(t, mr.Exists(postMetaKey(42, model.VIEWS_META_KEY)))

		value, err := ss.PostMeta().Get(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		assert.Equal(t, "8", value)
	})
}

func TestPostMetaCacheRaces(t *testing.T) {
	ss, mr := newTestCacheStore(t)
	cacheKey := postMetaKey(42, model.VIEWS_META_KEY)

	require.Nil(t, ss.PostMeta().Set(42, model.VIEWS_META_KEY, "7"))
	mr.Del(cacheKey)

	t.Run("increment fills an empty cache", func(t *testing.T) {
		count, err := ss.PostMeta().Increment(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		assert.Equal(t, int64(8), count)

		cached, cerr := mr.Get(cacheKey)
		require.NoError(t, cerr)
		assert.Equal(t, "8", cached)
	})

	t.Run("a stale read does not overwrite a newer count", func(t *testing.T) {
		mr.Del(cacheKey)

		// a reader misses the cache and loads the count before the increment commits
		stale, err := ss.Store.PostMeta().Get(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		require.Equal(t, "8", stale)

		count, err := ss.PostMeta().Increment(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		require.Equal(t, int64(9), count)

		ss.postMeta.cacheLoaded(42, model.VIEWS_META_KEY, stale)

		value, err := ss.PostMeta().Get(42, model.VIEWS_META_KEY)
		require.Nil(t, err)
		assert.Equal(t, "9", value)
	})

	t.Run("an increment finishing late does not lower the count", func(t *testing.T) {
		assert.True(t, ss.raiseCache(cacheKey, 10))
		assert.True(t, ss.raiseCache(cacheKey, 5))

		cached, err := mr.Get(cacheKey)
		require.NoError(t, err)
		assert.Equal(t, "10", cached)
	})

	t.Run("a non numeric entry is replaced", func(t *testing.T) {
		mr.Set(cacheKey, "garbage")
		assert.True(t, ss.raiseCache(cacheKey, 3))

		cached, err := mr.Get(cacheKey)
		require.NoError(t, err)
		assert.Equal(t, "3", cached)
	})

	t.Run("entries keep the ttl", func(t *testing.T) {
		assert.True(t, mr.TTL(cacheKey) > 0)
	})
}

func TestPostCache(t *testing.T) {
	ss, mr := newTestCacheStore(t)

	_, err := ss.Post().Save(&model.Post{Id: 42, Type: model.POST_TYPE_POST, Status: model.POST_STATUS_PUBLISH, Title: "cached"})
	require.Nil(t, err)

	post, err := ss.Post().Get(42)
	require.Nil(t, err)
	assert.Equal(t, "cached", post.Title)
	assert.True(t, mr.Exists(postKey(42)))

	require.Nil(t, ss.PostMeta().Set(42, model.VIEWS_META_KEY, "3"))

	require.Nil(t, ss.Post().Delete(42))
	assert.False(t, mr.Exists(postKey(42)))
	assert.False(t, mr.Exists(postMetaKey(42, model.VIEWS_META_KEY)))

	_, err = ss.Post().Get(42)
	require.NotNil(t, err)
	assert.Equal(t, 404, err.StatusCode)
}

func TestCacheUnavailable(t *testing.T) {
	ss, mr := newTestCacheStore(t)
	require.NoError(t, ss.Ping())
	mr.Close()
	require.Error(t, ss.Ping())

	// the database keeps serving when redis is gone
	require.Nil(t, ss.PostMeta().Set(42, model.VIEWS_META_KEY, "1"))

	count, err := ss.PostMeta().Increment(42, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, int64(2), count)
}
