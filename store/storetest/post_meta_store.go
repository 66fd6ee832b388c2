package storetest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
)

func TestPostMetaStore(t *testing.T, ss store.Store) {
	t.Run("GetMissing", func(t *testing.T) { testPostMetaStoreGetMissing(t, ss) })
	t.Run("SetAndGet", func(t *testing.T) { testPostMetaStoreSetAndGet(t, ss) })
	t.Run("Increment", func(t *testing.T) { testPostMetaStoreIncrement(t, ss) })
	t.Run("IncrementNonNumeric", func(t *testing.T) { testPostMetaStoreIncrementNonNumeric(t, ss) })
	t.Run("IncrementConcurrently", func(t *testing.T) { testPostMetaStoreIncrementConcurrently(t, ss) })
	t.Run("Delete", func(t *testing.T) { testPostMetaStoreDelete(t, ss) })
}

func testPostMetaStoreGetMissing(t *testing.T, ss store.Store) {
	value, err := ss.PostMeta().Get(201, "missing")
	require.Nil(t, err)
	assert.Equal(t, "", value)
}

func testPostMetaStoreSetAndGet(t *testing.T, ss store.Store) {
	require.Nil(t, ss.PostMeta().Set(202, "color", "red"))

	value, err := ss.PostMeta().Get(202, "color")
	require.Nil(t, err)
	assert.Equal(t, "red", value)

	require.Nil(t, ss.PostMeta().Set(202, "color", "blue"))

	value, err = ss.PostMeta().Get(202, "color")
	require.Nil(t, err)
	assert.Equal(t, "blue", value)

	other, err := ss.PostMeta().Get(203, "color")
	require.Nil(t, err)
	assert.Equal(t, "", other)
}

func testPostMetaStoreIncrement(t *testing.T, ss store.Store) {
	count, err := ss.PostMeta().Increment(204, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)

	require.Nil(t, ss.PostMeta().Set(204, model.VIEWS_META_KEY, "42"))

	count, err = ss.PostMeta().Increment(204, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, int64(43), count)

	value, err := ss.PostMeta().Get(204, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, "43", value)
}

func testPostMetaStoreIncrementNonNumeric(t *testing.T, ss store.Store) {
	require.Nil(t, ss.PostMeta().Set(205, model.VIEWS_META_KEY, "lots"))

	count, err := ss.PostMeta().Increment(205, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)

	require.Nil(t, ss.PostMeta().Set(205, model.VIEWS_META_KEY, "-7"))

	count, err = ss.PostMeta().Increment(205, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
}

func testPostMetaStoreIncrementConcurrently(t *testing.T, ss store.Store) {
	const workers = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ss.PostMeta().Increment(206, model.VIEWS_META_KEY)
			assert.Nil(t, err)
		}()
	}
	wg.Wait()

	value, err := ss.PostMeta().Get(206, model.VIEWS_META_KEY)
	require.Nil(t, err)
	assert.Equal(t, int64(workers), model.ParseViewsCount(value))
}

func testPostMetaStoreDelete(t *testing.T, ss store.Store) {
	require.Nil(t, ss.PostMeta().Set(207, "color", "red"))
	require.Nil(t, ss.PostMeta().Delete(207, "color"))

	value, err := ss.PostMeta().Get(207, "color")
	require.Nil(t, err)
	assert.Equal(t, "", value)

	require.Nil(t, ss.PostMeta().Delete(207, "never-set"))
}
