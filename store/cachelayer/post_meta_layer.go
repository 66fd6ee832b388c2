package cachelayer

import (
	"strconv"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
)

type CachePostMetaStore struct {
	store.PostMetaStore
	rootStore *CacheStore
}

func postMetaKey(postId int64, key string) string {
	return "postmeta:" + strconv.FormatInt(postId, 10) + ":" + key
}

// postMetaKeysKey names the set of cached meta keys of a post.
func postMetaKeysKey(postId int64) string {
	return "postmeta:" + strconv.FormatInt(postId, 10)
}

func (s CachePostMetaStore) cache(postId int64, key string, value string) {
	cacheKey := postMetaKey(postId, key)
	s.rootStore.addToCache(cacheKey, value)
	s.rootStore.addToSetCache(postMetaKeysKey(postId), []string{cacheKey})
}

// cacheLoaded writes back a value read from the database on a miss. A write
// that landed in the meantime wins.
func (s CachePostMetaStore) cacheLoaded(postId int64, key string, value string) {
	cacheKey := postMetaKey(postId, key)
	s.rootStore.addToCacheIfAbsent(cacheKey, value)
	s.rootStore.addToSetCache(postMetaKeysKey(postId), []string{cacheKey})
}

func (s CachePostMetaStore) Get(postId int64, key string) (string, *model.AppError) {
	if value := s.rootStore.readCache(postMetaKey(postId, key)); value != nil {
		return *value, nil
	}

	value, err := s.PostMetaStore.Get(postId, key)
	if err != nil {
		return "", err
	}

	s.cacheLoaded(postId, key, value)

	return value, nil
}

func (s CachePostMetaStore) Set(postId int64, key string, value string) *model.AppError {
	if err := s.PostMetaStore.Set(postId, key, value); err != nil {
		s.rootStore.deleteCache([]string{postMetaKey(postId, key)})
		return err
	}

	s.cache(postId, key, value)

	return nil
}

// Increment only ever raises the cached count, since concurrent increments may
// finish in any order.
func (s CachePostMetaStore) Increment(postId int64, key string) (int64, *model.AppError) {
	count, err := s.PostMetaStore.Increment(postId, key)
	if err != nil {
		s.rootStore.deleteCache([]string{postMetaKey(postId, key)})
		return 0, err
	}

	cacheKey := postMetaKey(postId, key)
	if s.rootStore.raiseCache(cacheKey, count) {
		s.rootStore.addToSetCache(postMetaKeysKey(postId), []string{cacheKey})
	}

	return count, nil
}

func (s CachePostMetaStore) Delete(postId int64, key string) *model.AppError {
	if err := s.PostMetaStore.Delete(postId, key); err != nil {
		return err
	}

	s.rootStore.deleteCache([]string{postMetaKey(postId, key)})

	return nil
}
