package cachelayer

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/services/cache"
	"github.com/clear-ness/view-counter/store"
)

type CacheStore struct {
	store.Store
	post     CachePostStore
	postMeta CachePostMetaStore
	backend  *cache.RedisCacheBackend
	ttl      int
}

func NewCacheLayer(baseStore store.Store, cfg *model.Config) *CacheStore {
	cacheStore := &CacheStore{
		Store:   baseStore,
		backend: cache.NewRedisBackend(&cfg.CacheSettings),
		ttl:     *cfg.CacheSettings.CacheTTLSeconds,
	}

	// a missing redis is not fatal
	if err := cacheStore.Ping(); err != nil {
		mlog.Warn("Cache is unreachable", mlog.String("endpoint", *cfg.CacheSettings.CacheEndpoint), mlog.Err(err))
	}

	cacheStore.post = CachePostStore{
		PostStore: baseStore.Post(),
		rootStore: cacheStore,
	}

	cacheStore.postMeta = CachePostMetaStore{
		PostMetaStore: baseStore.PostMeta(),
		rootStore:     cacheStore,
	}

	return cacheStore
}

func (s *CacheStore) Ping() error {
	return s.backend.Ping()
}

func (s *CacheStore) Post() store.PostStore {
	return s.post
}

func (s *CacheStore) PostMeta() store.PostMetaStore {
	return s.postMeta
}

func (s *CacheStore) DropAllTables() {
	s.Invalidate()
	s.Store.DropAllTables()
}

func (s *CacheStore) Close() {
	if err := s.backend.Close(); err != nil {
		mlog.Warn("Failed to close the cache connection", mlog.Err(err))
	}
	s.Store.Close()
}

// Invalidate deletes all keys from all databases.
func (s *CacheStore) Invalidate() {
	if _, err := s.backend.FlushAll(); err != nil {
		mlog.Warn("Failed to flush the cache", mlog.Err(err))
	}
}

func (s *CacheStore) addToCache(key string, value interface{}) {
	if err := s.backend.Set(key, value, s.ttl); err != nil {
		mlog.Debug("Failed to write to the cache", mlog.String("key", key), mlog.Err(err))
	}
}

// addToCacheIfAbsent leaves an existing entry alone, so a value read before a
// concurrent write cannot replace the newer one.
func (s *CacheStore) addToCacheIfAbsent(key string, value interface{}) {
	if _, err := s.backend.SetNX(key, value, s.ttl); err != nil {
		mlog.Debug("Failed to write to the cache", mlog.String("key", key), mlog.Err(err))
	}
}

// raiseCache stores a counter value unless the cache already holds a larger
// one. On failure the entry is dropped so readers fall back to the database.
func (s *CacheStore) raiseCache(key string, value int64) bool {
	if _, err := s.backend.SetIfHigher(key, value, s.ttl); err != nil {
		mlog.Debug("Failed to write to the cache", mlog.String("key", key), mlog.Err(err))
		s.deleteCache([]string{key})
		return false
	}

	return true
}

func (s *CacheStore) readCache(key string) *string {
	val, err := s.backend.Get(key)
	if err != nil {
		if !cache.IsNotFound(err) {
			mlog.Debug("Failed to read from the cache", mlog.String("key", key), mlog.Err(err))
		}
		return nil
	}

	return &val
}

func (s *CacheStore) addObjectToCache(key string, value interface{}) {
	b, err := msgpack.Marshal(value)
	if err != nil {
		mlog.Debug("Failed to encode a cache entry", mlog.String("key", key), mlog.Err(err))
		return
	}

	s.addToCache(key, b)
}

// readObjectCache decodes the cached entry into value and reports whether it was found.
func (s *CacheStore) readObjectCache(key string, value interface{}) bool {
	b, err := s.backend.GetBytes(key)
	if err != nil {
		if !cache.IsNotFound(err) {
			mlog.Debug("Failed to read from the cache", mlog.String("key", key), mlog.Err(err))
		}
		return false
	}

	if err := msgpack.Unmarshal(b, value); err != nil {
		mlog.Debug("Failed to decode a cache entry", mlog.String("key", key), mlog.Err(err))
		return false
	}

	return true
}

func (s *CacheStore) addToSetCache(key string, members []string) {
	if _, err := s.backend.SAdd(key, members); err != nil {
		mlog.Debug("Failed to write to the cache", mlog.String("key", key), mlog.Err(err))
	}
}

func (s *CacheStore) readSetCache(key string) []string {
	members, err := s.backend.SMembers(key)
	if err != nil {
		mlog.Debug("Failed to read from the cache", mlog.String("key", key), mlog.Err(err))
		return nil
	}

	return members
}

func (s *CacheStore) deleteCache(keys []string) {
	if _, err := s.backend.Del(keys); err != nil {
		mlog.Debug("Failed to delete from the cache", mlog.Any("keys", keys), mlog.Err(err))
	}
}
