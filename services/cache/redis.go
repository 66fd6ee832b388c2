package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clear-ness/view-counter/model"
)

type RedisCacheBackend struct {
	client *redis.Client
}

func NewRedisBackend(settings *model.CacheSettings) *RedisCacheBackend {
	return &RedisCacheBackend{
		client: redis.NewClient(&redis.Options{
			Addr:     *settings.CacheEndpoint,
			Password: "",
			DB:       *settings.CacheDefaultDb,
		}),
	}
}

// expire 0 means no ttl.
func (b *RedisCacheBackend) Set(key string, value interface{}, expireSeconds int) error {
	return b.client.Set(context.Background(), key, value, time.Duration(expireSeconds)*time.Second).Err()
}

// Get returns redis.Nil as the error when the key is missing.
func (b *RedisCacheBackend) Get(key string) (string, error) {
	return b.client.Get(context.Background(), key).Result()
}

func (b *RedisCacheBackend) GetBytes(key string) ([]byte, error) {
	return b.client.Get(context.Background(), key).Bytes()
}

// SAdd adds members to a set of unique strings.
func (b *RedisCacheBackend) SAdd(key string, members []string) (int64, error) {
	return b.client.SAdd(context.Background(), key, members).Result()
}

func (b *RedisCacheBackend) SMembers(key string) ([]string, error) {
	return b.client.SMembers(context.Background(), key).Result()
}

func (b *RedisCacheBackend) Del(keys []string) (int64, error) {
	return b.client.Del(context.Background(), keys...).Result()
}

func (b *RedisCacheBackend) Exists(key string) (int64, error) {
	return b.client.Exists(context.Background(), key).Result()
}

// SetNX writes the value only when the key is missing and reports whether it did.
func (b *RedisCacheBackend) SetNX(key string, value interface{}, expireSeconds int) (bool, error) {
	return b.client.SetNX(context.Background(), key, value, time.Duration(expireSeconds)*time.Second).Result()
}

var setIfHigherScript = redis.NewScript(`
local value = redis.call("GET", KEYS[1])
local current = value and tonumber(value)
if current and current >= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "EX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// SetIfHigher writes value unless the key already holds a number at least as
// large, and reports whether it did. A missing or non numeric value is replaced.
func (b *RedisCacheBackend) SetIfHigher(key string, value int64, expireSeconds int) (bool, error) {
	n, err := setIfHigherScript.Run(context.Background(), b.client, []string{key}, value, expireSeconds).Int64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (b *RedisCacheBackend) FlushAll() (string, error) {
	return b.client.FlushAll(context.Background()).Result()
}

func (b *RedisCacheBackend) Ping() error {
	return b.client.Ping(context.Background()).Err()
}

func (b *RedisCacheBackend) Close() error {
	return b.client.Close()
}

func IsNotFound(err error) bool {
	return err == redis.Nil
}
