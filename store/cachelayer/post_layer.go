package cachelayer

import (
	"strconv"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
)

type CachePostStore struct {
	store.PostStore
	rootStore *CacheStore
}

func postKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10)
}

func (s CachePostStore) Get(id int64) (*model.Post, *model.AppError) {
	var cached model.Post
	if s.rootStore.readObjectCache(postKey(id), &cached) {
		return &cached, nil
	}

	post, err := s.PostStore.Get(id)
	if err != nil {
		return nil, err
	}

	s.rootStore.addObjectToCache(postKey(id), post)

	return post, nil
}

func (s CachePostStore) Save(post *model.Post) (*model.Post, *model.AppError) {
	saved, err := s.PostStore.Save(post)
	if err != nil {
		return nil, err
	}

	s.rootStore.deleteCache([]string{postKey(saved.Id)})

	return saved, nil
}

func (s CachePostStore) Update(post *model.Post) (*model.Post, *model.AppError) {
	updated, err := s.PostStore.Update(post)
	if err != nil {
		return nil, err
	}

	s.rootStore.deleteCache([]string{postKey(updated.Id)})

	return updated, nil
}

// Delete also drops every cached meta value of the post.
func (s CachePostStore) Delete(id int64) *model.AppError {
	if err := s.PostStore.Delete(id); err != nil {
		return err
	}

	keys := append(s.rootStore.readSetCache(postMetaKeysKey(id)), postKey(id), postMetaKeysKey(id))
	s.rootStore.deleteCache(keys)

	return nil
}
