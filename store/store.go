package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/go-gorp/gorp"

	"github.com/clear-ness/view-counter/model"
)

type Store interface {
	DriverName() string
	GetMaster() *gorp.DbMap
	GetReplica() *gorp.DbMap
	TotalMasterDbConnections() int
	TotalReadDbConnections() int
	Close()
	GetAllConns() []*gorp.DbMap
	GetQueryBuilder() sq.StatementBuilderType
	DropAllTables()

	Post() PostStore
	PostMeta() PostMetaStore
}

type PostStore interface {
	Get(id int64) (*model.Post, *model.AppError)
	Save(post *model.Post) (*model.Post, *model.AppError)
	Update(post *model.Post) (*model.Post, *model.AppError)
	Delete(id int64) *model.AppError
}

// PostMetaStore is the generic per-post key/value metadata store.
type PostMetaStore interface {
	// Get returns the stored value, or "" when the key is not set.
	Get(postId int64, key string) (string, *model.AppError)
	Set(postId int64, key string, value string) *model.AppError
	// Increment adds one to the integer held at key and returns the new value.
	// A missing or non-numeric value counts as zero.
	Increment(postId int64, key string) (int64, *model.AppError)
	Delete(postId int64, key string) *model.AppError
}
