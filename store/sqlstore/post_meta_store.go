package sqlstore

import (
	"net/http"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-gorp/gorp"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
)

type SqlPostMetaStore struct {
	store.Store
}

func NewSqlPostMetaStore(sqlStore store.Store) store.PostMetaStore {
	s := &SqlPostMetaStore{
		Store: sqlStore,
	}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.PostMeta{}, "PostMeta").SetKeys(false, "PostId", "MetaKey")
		table.ColMap("MetaKey").SetMaxSize(model.POST_META_KEY_MAX_RUNES)
		table.ColMap("MetaValue").SetMaxSize(65535)
	}

	return s
}

func (s *SqlPostMetaStore) upsertQuery(postId int64, key string, value string) (string, []interface{}, error) {
	query := s.GetQueryBuilder().
		Insert("PostMeta").
		Columns("PostId", "MetaKey", "MetaValue").
		Values(postId, key, value)

	if s.DriverName() == model.DATABASE_DRIVER_MYSQL {
		query = query.Suffix("ON DUPLICATE KEY UPDATE MetaValue = VALUES(MetaValue)")
	} else {
		query = query.Suffix("ON CONFLICT(PostId, MetaKey) DO UPDATE SET MetaValue = excluded.MetaValue")
	}

	return query.ToSql()
}

// insertIfMissingQuery creates an empty row unless one exists, which also
// locks the row for the rest of the transaction.
func (s *SqlPostMetaStore) insertIfMissingQuery(postId int64, key string) (string, []interface{}, error) {
	query := s.GetQueryBuilder().
		Insert("PostMeta").
		Columns("PostId", "MetaKey", "MetaValue").
		Values(postId, key, "")

	if s.DriverName() == model.DATABASE_DRIVER_MYSQL {
		query = query.Suffix("ON DUPLICATE KEY UPDATE MetaValue = MetaValue")
	} else {
		query = query.Suffix("ON CONFLICT(PostId, MetaKey) DO NOTHING")
	}

	return query.ToSql()
}

func (s *SqlPostMetaStore) selectValue(db gorp.SqlExecutor, postId int64, key string, forUpdate bool) (string, error) {
	query := s.GetQueryBuilder().
		Select("MetaValue").
		From("PostMeta").
		Where(sq.Eq{"PostId": postId, "MetaKey": key})

	if forUpdate && s.DriverName() == model.DATABASE_DRIVER_MYSQL {
		query = query.Suffix("FOR UPDATE")
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	return db.SelectStr(queryString, args...)
}

func (s *SqlPostMetaStore) Get(postId int64, key string) (string, *model.AppError) {
	value, err := s.selectValue(s.GetReplica(), postId, key, false)
	if err != nil {
		return "", model.NewAppError("SqlPostMetaStore.Get", "store.sql_post_meta.get.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	return value, nil
}

func (s *SqlPostMetaStore) Set(postId int64, key string, value string) *model.AppError {
	queryString, args, err := s.upsertQuery(postId, key, value)
	if err != nil {
		return model.NewAppError("SqlPostMetaStore.Set", "store.sql_post_meta.set.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	if _, err := s.GetMaster().Exec(queryString, args...); err != nil {
		return model.NewAppError("SqlPostMetaStore.Set", "store.sql_post_meta.set.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	return nil
}

// Increment reads and rewrites the value inside one transaction, so that
// concurrent increments of the same key are serialized by the database.
func (s *SqlPostMetaStore) Increment(postId int64, key string) (int64, *model.AppError) {
	transaction, err := s.GetMaster().Begin()
	if err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.open_transaction.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	defer finalizeTransaction(transaction)

	insertQuery, insertArgs, err := s.insertIfMissingQuery(postId, key)
	if err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	if _, err := transaction.Exec(insertQuery, insertArgs...); err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	value, err := s.selectValue(transaction, postId, key, true)
	if err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.select.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	count := model.ParseViewsCount(value) + 1

	queryString, args, err := s.upsertQuery(postId, key, strconv.FormatInt(count, 10))
	if err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	if _, err := transaction.Exec(queryString, args...); err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	if err := transaction.Commit(); err != nil {
		return 0, model.NewAppError("SqlPostMetaStore.Increment", "store.sql_post_meta.increment.commit_transaction.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return count, nil
}

func (s *SqlPostMetaStore) Delete(postId int64, key string) *model.AppError {
	queryString, args, err := s.GetQueryBuilder().
		Delete("PostMeta").
		Where(sq.Eq{"PostId": postId, "MetaKey": key}).
		ToSql()
	if err != nil {
		return model.NewAppError("SqlPostMetaStore.Delete", "store.sql_post_meta.delete.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	if _, err := s.GetMaster().Exec(queryString, args...); err != nil {
		return model.NewAppError("SqlPostMetaStore.Delete", "store.sql_post_meta.delete.app_error", nil, "post_id="+strconv.FormatInt(postId, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	return nil
}
