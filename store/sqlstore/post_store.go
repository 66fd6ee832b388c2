package sqlstore

import (
	"database/sql"
	"net/http"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
)

type SqlPostStore struct {
	store.Store
}

func NewSqlPostStore(sqlStore store.Store) store.PostStore {
	s := &SqlPostStore{
		Store: sqlStore,
	}

	for _, db := range sqlStore.GetAllConns() {
		table := db.AddTableWithName(model.Post{}, "Posts").SetKeys(false, "Id")
		table.ColMap("Type").SetMaxSize(model.POST_TYPE_MAX_RUNES)
		table.ColMap("Status").SetMaxSize(model.POST_STATUS_MAX_RUNES)
		table.ColMap("Title").SetMaxSize(model.POST_TITLE_MAX_RUNES * 4)
	}

	return s
}

func (s *SqlPostStore) Get(id int64) (*model.Post, *model.AppError) {
	queryString, args, err := s.GetQueryBuilder().
		Select("*").
		From("Posts").
		Where(sq.Eq{"Id": id}).
		ToSql()
	if err != nil {
		return nil, model.NewAppError("SqlPostStore.Get", "store.sql_post.get.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	var post model.Post
	if err := s.GetReplica().SelectOne(&post, queryString, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.NewAppError("SqlPostStore.Get", "store.sql_post.get.app_error", nil, "id="+strconv.FormatInt(id, 10), http.StatusNotFound)
		}
		return nil, model.NewAppError("SqlPostStore.Get", "store.sql_post.get.app_error", nil, "id="+strconv.FormatInt(id, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	return &post, nil
}

func (s *SqlPostStore) Save(post *model.Post) (*model.Post, *model.AppError) {
	post.PreSave()

	if err := post.IsValid(); err != nil {
		return nil, err
	}

	if err := s.GetMaster().Insert(post); err != nil {
		if IsUniqueConstraintError(err) {
			return nil, model.NewAppError("SqlPostStore.Save", "store.sql_post.save.exists.app_error", nil, "id="+strconv.FormatInt(post.Id, 10), http.StatusBadRequest)
		}
		return nil, model.NewAppError("SqlPostStore.Save", "store.sql_post.save.app_error", nil, "id="+strconv.FormatInt(post.Id, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	return post, nil
}

func (s *SqlPostStore) Update(post *model.Post) (*model.Post, *model.AppError) {
	post.PreUpdate()

	if err := post.IsValid(); err != nil {
		return nil, err
	}

	count, err := s.GetMaster().Update(post)
	if err != nil {
		return nil, model.NewAppError("SqlPostStore.Update", "store.sql_post.update.app_error", nil, "id="+strconv.FormatInt(post.Id, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	if count == 0 {
		return nil, model.NewAppError("SqlPostStore.Update", "store.sql_post.update.app_error", nil, "id="+strconv.FormatInt(post.Id, 10), http.StatusNotFound)
	}

	return post, nil
}

// Delete removes the post together with all of its metadata.
func (s *SqlPostStore) Delete(id int64) *model.AppError {
	transaction, err := s.GetMaster().Begin()
	if err != nil {
		return model.NewAppError("SqlPostStore.Delete", "store.sql_post.delete.open_transaction.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	defer finalizeTransaction(transaction)

	if _, err := transaction.Exec("DELETE FROM PostMeta WHERE PostId = ?", id); err != nil {
		return model.NewAppError("SqlPostStore.Delete", "store.sql_post.delete.app_error", nil, "id="+strconv.FormatInt(id, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	if _, err := transaction.Exec("DELETE FROM Posts WHERE Id = ?", id); err != nil {
		return model.NewAppError("SqlPostStore.Delete", "store.sql_post.delete.app_error", nil, "id="+strconv.FormatInt(id, 10)+", "+err.Error(), http.StatusInternalServerError)
	}

	if err := transaction.Commit(); err != nil {
		return model.NewAppError("SqlPostStore.Delete", "store.sql_post.delete.commit_transaction.app_error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}
