package model

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"
)

const (
	POST_TYPE_POST = "post"
	POST_TYPE_PAGE = "page"

	POST_STATUS_PUBLISH = "publish"
	POST_STATUS_DRAFT   = "draft"
	POST_STATUS_PENDING = "pending"
	POST_STATUS_PRIVATE = "private"
	POST_STATUS_FUTURE  = "future"
	POST_STATUS_TRASH   = "trash"

	POST_TYPE_MAX_RUNES   = 20
	POST_STATUS_MAX_RUNES = 20
	POST_TITLE_MAX_RUNES  = 1000
)

// Post is a publishable content item. Only published posts and pages have
// their views counted.
type Post struct {
	Id       int64  `db:"Id, primarykey" json:"id" msgpack:"id"`
	Type     string `db:"Type" json:"type" msgpack:"type"`
	Status   string `db:"Status" json:"status" msgpack:"status"`
	Title    string `db:"Title" json:"title,omitempty" msgpack:"title"`
	CreateAt int64  `db:"CreateAt" json:"create_at" msgpack:"create_at"`
	UpdateAt int64  `db:"UpdateAt" json:"update_at" msgpack:"update_at"`
}

func (o *Post) Clone() *Post {
	copy := *o
	return &copy
}

func (o *Post) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func PostFromJson(data io.Reader) *Post {
	var o *Post
	json.NewDecoder(data).Decode(&o)
	return o
}

func (o *Post) IsValid() *AppError {
	if o.Id <= 0 {
		return NewAppError("Post.IsValid", "model.post.is_valid.id.app_error", nil, "", http.StatusBadRequest)
	}

	if o.Type == "" || utf8.RuneCountInString(o.Type) > POST_TYPE_MAX_RUNES {
		return NewAppError("Post.IsValid", "model.post.is_valid.type.app_error", nil, "id="+strconv.FormatInt(o.Id, 10), http.StatusBadRequest)
	}

	if o.Status == "" || utf8.RuneCountInString(o.Status) > POST_STATUS_MAX_RUNES {
		return NewAppError("Post.IsValid", "model.post.is_valid.status.app_error", nil, "id="+strconv.FormatInt(o.Id, 10), http.StatusBadRequest)
	}

	if utf8.RuneCountInString(o.Title) > POST_TITLE_MAX_RUNES {
		return NewAppError("Post.IsValid", "model.post.is_valid.title.app_error", nil, "id="+strconv.FormatInt(o.Id, 10), http.StatusBadRequest)
	}

	if o.CreateAt == 0 {
		return NewAppError("Post.IsValid", "model.post.is_valid.create_at.app_error", nil, "id="+strconv.FormatInt(o.Id, 10), http.StatusBadRequest)
	}

	if o.UpdateAt == 0 {
		return NewAppError("Post.IsValid", "model.post.is_valid.update_at.app_error", nil, "id="+strconv.FormatInt(o.Id, 10), http.StatusBadRequest)
	}

	return nil
}

func (o *Post) PreSave() {
	if o.CreateAt == 0 {
		o.CreateAt = GetMillis()
	}

	o.UpdateAt = o.CreateAt
}

func (o *Post) PreUpdate() {
	o.UpdateAt = GetMillis()
}

// CanCountViews reports whether views of the post are counted:
// it has to be published and be either a post or a page.
func (o *Post) CanCountViews() bool {
	if o.Status != POST_STATUS_PUBLISH {
		return false
	}

	return o.Type == POST_TYPE_POST || o.Type == POST_TYPE_PAGE
}
