package model

const (
	POST_META_KEY_MAX_RUNES = 255
)

// PostMeta is an arbitrary key/value pair attached to a post.
type PostMeta struct {
	PostId    int64  `db:"PostId" json:"post_id"`
	MetaKey   string `db:"MetaKey" json:"meta_key"`
	MetaValue string `db:"MetaValue" json:"meta_value"`
}
