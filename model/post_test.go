package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCanCountViews(t *testing.T) {
	testCases := []struct {
		Name     string
		Type     string
		Status   string
		Expected bool
	}{
		{"published post", POST_TYPE_POST, POST_STATUS_PUBLISH, true},
		{"published page", POST_TYPE_PAGE, POST_STATUS_PUBLISH, true},
		{"draft post", POST_TYPE_POST, POST_STATUS_DRAFT, false},
		{"private page", POST_TYPE_PAGE, POST_STATUS_PRIVATE, false},
		{"trashed post", POST_TYPE_POST, POST_STATUS_TRASH, false},
		{"published attachment", "attachment", POST_STATUS_PUBLISH, false},
		{"published custom type", "product", POST_STATUS_PUBLISH, false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			post := &Post{Id: 1, Type: tc.Type, Status: tc.Status}
			assert.Equal(t, tc.Expected, post.CanCountViews())
		})
	}
}

func TestPostIsValid(t *testing.T) {
	post := &Post{}
	require.NotNil(t, post.IsValid())

	post.Id = 42
	require.NotNil(t, post.IsValid())

	post.Type = POST_TYPE_POST
	require.NotNil(t, post.IsValid())

	post.Status = POST_STATUS_PUBLISH
	require.NotNil(t, post.IsValid(), "create_at should be required")

	post.PreSave()
	require.Nil(t, post.IsValid())
	assert.Equal(t, post.CreateAt, post.UpdateAt)

	post.Title = strings.Repeat("a", POST_TITLE_MAX_RUNES+1)
	require.NotNil(t, post.IsValid())

	post.Title = ""
	post.Id = -1
	require.NotNil(t, post.IsValid())
}

func TestPostJson(t *testing.T) {
	post := &Post{Id: 42, Type: POST_TYPE_PAGE, Status: POST_STATUS_DRAFT, Title: "about"}
	decoded := PostFromJson(strings.NewReader(post.ToJson()))
	require.NotNil(t, decoded)
	assert.Equal(t, post, decoded)

	assert.Nil(t, PostFromJson(strings.NewReader("not json")))
}
