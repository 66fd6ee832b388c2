package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
)

func TestRateLimit(t *testing.T) {
	th := SetupWithConfig(t, func(cfg *model.Config) {
		*cfg.RateLimitSettings.Enable = true
		*cfg.RateLimitSettings.PerSec = 1
		*cfg.RateLimitSettings.MaxBurst = 2
	})
	defer th.TearDown()

	th.CreatePost(t, 42, model.POST_TYPE_POST, model.POST_STATUS_PUBLISH)

	_, resp := th.Client.GetPostViews(42)
	CheckOKStatus(t, resp)
	assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Limit"))

	var limited *model.Response
	for i := 0; i < 20 && limited == nil; i++ {
		_, resp = th.Client.GetPostViews(42)
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = resp
		}
	}

	require.NotNil(t, limited, "expected the quota to run out")
	require.NotNil(t, limited.Error)
	assert.NotEmpty(t, limited.Header.Get("Retry-After"))
}

func TestRateLimitDisabled(t *testing.T) {
	th := SetupWithConfig(t, func(cfg *model.Config) {
		*cfg.RateLimitSettings.Enable = false
		*cfg.RateLimitSettings.PerSec = 1
		*cfg.RateLimitSettings.MaxBurst = 1
	})
	defer th.TearDown()

	for i := 0; i < 10; i++ {
		_, resp := th.Client.GetPostViews(42)
		CheckOKStatus(t, resp)
		assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
	}
}
