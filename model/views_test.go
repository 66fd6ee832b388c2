package model

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseViewsCount(t *testing.T) {
	assert.Equal(t, int64(0), ParseViewsCount(""))
	assert.Equal(t, int64(0), ParseViewsCount("abc"))
	assert.Equal(t, int64(0), ParseViewsCount("-4"))
	assert.Equal(t, int64(0), ParseViewsCount("1.5"))
	assert.Equal(t, int64(0), ParseViewsCount("0"))
	assert.Equal(t, int64(7), ParseViewsCount("7"))
	assert.Equal(t, int64(1234567890123), ParseViewsCount("1234567890123"))

	t.Run("leading zeros are rejected", func(t *testing.T) {
		assert.Equal(t, int64(0), ParseViewsCount("007"))
		assert.Equal(t, int64(0), ParseViewsCount("+07"))
		assert.Equal(t, int64(0), ParseViewsCount("00"))
	})

	t.Run("sign and whitespace", func(t *testing.T) {
		assert.Equal(t, int64(5), ParseViewsCount("+5"))
		assert.Equal(t, int64(7), ParseViewsCount(" 7\n"))
		assert.Equal(t, int64(0), ParseViewsCount("7 8"))
		assert.Equal(t, int64(0), ParseViewsCount("+-5"))
		assert.Equal(t, int64(0), ParseViewsCount("99999999999999999999"))
	})
}

func TestViewReportFromRequest(t *testing.T) {
	form := ViewReportForm("42", "abcdef0123")
	r := httptest.NewRequest("POST", "/api/v1/views", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	report := ViewReportFromRequest(r)
	assert.Equal(t, VIEWS_REPORT_ACTION, report.Action)
	assert.Equal(t, "abcdef0123", report.Nonce)
	assert.Equal(t, "42", report.PostId)
}
