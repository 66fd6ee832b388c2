package model

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewId(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := NewId()
		require.Len(t, id, 26)
	}
}

func TestSanitizeNumberInt(t *testing.T) {
	assert.Equal(t, "42", SanitizeNumberInt("42"))
	assert.Equal(t, "42", SanitizeNumberInt("4a2"))
	assert.Equal(t, "-3", SanitizeNumberInt("-3"))
	assert.Equal(t, "+7", SanitizeNumberInt(" +7 "))
	assert.Equal(t, "", SanitizeNumberInt("abc"))
	assert.Equal(t, "12", SanitizeNumberInt("1.2"))
}

func TestAppErrorJson(t *testing.T) {
	err := NewAppError("TestAppErrorJson", "api.views.invalid_input.app_error", nil, "post_id=abc", http.StatusBadRequest)
	decoded := AppErrorFromJson(strings.NewReader(err.ToJson()))
	assert.Equal(t, err.Id, decoded.Id)
	assert.Equal(t, err.DetailedError, decoded.DetailedError)
	assert.Equal(t, http.StatusBadRequest, decoded.StatusCode)

	generic := AppErrorFromJson(strings.NewReader(`{"success":false,"data":"error"}`))
	assert.Equal(t, "model.utils.decode_json.app_error", generic.Id)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	require.Nil(t, cfg.IsValid())
	assert.Equal(t, VIEW_COUNTER_SETTINGS_DEFAULT_DELAY, *cfg.ViewCounterSettings.Delay)
	assert.Empty(t, cfg.ViewCounterSettings.PostTypes)
	assert.NotEmpty(t, *cfg.ViewCounterSettings.NonceSalt)

	*cfg.ViewCounterSettings.Delay = -1
	assert.NotNil(t, cfg.IsValid())
	*cfg.ViewCounterSettings.Delay = 0

	*cfg.SqlSettings.DriverName = "postgres"
	assert.NotNil(t, cfg.IsValid())
	*cfg.SqlSettings.DriverName = DATABASE_DRIVER_SQLITE
	assert.Nil(t, cfg.IsValid())

	clone := cfg.Clone()
	assert.Equal(t, *cfg.ViewCounterSettings.NonceSalt, *clone.ViewCounterSettings.NonceSalt)
}
