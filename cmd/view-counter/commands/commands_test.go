package commands

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	defer RootCmd.SetOut(nil)

	err := Run(args)
	return strings.TrimSpace(out.String()), err
}

func writeTestConfig(t *testing.T) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := fmt.Sprintf(`{
		"SqlSettings": {"DriverName": %q, "DataSource": %q},
		"LogSettings": {"EnableConsole": false}
	}`, model.DATABASE_DRIVER_SQLITE, filepath.Join(dir, "views.db"))
	require.NoError(t, ioutil.WriteFile(path, []byte(cfg), 0600))

	return path
}

func TestPostAndViewsCommands(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := executeCommand(t, "post", "save", "--config", configPath, "--id", "42", "--type", "post", "--status", "publish", "--title", "Hello")
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"Hello"`)

	_, err = executeCommand(t, "views", "set", "--config", configPath, "42", "7")
	require.NoError(t, err)

	out, err = executeCommand(t, "views", "get", "--config", configPath, "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"post_id":42,"views":7,"countable":true}`, out)

	t.Run("ineligible post", func(t *testing.T) {
		_, err := executeCommand(t, "post", "save", "--config", configPath, "--id", "43", "--type", "post", "--status", "draft", "--title", "Draft")
		require.NoError(t, err)

		out, err := executeCommand(t, "views", "get", "--config", configPath, "43")
		require.NoError(t, err)
		assert.JSONEq(t, `{"post_id":43,"views":0,"countable":false}`, out)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := executeCommand(t, "views", "get", "--config", configPath, "abc")
		require.Error(t, err)

		_, err = executeCommand(t, "views", "set", "--config", configPath, "42", "-1")
		require.Error(t, err)
	})
}

func TestTrackCommand(t *testing.T) {
	var reports int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := model.ViewReportFromRequest(r)
		if report.PostId == "42" && report.Nonce == "abc123" {
			atomic.AddInt32(&reports, 1)
		}
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	ledger := filepath.Join(t.TempDir(), "ledger.db")
	args := []string{"track", "--url", server.URL, "--nonce", "abc123", "--delay", "0", "--ledger", ledger, "42"}

	out, err := executeCommand(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "[42]", out)

	// the ledger file remembers the post
	out, err = executeCommand(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "[42]", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&reports))

	t.Run("needs settings", func(t *testing.T) {
		_, err := executeCommand(t, "track", "--url", "", "--nonce", "", "--ledger", ledger, "7")
		require.Error(t, err)
	})
}
