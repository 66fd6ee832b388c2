package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/model"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "config")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	return dir
}

func TestFileStoreWritesDefaults(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tempDir(t), name)

			fs, err := NewFileStore(path, false)
			require.NoError(t, err)
			defer fs.Close()

			cfg := fs.Get()
			require.NotNil(t, cfg)
			assert.Equal(t, model.VIEW_COUNTER_SETTINGS_DEFAULT_DELAY, *cfg.ViewCounterSettings.Delay)
			assert.NotEmpty(t, *cfg.ViewCounterSettings.NonceSalt)

			_, err = os.Stat(path)
			require.NoError(t, err)

			// a reload keeps the persisted salt
			reloaded, err := NewFileStore(path, false)
			require.NoError(t, err)
			defer reloaded.Close()
			assert.Equal(t, *cfg.ViewCounterSettings.NonceSalt, *reloaded.Get().ViewCounterSettings.NonceSalt)
		})
	}
}

func TestFileStoreReadsYaml(t *testing.T) {
	path := filepath.Join(tempDir(t), "config.yml")
	data := strings.Join([]string{
		"ViewCounterSettings:",
		"  Delay: 12",
		"  PostTypes:",
		"    - post",
		"SqlSettings:",
		"  DriverName: sqlite",
		"  DataSource: ':memory:'",
		"",
	}, "\n")
	require.NoError(t, ioutil.WriteFile(path, []byte(data), 0600))

	fs, err := NewFileStore(path, false)
	require.NoError(t, err)
	defer fs.Close()

	cfg := fs.Get()
	assert.Equal(t, 12, *cfg.ViewCounterSettings.Delay)
	assert.Equal(t, []string{"post"}, cfg.ViewCounterSettings.PostTypes)
	assert.Equal(t, model.DATABASE_DRIVER_SQLITE, *cfg.SqlSettings.DriverName)
	assert.Equal(t, model.SQLITE_SETTINGS_MEMORY_DATASOURCE, *cfg.SqlSettings.DataSource)
}

func TestFileStoreKeepsGeneratedSalt(t *testing.T) {
	for name, data := range map[string]string{
		"config.json": `{"ViewCounterSettings": {"Delay": 3}}`,
		"config.yaml": "ViewCounterSettings:\n  Delay: 3\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tempDir(t), name)
			require.NoError(t, ioutil.WriteFile(path, []byte(data), 0600))

			first, err := NewFileStore(path, false)
			require.NoError(t, err)
			defer first.Close()

			salt := *first.Get().ViewCounterSettings.NonceSalt
			require.NotEmpty(t, salt)
			assert.Equal(t, 3, *first.Get().ViewCounterSettings.Delay)

			second, err := NewFileStore(path, false)
			require.NoError(t, err)
			defer second.Close()
			assert.Equal(t, salt, *second.Get().ViewCounterSettings.NonceSalt)

			b, err := ioutil.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(b), salt)
		})
	}
}

func TestFileStoreRejectsInvalid(t *testing.T) {
	path := filepath.Join(tempDir(t), "config.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(`{"ViewCounterSettings": {"Delay": -1}}`), 0600))

	_, err := NewFileStore(path, false)
	require.Error(t, err)

	require.NoError(t, ioutil.WriteFile(path, []byte(`{not json`), 0600))

	_, err = NewFileStore(path, false)
	require.Error(t, err)
}

func TestFileStoreSetPersists(t *testing.T) {
	path := filepath.Join(tempDir(t), "config.json")

	fs, err := NewFileStore(path, false)
	require.NoError(t, err)
	defer fs.Close()

	cfg := fs.Get().Clone()
	*cfg.ViewCounterSettings.Delay = 30

	old, err := fs.Set(cfg)
	require.NoError(t, err)
	assert.Equal(t, model.VIEW_COUNTER_SETTINGS_DEFAULT_DELAY, *old.ViewCounterSettings.Delay)

	reloaded, err := NewFileStore(path, false)
	require.NoError(t, err)
	defer reloaded.Close()
	assert.Equal(t, 30, *reloaded.Get().ViewCounterSettings.Delay)
}

func TestFileStoreWatch(t *testing.T) {
	path := filepath.Join(tempDir(t), "config.json")

	fs, err := NewFileStore(path, true)
	require.NoError(t, err)
	defer fs.Close()

	changed := make(chan int, 10)
	fs.AddListener(func(oldCfg, newCfg *model.Config) {
		changed <- *newCfg.ViewCounterSettings.Delay
	})

	cfg := fs.Get().Clone()
	*cfg.ViewCounterSettings.Delay = 9
	b, err := marshalConfig(cfg, formatJson)
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(path, b, 0600))

	require.Eventually(t, func() bool {
		return *fs.Get().ViewCounterSettings.Delay == 9
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, 9, <-changed)
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	assert.Equal(t, model.VIEW_COUNTER_SETTINGS_DEFAULT_DELAY, *ms.Get().ViewCounterSettings.Delay)

	var calls int
	id := ms.AddListener(func(oldCfg, newCfg *model.Config) { calls++ })

	cfg := ms.Get().Clone()
	*cfg.ViewCounterSettings.Delay = 0
	_, err := ms.Set(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, *ms.Get().ViewCounterSettings.Delay)
	assert.Equal(t, 1, calls)

	ms.RemoveListener(id)

	*cfg.ViewCounterSettings.Delay = -5
	_, err = ms.Set(cfg)
	require.Error(t, err)
	assert.Equal(t, 0, *ms.Get().ViewCounterSettings.Delay)
	assert.Equal(t, 1, calls)
}
