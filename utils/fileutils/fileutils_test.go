package fileutils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPath(t *testing.T) {
	dir, err := ioutil.TempDir("", "fileutils")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0700))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "config", "config.json"), []byte("{}"), 0600))

	found := FindPath(filepath.Join("config", "config.json"), []string{dir}, nil)
	assert.Equal(t, filepath.Join(dir, "config", "config.json"), found)

	found = FindPath("config", []string{dir}, func(fi os.FileInfo) bool { return !fi.IsDir() })
	assert.Equal(t, "", found)

	found = FindPath(filepath.Join(dir, "config", "config.json"), nil, nil)
	assert.Equal(t, filepath.Join(dir, "config", "config.json"), found)

	assert.Equal(t, "", FindPath(filepath.Join(dir, "missing.json"), nil, nil))
}

func TestFindDirMissing(t *testing.T) {
	found, ok := FindDir("no-such-directory-for-sure")
	assert.False(t, ok)
	assert.Equal(t, "./", found)
}
