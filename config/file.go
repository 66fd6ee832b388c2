package config

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/utils/fileutils"
)

func resolveConfigFilePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	// Search for the relative path to the file in the config folder, taking into account
	// various common starting points.
	if configFile := fileutils.FindFile(filepath.Join("config", path)); configFile != "" {
		return configFile, nil
	}

	// Search for the relative path in the current working directory, also taking into account
	// various common starting points.
	if configFile := fileutils.FindPath(path, []string{"."}, nil); configFile != "" {
		return configFile, nil
	}

	// Otherwise, search for the config/ folder using the same heuristics as above, and build
	// an absolute path anchored there and joining the given input path (or plain filename).
	if configFolder, found := fileutils.FindDir("config"); found {
		return filepath.Join(configFolder, path), nil
	}

	return "", fmt.Errorf("failed to find config file %s", path)
}

type FileStore struct {
	commonStore

	path string

	watcherLock sync.Mutex
	watcher     *fsnotify.Watcher
	watcherDone chan struct{}
}

// NewFileStore loads the config file at path, writing the default
// configuration there first when the file does not exist. The file is
// YAML when its extension is .yaml or .yml and JSON otherwise.
func NewFileStore(path string, watch bool) (fs *FileStore, err error) {
	resolvedPath, err := resolveConfigFilePath(path)
	if err != nil {
		return nil, err
	}

	fs = &FileStore{
		path: resolvedPath,
	}
	if err = fs.Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load")
	}

	if watch {
		if err = fs.startWatcher(); err != nil {
			mlog.Error("Failed to watch config file", mlog.String("path", fs.path), mlog.Err(err))
		}
	}

	return fs, nil
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) persist(cfg *model.Config) error {
	b, err := marshalConfig(cfg, formatForPath(fs.path))
	if err != nil {
		return err
	}

	if err = ioutil.WriteFile(fs.path, b, 0600); err != nil {
		return err
	}

	return nil
}

func (fs *FileStore) Set(newCfg *model.Config) (*model.Config, error) {
	return fs.commonStore.set(newCfg, fs.commonStore.validate, fs.persist)
}

func (fs *FileStore) Load() (err error) {
	var needsSave bool
	var f io.ReadCloser

	format := formatForPath(fs.path)

	f, err = os.Open(fs.path)
	if os.IsNotExist(err) {
		needsSave = true
		defaultCfg := &model.Config{}
		defaultCfg.SetDefaults()

		var defaultCfgBytes []byte
		defaultCfgBytes, err = marshalConfig(defaultCfg, format)
		if err != nil {
			return err
		}

		f = ioutil.NopCloser(bytes.NewReader(defaultCfgBytes))

	} else if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "failed to close")
		}
	}()

	return fs.commonStore.load(f, format, needsSave, fs.commonStore.validate, fs.persist)
}

// startWatcher reloads the config whenever the file is written. The
// directory is watched rather than the file so that editors replacing the
// file are noticed too.
func (fs *FileStore) startWatcher() error {
	fs.watcherLock.Lock()
	defer fs.watcherLock.Unlock()

	if fs.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err = watcher.Add(filepath.Dir(fs.path)); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "failed to watch %s", fs.path)
	}

	fs.watcher = watcher
	fs.watcherDone = make(chan struct{})

	go func(watcher *fsnotify.Watcher, done chan struct{}) {
		defer close(done)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != filepath.Clean(fs.path) {
					continue
				}

				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				mlog.Info("Config file changed, reloading", mlog.String("path", fs.path))
				if err := fs.Load(); err != nil {
					mlog.Error("Failed to reload config file", mlog.String("path", fs.path), mlog.Err(err))
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				mlog.Error("Config file watcher failed", mlog.Err(err))
			}
		}
	}(watcher, fs.watcherDone)

	return nil
}

func (fs *FileStore) Close() error {
	fs.watcherLock.Lock()
	defer fs.watcherLock.Unlock()

	if fs.watcher == nil {
		return nil
	}

	err := fs.watcher.Close()
	<-fs.watcherDone
	fs.watcher = nil

	return err
}
