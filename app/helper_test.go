package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/config"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

type TestHelper struct {
	App         *App
	Server      *Server
	ConfigStore *config.MemoryStore
}

func Setup(tb testing.TB) *TestHelper {
	if testing.Short() {
		tb.SkipNow()
	}

	if mainHelper == nil {
		tb.SkipNow()
	}

	dbStore := mainHelper.GetStore()
	// clear tables when every test func begins
	dbStore.DropAllTables()

	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.SiteURL = "http://localhost:8065"
	*cfg.ServiceSettings.ListenAddress = ":0"
	*cfg.LogSettings.EnableConsole = false

	configStore, err := config.NewMemoryStoreWithConfig(cfg)
	require.NoError(tb, err)

	s, err := NewServer(
		StoreOverride(dbStore),
		ConfigStore(configStore),
		SetLogger(mlog.NewLogger(&mlog.LoggerConfiguration{})),
	)
	require.NoError(tb, err)

	return &TestHelper{
		App:         s.FakeApp(),
		Server:      s,
		ConfigStore: configStore,
	}
}

func (th *TestHelper) TearDown() {
	th.Server.Shutdown()
}

func (th *TestHelper) CreatePost(tb testing.TB, id int64, postType string, status string) *model.Post {
	post, err := th.App.SavePost(&model.Post{
		Id:     id,
		Type:   postType,
		Status: status,
		Title:  "post " + postType,
	})
	require.Nil(tb, err)

	return post
}
