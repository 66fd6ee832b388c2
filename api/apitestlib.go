package api

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/app"
	"github.com/clear-ness/view-counter/config"
	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/store"
	"github.com/clear-ness/view-counter/testlib"
	"github.com/clear-ness/view-counter/web"
)

type TestHelper struct {
	App         *app.App
	Server      *app.Server
	ConfigStore *config.MemoryStore

	Client *model.Client
}

var mainHelper *testlib.MainHelper

func (me *TestHelper) CreateClient() *model.Client {
	return model.NewAPIClient(fmt.Sprintf("http://localhost:%v", me.Server.ListenAddr.Port))
}

func setupTestHelper(tb testing.TB, dbStore store.Store, updateConfig func(*model.Config)) *TestHelper {
	cfg := &model.Config{}
	cfg.SetDefaults()
	*cfg.ServiceSettings.ListenAddress = ":0"
	*cfg.LogSettings.EnableConsole = false
	*cfg.MetricsSettings.Enable = true
	if updateConfig != nil {
		updateConfig(cfg)
	}

	configStore, err := config.NewMemoryStoreWithConfig(cfg)
	require.NoError(tb, err)

	s, err := app.NewServer(
		app.StoreOverride(dbStore),
		app.ConfigStore(configStore),
		app.SetLogger(mlog.NewLogger(&mlog.LoggerConfiguration{})),
	)
	require.NoError(tb, err)

	th := &TestHelper{
		App:         s.FakeApp(),
		Server:      s,
		ConfigStore: configStore,
	}

	require.NoError(tb, th.Server.Start())

	// the tracker settings point at the port the server actually got
	th.Server.UpdateConfig(func(cfg *model.Config) {
		*cfg.ServiceSettings.SiteURL = fmt.Sprintf("http://localhost:%v", th.Server.ListenAddr.Port)
	})

	Init(th.Server.AppOptions, th.Server.Router)
	web.New(th.Server.AppOptions, th.Server.Router)

	th.Client = th.CreateClient()
	th.waitForConnectivity()

	return th
}

func Setup(tb testing.TB) *TestHelper {
	return SetupWithConfig(tb, nil)
}

func SetupWithConfig(tb testing.TB, updateConfig func(*model.Config)) *TestHelper {
	if testing.Short() {
		tb.SkipNow()
	}

	if mainHelper == nil {
		tb.SkipNow()
	}

	dbStore := mainHelper.GetStore()
	// clear tables when every test func begins
	dbStore.DropAllTables()

	return setupTestHelper(tb, dbStore, updateConfig)
}

func (me *TestHelper) waitForConnectivity() {
	for i := 0; i < 1000; i++ {
		conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%v", me.Server.ListenAddr.Port))
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(time.Millisecond * 20)
	}
	panic("unable to connect")
}

func (me *TestHelper) TearDown() {
	me.ShutdownApp()
}

func (me *TestHelper) ShutdownApp() {
	done := make(chan bool)
	go func() {
		me.Server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		// panic instead of fatal to terminate all tests in this package, otherwise the
		// still running App could spuriously fail subsequent tests.
		panic("failed to shutdown App within 30 seconds")
	}
}

func (me *TestHelper) CreatePost(tb testing.TB, id int64, postType string, status string) *model.Post {
	post, err := me.App.SavePost(&model.Post{
		Id:     id,
		Type:   postType,
		Status: status,
		Title:  fmt.Sprintf("post %v", id),
	})
	require.Nil(tb, err)

	return post
}

func (me *TestHelper) NewNonce() string {
	return me.Server.Nonce().Create(model.VIEWS_NONCE_ACTION)
}

func checkHTTPStatus(t *testing.T, resp *model.Response, expectedStatus int, expectError bool) {
	t.Helper()

	require.NotNilf(t, resp, "Unexpected nil response, expected http:%v, expectError:%v", expectedStatus, expectError)
	if expectError {
		require.NotNil(t, resp.Error, "Expected a non-nil error and http status:%v, got nil, %v", expectedStatus, resp.StatusCode)
	} else {
		require.Nil(t, resp.Error, "Expected no error and http status:%v, got %q, http:%v", expectedStatus, resp.Error, resp.StatusCode)
	}
	require.Equalf(t, expectedStatus, resp.StatusCode, "Expected http status:%v, got %v (err: %q)", expectedStatus, resp.StatusCode, resp.Error)
}

func CheckOKStatus(t *testing.T, resp *model.Response) {
	t.Helper()
	checkHTTPStatus(t, resp, http.StatusOK, false)
}

func CheckNoError(t *testing.T, resp *model.Response) {
	t.Helper()
	require.Nil(t, resp.Error, "expected no error")
}

func CheckBadRequestStatus(t *testing.T, resp *model.Response) {
	t.Helper()
	checkHTTPStatus(t, resp, http.StatusBadRequest, true)
}

func CheckNotFoundStatus(t *testing.T, resp *model.Response) {
	t.Helper()
	checkHTTPStatus(t, resp, http.StatusNotFound, true)
}
