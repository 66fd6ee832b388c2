package tracker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

type reportServer struct {
	*httptest.Server

	mutex   sync.Mutex
	reports []model.ViewReport
	status  int
}

func newReportServer(t *testing.T, status int) *reportServer {
	s := &reportServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		s.reports = append(s.reports, *model.ViewReportFromRequest(r))
		s.mutex.Unlock()

		w.WriteHeader(s.status)
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *reportServer) Reports() []model.ViewReport {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]model.ViewReport(nil), s.reports...)
}

type failingStorage struct{}

func (failingStorage) GetItem(key string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingStorage) SetItem(key string, value string) error {
	return errors.New("storage unavailable")
}

func newTestTracker(t *testing.T, url string, storage Storage) *Tracker {
	tr := New(Settings{Url: url, Nonce: "abc123"}, storage,
		WithTimeout(5*time.Second),
		WithLogger(mlog.NewLogger(&mlog.LoggerConfiguration{})),
	)
	t.Cleanup(tr.Close)

	return tr
}

func TestLedger(t *testing.T) {
	storage := NewMemoryStorage()
	tr := newTestTracker(t, "http://localhost", storage)

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Ledger{}, tr.ViewedPosts())
		assert.False(t, tr.IsAlreadyViewed(3))
	})

	t.Run("round trip keeps order", func(t *testing.T) {
		tr.SetViewedPosts([]int64{3, 7, 9})
		assert.Equal(t, Ledger{3, 7, 9}, tr.ViewedPosts())

		raw, ok, err := storage.GetItem(ViewedPostsKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "[3,7,9]", raw)

		tr.AddViewedPost(1)
		assert.Equal(t, Ledger{3, 7, 9, 1}, tr.ViewedPosts())
		assert.True(t, tr.IsAlreadyViewed(7))
	})

	t.Run("corrupt content reads as empty", func(t *testing.T) {
		for _, raw := range []string{"{not json", `{"3":true}`, `"7"`, "null", ""} {
			require.NoError(t, storage.SetItem(ViewedPostsKey, raw))
			assert.Equal(t, Ledger{}, tr.ViewedPosts(), raw)
		}
	})

	t.Run("unavailable storage reads as empty", func(t *testing.T) {
		tr := newTestTracker(t, "http://localhost", failingStorage{})
		tr.AddViewedPost(3)
		assert.Equal(t, Ledger{}, tr.ViewedPosts())
	})
}

func TestReport(t *testing.T) {
	t.Run("sends the report fields", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())

		require.True(t, tr.Report(context.Background(), 42))

		require.Equal(t, []model.ViewReport{{
			Action: model.VIEWS_REPORT_ACTION,
			Nonce:  "abc123",
			PostId: "42",
		}}, server.Reports())
		assert.Equal(t, Ledger{42}, tr.ViewedPosts())
	})

	t.Run("sends at most once per post", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())

		require.True(t, tr.Report(context.Background(), 42))
		require.False(t, tr.Report(context.Background(), 42))

		assert.Len(t, server.Reports(), 1)
		assert.Equal(t, Ledger{42}, tr.ViewedPosts())
	})

	t.Run("ledger from an earlier session", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())
		tr.SetViewedPosts([]int64{42})

		require.False(t, tr.Report(context.Background(), 42))
		assert.Empty(t, server.Reports())
	})

	t.Run("rejected report still marks the post", func(t *testing.T) {
		server := newReportServer(t, http.StatusBadRequest)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())

		require.True(t, tr.Report(context.Background(), 42))
		assert.Len(t, server.Reports(), 1)
		assert.True(t, tr.IsAlreadyViewed(42))
	})

	t.Run("network failure still marks the post", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		tr := newTestTracker(t, url, NewMemoryStorage())

		require.True(t, tr.Report(context.Background(), 42))
		assert.True(t, tr.IsAlreadyViewed(42))
	})

	t.Run("unavailable storage does not stop reporting", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, failingStorage{})

		require.True(t, tr.Report(context.Background(), 42))
		require.True(t, tr.Report(context.Background(), 42))
		assert.Len(t, server.Reports(), 2)
	})
}

func TestScheduleReport(t *testing.T) {
	t.Run("negative delay reports right away", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())

		start := time.Now()
		tr.ScheduleReport(42, -3)
		tr.Wait()

		assert.Less(t, int64(time.Since(start)), int64(time.Second))
		assert.Len(t, server.Reports(), 1)
		assert.Equal(t, Ledger{42}, tr.ViewedPosts())
	})

	t.Run("waits for the delay", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())

		start := time.Now()
		tr.ScheduleReport(7, 1)
		assert.Empty(t, server.Reports())

		tr.Wait()
		assert.GreaterOrEqual(t, int64(time.Since(start)), int64(time.Second))
		assert.Len(t, server.Reports(), 1)
	})

	t.Run("does not block the caller", func(t *testing.T) {
		server := newReportServer(t, http.StatusOK)
		tr := newTestTracker(t, server.URL, NewMemoryStorage())

		start := time.Now()
		tr.ScheduleReport(1, 1)
		tr.ScheduleReport(2, 1)
		assert.Less(t, int64(time.Since(start)), int64(500*time.Millisecond))

		tr.Wait()
		assert.ElementsMatch(t, Ledger{1, 2}, tr.ViewedPosts())
	})
}
