// Package tracker reports page views to a view counter server, at most once
// per post for a given local storage.
package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/clear-ness/view-counter/mlog"
	"github.com/clear-ness/view-counter/model"
)

// ViewedPostsKey is the storage key of the ledger of reported posts.
const ViewedPostsKey = "viewedPosts"

const defaultTimeout = 30 * time.Second

// Settings are the values a page renders for its tracker.
type Settings struct {
	Url   string
	Nonce string
}

// SettingsFromTracker converts the settings handed out by the server.
func SettingsFromTracker(s *model.TrackerSettings) Settings {
	return Settings{Url: s.Url, Nonce: s.Nonce}
}

// Ledger lists the ids of the posts already reported, oldest first.
type Ledger []int64

func (l Ledger) Contains(postId int64) bool {
	for _, id := range l {
		if id == postId {
			return true
		}
	}
	return false
}

// parseLedger never fails: anything that is not a JSON array of numbers
// reads as an empty ledger.
func parseLedger(data string) Ledger {
	var ledger Ledger
	if err := json.Unmarshal([]byte(data), &ledger); err != nil || ledger == nil {
		return Ledger{}
	}
	return ledger
}

type Tracker struct {
	settings Settings
	storage  Storage
	client     *resty.Client
	httpClient *http.Client
	logger     *mlog.Logger

	// serializes ledger read-modify-write
	mutex sync.Mutex
	wg    sync.WaitGroup
}

type Option func(t *Tracker)

func WithTimeout(timeout time.Duration) Option {
	return func(t *Tracker) {
		t.client.SetTimeout(timeout)
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(t *Tracker) {
		t.httpClient = client
		t.client = resty.NewWithClient(client).SetTimeout(defaultTimeout)
	}
}

func WithLogger(logger *mlog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func New(settings Settings, storage Storage, options ...Option) *Tracker {
	httpClient := &http.Client{}
	t := &Tracker{
		settings:   settings,
		storage:    storage,
		client:     resty.NewWithClient(httpClient).SetTimeout(defaultTimeout),
		httpClient: httpClient,
	}

	for _, option := range options {
		option(t)
	}

	t.client.SetHeader(model.HEADER_REQUESTED_WITH, model.HEADER_REQUESTED_WITH_XML)

	return t
}

func (t *Tracker) debug(message string, fields ...mlog.Field) {
	if t.logger != nil {
		t.logger.Debug(message, fields...)
		return
	}
	mlog.Debug(message, fields...)
}

// ScheduleReport reports a view of the post once delaySeconds have passed.
// A negative delay reports right away. The call never blocks.
func (t *Tracker) ScheduleReport(postId int64, delaySeconds int) {
	if delaySeconds < 0 {
		delaySeconds = 0
	}

	t.wg.Add(1)
	time.AfterFunc(time.Duration(delaySeconds)*time.Second, func() {
		defer t.wg.Done()
		t.Report(context.Background(), postId)
	})
}

// Wait blocks until every report scheduled so far has completed.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Report sends a view report unless the post is already in the ledger, and
// returns whether a report was sent. The post is added to the ledger once the
// request completes, whatever its outcome.
func (t *Tracker) Report(ctx context.Context, postId int64) bool {
	if t.IsAlreadyViewed(postId) {
		t.debug("Post already reported", mlog.Int64("post_id", postId))
		return false
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			model.VIEWS_REPORT_FIELD_ACTION:  model.VIEWS_REPORT_ACTION,
			model.VIEWS_REPORT_FIELD_NONCE:   t.settings.Nonce,
			model.VIEWS_REPORT_FIELD_POST_ID: strconv.FormatInt(postId, 10),
		}).
		Post(t.settings.Url)

	switch {
	case err != nil:
		t.debug("Failed to send view report", mlog.Int64("post_id", postId), mlog.Err(err))
	case !resp.IsSuccess():
		t.debug("View report rejected", mlog.Int64("post_id", postId), mlog.Int("status_code", resp.StatusCode()))
	default:
		t.debug("View reported", mlog.Int64("post_id", postId))
	}

	t.AddViewedPost(postId)

	return true
}

func (t *Tracker) IsAlreadyViewed(postId int64) bool {
	return t.ViewedPosts().Contains(postId)
}

func (t *Tracker) ViewedPosts() Ledger {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.readLedger()
}

func (t *Tracker) AddViewedPost(postId int64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.writeLedger(append(t.readLedger(), postId))
}

func (t *Tracker) SetViewedPosts(postIds []int64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.writeLedger(Ledger(postIds))
}

func (t *Tracker) readLedger() Ledger {
	data, ok, err := t.storage.GetItem(ViewedPostsKey)
	if err != nil {
		t.debug("Failed to read viewed posts", mlog.Err(err))
		return Ledger{}
	}
	if !ok {
		return Ledger{}
	}

	return parseLedger(data)
}

func (t *Tracker) writeLedger(ledger Ledger) {
	if ledger == nil {
		ledger = Ledger{}
	}

	b, err := json.Marshal(ledger)
	if err != nil {
		t.debug("Failed to encode viewed posts", mlog.Err(err))
		return
	}

	if err := t.storage.SetItem(ViewedPostsKey, string(b)); err != nil {
		t.debug("Failed to write viewed posts", mlog.Err(err))
	}
}

// Close releases idle connections of the transport.
func (t *Tracker) Close() {
	t.httpClient.CloseIdleConnections()
}
