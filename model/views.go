package model

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	// VIEWS_META_KEY is the post meta key holding the view counter.
	VIEWS_META_KEY = "vtqnm-simple-view-counter"
	// VIEWS_NONCE_ACTION is the action the report nonce is bound to.
	VIEWS_NONCE_ACTION = "vtqnm-simple-view-counter"
	// VIEWS_REPORT_ACTION is the form action name sent by the tracker.
	VIEWS_REPORT_ACTION = "update_views_counter"

	VIEWS_REPORT_FIELD_ACTION  = "action"
	VIEWS_REPORT_FIELD_NONCE   = "nonce"
	VIEWS_REPORT_FIELD_POST_ID = "post_id"
)

// ParseViewsCount reads a stored counter value. Anything that is not a
// positive decimal integer counts as zero. Surrounding whitespace and a
// leading sign are allowed, leading zeros are not.
func ParseViewsCount(value string) int64 {
	value = strings.Trim(value, " \t\n\r\v\x00")

	digits := strings.TrimPrefix(strings.TrimPrefix(value, "+"), "-")
	if len(digits) > 1 && digits[0] == '0' {
		return 0
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil || count <= 0 {
		return 0
	}

	return count
}

// ViewReport is a single "post was viewed" request sent by a tracker.
type ViewReport struct {
	Action string
	Nonce  string
	PostId string
}

func ViewReportFromRequest(r *http.Request) *ViewReport {
	return &ViewReport{
		Action: r.FormValue(VIEWS_REPORT_FIELD_ACTION),
		Nonce:  r.FormValue(VIEWS_REPORT_FIELD_NONCE),
		PostId: r.FormValue(VIEWS_REPORT_FIELD_POST_ID),
	}
}

type PostViews struct {
	PostId    int64 `json:"post_id"`
	Views     int64 `json:"views"`
	Countable bool  `json:"countable"`
}

func (o *PostViews) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func PostViewsFromJson(data io.Reader) *PostViews {
	var o *PostViews
	json.NewDecoder(data).Decode(&o)
	return o
}

// TrackerSettings are the values rendered into a page so that the tracker
// can report a view of it.
type TrackerSettings struct {
	Url    string `json:"url"`
	Nonce  string `json:"nonce"`
	PostId int64  `json:"post_id"`
	Delay  int    `json:"delay"`
}

func (o *TrackerSettings) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}

func TrackerSettingsFromJson(data io.Reader) *TrackerSettings {
	var o *TrackerSettings
	json.NewDecoder(data).Decode(&o)
	return o
}

// VIEWS_REPORT_FAILURE_DATA is the only error detail a tracker ever gets back.
const VIEWS_REPORT_FAILURE_DATA = "error"

// ViewReportFailure is the generic error body of the report endpoint.
type ViewReportFailure struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

func NewViewReportFailure() *ViewReportFailure {
	return &ViewReportFailure{Success: false, Data: VIEWS_REPORT_FAILURE_DATA}
}

func (o *ViewReportFailure) ToJson() string {
	b, _ := json.Marshal(o)
	return string(b)
}
