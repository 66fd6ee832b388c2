package model

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	HEADER_REQUEST_ID         = "X-Request-ID"
	HEADER_VERSION_ID         = "X-Version-ID"
	HEADER_REQUESTED_WITH     = "X-Requested-With"
	HEADER_REQUESTED_WITH_XML = "XMLHttpRequest"
	HEADER_FORWARDED          = "X-Forwarded-For"
	HEADER_REAL_IP            = "X-Real-IP"
	HEADER_FORWARDED_PROTO    = "X-Forwarded-Proto"

	STATUS      = "status"
	STATUS_OK   = "OK"
	STATUS_FAIL = "FAIL"

	API_URL_SUFFIX = "/api/v1"

	// endpoint kept for trackers that post to WordPress' admin-ajax
	ADMIN_AJAX_PATH = "/wp-admin/admin-ajax.php"
)

type Response struct {
	StatusCode    int
	Error         *AppError
	RequestId     string
	ServerVersion string
	Header        http.Header
}

type Client struct {
	Url        string
	ApiUrl     string
	HttpClient *http.Client
	HttpHeader map[string]string
}

func NewAPIClient(url string) *Client {
	return &Client{url, url + API_URL_SUFFIX, &http.Client{}, map[string]string{}}
}

func BuildErrorResponse(r *http.Response, err *AppError) *Response {
	var statusCode int
	var header http.Header
	if r != nil {
		statusCode = r.StatusCode
		header = r.Header
	} else {
		statusCode = 0
		header = make(http.Header)
	}

	return &Response{
		StatusCode: statusCode,
		Error:      err,
		Header:     header,
	}
}

func closeBody(r *http.Response) {
	if r.Body != nil {
		_, _ = io.Copy(ioutil.Discard, r.Body)
		_ = r.Body.Close()
	}
}

func BuildResponse(r *http.Response) *Response {
	return &Response{
		StatusCode:    r.StatusCode,
		RequestId:     r.Header.Get(HEADER_REQUEST_ID),
		ServerVersion: r.Header.Get(HEADER_VERSION_ID),
		Header:        r.Header,
	}
}

func (c *Client) GetViewsRoute() string {
	return "/views"
}

func (c *Client) GetPostsRoute() string {
	return "/posts"
}

func (c *Client) GetPostRoute(postId int64) string {
	return fmt.Sprintf(c.GetPostsRoute()+"/%v", postId)
}

func ViewReportForm(postId string, nonce string) url.Values {
	form := url.Values{}
	form.Set(VIEWS_REPORT_FIELD_ACTION, VIEWS_REPORT_ACTION)
	form.Set(VIEWS_REPORT_FIELD_NONCE, nonce)
	form.Set(VIEWS_REPORT_FIELD_POST_ID, postId)
	return form
}

// ReportView sends a view report for the post, the way a tracker does.
func (c *Client) ReportView(postId int64, nonce string) (bool, *Response) {
	return c.ReportRawView(strconv.FormatInt(postId, 10), nonce)
}

// ReportRawView sends a view report with an unsanitized post id.
func (c *Client) ReportRawView(postId string, nonce string) (bool, *Response) {
	r, err := c.DoApiPostForm(c.GetViewsRoute(), ViewReportForm(postId, nonce))
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

// ReportViewAdminAjax sends a view report through the admin-ajax compatible endpoint.
func (c *Client) ReportViewAdminAjax(postId int64, nonce string) (bool, *Response) {
	form := ViewReportForm(strconv.FormatInt(postId, 10), nonce)
	r, err := c.doApiRequestReader(http.MethodPost, c.Url+ADMIN_AJAX_PATH, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return false, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return CheckStatusOK(r), BuildResponse(r)
}

func (c *Client) GetPostViews(postId int64) (*PostViews, *Response) {
	r, err := c.DoApiGet(c.GetPostRoute(postId) + "/views")
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return PostViewsFromJson(r.Body), BuildResponse(r)
}

func (c *Client) GetTrackerSettings(postId int64) (*TrackerSettings, *Response) {
	r, err := c.DoApiGet(c.GetPostRoute(postId) + "/tracker")
	if err != nil {
		return nil, BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	return TrackerSettingsFromJson(r.Body), BuildResponse(r)
}

// GetTrackerSnippet fetches the inline script rendered into a post's page.
func (c *Client) GetTrackerSnippet(postId int64) (string, *Response) {
	r, err := c.DoApiRequest(http.MethodGet, c.Url+fmt.Sprintf("/posts/%v/tracker.html", postId), "")
	if err != nil {
		return "", BuildErrorResponse(r, err)
	}
	defer closeBody(r)
	b, _ := ioutil.ReadAll(r.Body)
	return string(b), BuildResponse(r)
}

// CheckStatusOK is a convenience function for checking the standard OK response
// from the web service.
func CheckStatusOK(r *http.Response) bool {
	m := MapFromJson(r.Body)
	defer closeBody(r)

	if m != nil && m[STATUS] == STATUS_OK {
		return true
	}

	return false
}

func (c *Client) DoApiGet(url string) (*http.Response, *AppError) {
	return c.DoApiRequest(http.MethodGet, c.ApiUrl+url, "")
}

func (c *Client) DoApiPostForm(url string, form url.Values) (*http.Response, *AppError) {
	return c.doApiRequestReader(http.MethodPost, c.ApiUrl+url, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) DoApiRequest(method, url, data string) (*http.Response, *AppError) {
	return c.doApiRequestReader(method, url, strings.NewReader(data), "")
}

func (c *Client) doApiRequestReader(method, url string, data io.Reader, contentType string) (*http.Response, *AppError) {
	rq, err := http.NewRequest(method, url, data)
	if err != nil {
		return nil, NewAppError(url, "model.client.connecting.app_error", nil, err.Error(), http.StatusBadRequest)
	}

	rq.Header.Set(HEADER_REQUESTED_WITH, HEADER_REQUESTED_WITH_XML)

	if contentType != "" {
		rq.Header.Set("Content-Type", contentType)
	}

	if c.HttpHeader != nil && len(c.HttpHeader) > 0 {
		for k, v := range c.HttpHeader {
			rq.Header.Set(k, v)
		}
	}

	rp, err := c.HttpClient.Do(rq)
	if err != nil || rp == nil {
		return nil, NewAppError(url, "model.client.connecting.app_error", nil, err.Error(), 0)
	}

	if rp.StatusCode == 304 {
		return rp, nil
	}

	if rp.StatusCode >= 300 {
		defer closeBody(rp)
		return rp, AppErrorFromJson(rp.Body)
	}

	return rp, nil
}
