package metrics

import (
	"io/ioutil"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewReports(t *testing.T) {
	m := New()

	m.IncrementViewReport(ResultCounted)
	m.IncrementViewReport(ResultCounted)
	m.IncrementViewReport(ResultInvalid)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ViewReports.WithLabelValues(ResultCounted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ViewReports.WithLabelValues(ResultInvalid)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ViewReports.WithLabelValues(ResultNotFound)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncrementTrackerRender()
	m.ObserveViewReportDuration(0.01)

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "view_counter_tracker_renders_total 1")
	assert.Contains(t, string(body), "view_counter_views_report_duration_seconds_count 1")
}
