package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStepDuration("wiki", time.Second)
	r.ObserveRunDuration(time.Second)
	r.IncItemResult("wiki", ResultProcessed)
	r.IncRunOutcome(OutcomeSuccess)
	r.SetLastRun(time.Now())
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	var _ Recorder = pr

	pr.ObserveStepDuration("wiki", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncItemResult("wiki", ResultProcessed)
	pr.IncItemResult("wiki", ResultProcessed)
	pr.IncItemResult("images", ResultSkipped)
	pr.IncRunOutcome(OutcomeSuccess)
	pr.SetLastRun(time.Unix(1700000000, 0))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)

	body := scrape(t, pr)
	assert.Contains(t, body, `aggregate_content_item_results_total{result="processed",step="wiki"} 2`)
	assert.Contains(t, body, `aggregate_content_item_results_total{result="skipped",step="images"} 1`)
	assert.Contains(t, body, `aggregate_content_run_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, body, "aggregate_content_last_run_timestamp_seconds 1.7e+09")
}

func scrape(t *testing.T, pr *PrometheusRecorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	pr.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(OutcomeFailed)

	path := filepath.Join(t.TempDir(), "aggregate.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `aggregate_content_run_outcomes_total{outcome="failed"} 1`)
}

func TestPrometheusRecorder_HTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncItemResult("readmes", ResultProcessed)

	assert.True(t, strings.Contains(scrape(t, pr), "aggregate_content_item_results_total"))
}
