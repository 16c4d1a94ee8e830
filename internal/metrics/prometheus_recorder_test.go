package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeFailed)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.AddRenderedFiles(KindPage, 2)
	pr.AddRenderedFiles(KindDocument, 3)
	pr.AddRenderedFiles(KindDocument, 0)
	pr.IncSkippedRebuild()

	assert.InDelta(t, 2, counterValue(t, reg, "filmshelf_build_outcomes_total", "success"), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "filmshelf_build_outcomes_total", "failed"), 0)
	assert.InDelta(t, 3, counterValue(t, reg, "filmshelf_rendered_files_total", "document"), 0)
	assert.InDelta(t, 2, counterValue(t, reg, "filmshelf_rendered_files_total", "page"), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "filmshelf_watch_skipped_rebuilds_total", ""), 0)
}

// counterValue returns the counter sample of family name whose single label
// has value label, or the unlabeled sample when label is empty.
func counterValue(t *testing.T, reg *prom.Registry, name, label string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" && len(m.GetLabel()) == 0 {
				return m.GetCounter().GetValue()
			}
			if len(m.GetLabel()) == 1 && m.GetLabel()[0].GetValue() == label {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s{%s} not found", name, label)
	return 0
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(OutcomeSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `filmshelf_build_outcomes_total{outcome="success"} 1`))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeCanceled)
	r.AddRenderedFiles(KindPage, 1)
	r.IncSkippedRebuild()
}
