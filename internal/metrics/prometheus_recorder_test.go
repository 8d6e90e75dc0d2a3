package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("transform", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("transform", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.ObservePluginDuration("transformer", "crawl-links", time.Millisecond)
	pr.AddDocumentOutcome(DocumentEmitted, 3)
	pr.AddDocumentOutcome(DocumentFiltered, 1)
	pr.AddArtifacts("content-page", 3)
	pr.SetBrokenLinks(2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.InDelta(t, 4, values["docgraph_documents_total"], 0.001)
	assert.InDelta(t, 3, values["docgraph_artifacts_total"], 0.001)
	assert.InDelta(t, 2, values["docgraph_broken_links"], 0.001)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome("success")

	path := filepath.Join(t.TempDir(), "docgraph.prom")
	require.NoError(t, pr.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docgraph_build_outcomes_total{outcome="success"} 1`)
}

func TestNewServeMux(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetBrokenLinks(4)
	mux := NewServeMux(pr)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docgraph_broken_links 4")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPHandler_NilRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	HTTPHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "docgraph_")
}
