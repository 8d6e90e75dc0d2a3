package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path is where watch mode serves the exposition.
const Path = "/metrics"

// HTTPHandler serves reg in the Prometheus and OpenMetrics formats. A nil
// registry serves an empty exposition.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// NewServeMux mounts the recorder's registry at Path.
func NewServeMux(rec *PrometheusRecorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Path, HTTPHandler(rec.Registry()))
	return mux
}
