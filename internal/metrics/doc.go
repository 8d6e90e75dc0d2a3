// Package metrics provides build observability for docgraph.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so stages never check for nil. The Prometheus implementation
// is activated by the metrics section of the configuration: it can be written
// to a node-exporter textfile after every build or served over HTTP in watch
// mode.
package metrics
