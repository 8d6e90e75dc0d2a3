// Package pipeline runs one build: discovery, Transform, Filter, the content
// graph barrier, Emit and an atomic publish of the staged output.
//
// Stages are explicit (see stage_names.go) and recorded in a Report. Plugins
// are plain interfaces; the plugin package resolves configured names to
// implementations.
package pipeline
