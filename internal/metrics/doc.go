// Package metrics defines the Prometheus metric families exported by the
// filebox server: HTTP request counts and durations, metadata store
// operation timings and corruption recoveries, thumbnail generation
// outcomes, and streamed byte counts.
package metrics
