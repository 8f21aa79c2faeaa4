package metrics

// InitializeMetrics pre-populates the expected label combinations so every
// metric is exported from the first Prometheus scrape. Call once at startup.
func InitializeMetrics() {
	for _, collection := range []string{"files", "folders"} {
		for _, op := range []string{"read", "write"} {
			StoreOperationsTotal.WithLabelValues(collection, op)
			StoreOperationDuration.WithLabelValues(collection, op)
		}
		StoreCorruptionsTotal.WithLabelValues(collection)
	}

	for _, kind := range []string{"video", "image"} {
		for _, status := range []string{"success", "error"} {
			ThumbnailGenerationsTotal.WithLabelValues(kind, status)
		}
		ThumbnailGenerationDuration.WithLabelValues(kind)
	}

	for _, kind := range []string{"video", "audio", "image", "other"} {
		UploadsTotal.WithLabelValues(kind)
	}

	for _, mode := range []string{"full", "partial"} {
		StreamedBytesTotal.WithLabelValues(mode)
	}
	for _, status := range []string{"ok", "partial", "unsatisfiable", "gone"} {
		StreamRequestsTotal.WithLabelValues(status)
	}
}
