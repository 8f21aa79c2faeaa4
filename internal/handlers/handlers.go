package handlers

import (
	"time"

	"filebox/internal/stats"
	"filebox/internal/store"
	"filebox/internal/upload"
)

// Handlers carries the collaborators every endpoint needs.
type Handlers struct {
	files     *store.FileStore
	folders   *store.FolderStore
	uploader  *upload.Orchestrator
	stats     *stats.Collector
	uploadDir string
	startedAt time.Time
}

// New wires the handler set.
func New(files *store.FileStore, folders *store.FolderStore, uploader *upload.Orchestrator, collector *stats.Collector, uploadDir string) *Handlers {
	return &Handlers{
		files:     files,
		folders:   folders,
		uploader:  uploader,
		stats:     collector,
		uploadDir: uploadDir,
		startedAt: time.Now(),
	}
}
