// Package upload turns batches of incoming file payloads into persisted
// records plus best-effort thumbnails. It is the one place where the
// metadata store, the classifier, and the thumbnail generator compose.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"

	"filebox/internal/logging"
	"filebox/internal/media"
	"filebox/internal/metrics"
	"filebox/internal/store"
)

// ErrInvalidFolder indicates the batch referenced a destination folder that
// does not exist. The whole batch is rejected before any record is created.
var ErrInvalidFolder = errors.New("destination folder does not exist")

// IncomingFile describes one payload whose bytes are already on disk.
type IncomingFile struct {
	OriginalName string
	StoredName   string
	Size         int64
	Mime         string
	Path         string
}

// Orchestrator registers uploads in the metadata store and triggers
// thumbnail generation for media records.
type Orchestrator struct {
	files   *store.FileStore
	folders *store.FolderStore
	thumbs  media.Generator
}

// New wires an orchestrator from its collaborators. thumbs may be nil to
// disable thumbnail generation entirely.
func New(files *store.FileStore, folders *store.FolderStore, thumbs media.Generator) *Orchestrator {
	return &Orchestrator{
		files:   files,
		folders: folders,
		thumbs:  thumbs,
	}
}

// Process creates a record for every file in the batch, in submission
// order. A non-nil folderID is validated first and an invalid reference
// rejects the whole batch before any record exists. Record creation for
// individual files is otherwise independent: a failure on one file aborts
// with the records created so far already persisted.
//
// Thumbnail generation is fire-and-forget per file: a failed generation
// leaves ThumbPath nil and every other effect of the upload intact.
func (o *Orchestrator) Process(batch []IncomingFile, folderID *string) ([]store.FileRecord, error) {
	if folderID != nil {
		ok, err := o.folders.Exists(*folderID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate folder: %w", err)
		}
		if !ok {
			return nil, ErrInvalidFolder
		}
	}

	created := make([]store.FileRecord, 0, len(batch))

	for _, in := range batch {
		kind := media.Classify(in.Mime, filepath.Ext(in.OriginalName))

		record, err := o.files.Add(store.AddFileParams{
			OriginalName: in.OriginalName,
			StoredName:   in.StoredName,
			Size:         in.Size,
			Mime:         in.Mime,
			Path:         in.Path,
			IsVideo:      kind == media.KindVideo,
			FolderID:     folderID,
		})
		if err != nil {
			return created, fmt.Errorf("failed to register %s: %w", in.OriginalName, err)
		}

		metrics.UploadsTotal.WithLabelValues(string(kind)).Inc()
		metrics.UploadBytesTotal.Add(float64(in.Size))

		if rec, ok := o.generateThumbnail(record, kind); ok {
			record = rec
		}

		created = append(created, record)
	}

	return created, nil
}

// generateThumbnail attempts a thumbnail for video and image records and
// backfills ThumbPath on success. Failures are logged and swallowed; retry
// policy, if any, belongs to the caller.
func (o *Orchestrator) generateThumbnail(record store.FileRecord, kind media.Kind) (store.FileRecord, bool) {
	if o.thumbs == nil || (kind != media.KindVideo && kind != media.KindImage) {
		return record, false
	}

	thumbPath, err := o.thumbs.Generate(record.Path, record.ID, kind)
	if err != nil {
		logging.Warn("upload: thumbnail generation failed for %s (%s): %v",
			record.OriginalName, record.ID, err)
		return record, false
	}

	updated, err := o.files.Update(record.ID, store.FilePatch{ThumbPath: &thumbPath})
	if err != nil {
		logging.Warn("upload: failed to record thumbnail for %s: %v", record.ID, err)
		return record, false
	}
	return updated, true
}
