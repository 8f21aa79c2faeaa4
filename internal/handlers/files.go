package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"filebox/internal/logging"
	"filebox/internal/store"
	"filebox/internal/streaming"
	"filebox/internal/upload"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gorilla/mux"
)

const (
	// maxUploadFiles bounds one multipart batch.
	maxUploadFiles = 20
	// maxFileSize bounds a single payload (1 GiB).
	maxFileSize = 1 << 30
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// storedName derives a sanitized, collision-resistant on-disk filename from
// the client-supplied one.
func storedName(originalName string) string {
	safe := unsafeNameChars.ReplaceAllString(filepath.Base(originalName), "_")
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safe)
}

// ListFiles returns all file records, newest first.
func (h *Handlers) ListFiles(w http.ResponseWriter, _ *http.Request) {
	records, err := h.files.List()
	if err != nil {
		logging.Error("list files failed: %v", err)
		writeJSONError(w, "Failed to list files", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

// Upload accepts a multipart batch under the "files" field, with an optional
// "folderId" value, and returns the created records in submission order.
// Payloads are written to the upload directory as the parts stream in; the
// batch is then handed to the orchestrator, which validates the folder
// reference before creating any record.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		writeJSONError(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	var batch []upload.IncomingFile
	var folderID *string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			cleanupPayloads(batch)
			writeJSONError(w, "Malformed upload", http.StatusBadRequest)
			return
		}

		switch {
		case part.FormName() == "folderId" && part.FileName() == "":
			value, err := io.ReadAll(io.LimitReader(part, 256))
			if err != nil {
				cleanupPayloads(batch)
				writeJSONError(w, "Malformed upload", http.StatusBadRequest)
				return
			}
			if len(value) > 0 {
				s := string(value)
				folderID = &s
			}

		case part.FormName() == "files" && part.FileName() != "":
			if len(batch) >= maxUploadFiles {
				cleanupPayloads(batch)
				writeJSONError(w, fmt.Sprintf("Too many files (max %d)", maxUploadFiles), http.StatusBadRequest)
				return
			}

			incoming, err := h.savePart(part)
			if err != nil {
				cleanupPayloads(batch)
				logging.Warn("upload rejected: %v", err)
				writeJSONError(w, err.Error(), http.StatusBadRequest)
				return
			}
			batch = append(batch, incoming)
		}
	}

	if len(batch) == 0 {
		writeJSONError(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	created, err := h.uploader.Process(batch, folderID)
	if errors.Is(err, upload.ErrInvalidFolder) {
		cleanupPayloads(batch)
		writeJSONError(w, "Invalid folderId", http.StatusBadRequest)
		return
	}
	if err != nil {
		logging.Error("upload failed: %v", err)
		writeJSONError(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created)
}

// savePart streams one multipart file part to the upload directory,
// enforcing the per-file size limit.
func (h *Handlers) savePart(part *multipart.Part) (upload.IncomingFile, error) {
	originalName := part.FileName()
	stored := storedName(originalName)
	path := filepath.Join(h.uploadDir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return upload.IncomingFile{}, fmt.Errorf("failed to store %s", originalName)
	}

	n, err := io.Copy(dst, io.LimitReader(part, maxFileSize+1))
	closeErr := dst.Close()

	if err != nil || closeErr != nil {
		os.Remove(path)
		return upload.IncomingFile{}, fmt.Errorf("failed to store %s", originalName)
	}
	if n > maxFileSize {
		os.Remove(path)
		return upload.IncomingFile{}, fmt.Errorf("%s exceeds the size limit", originalName)
	}

	return upload.IncomingFile{
		OriginalName: originalName,
		StoredName:   stored,
		Size:         n,
		Mime:         part.Header.Get("Content-Type"),
		Path:         path,
	}, nil
}

// cleanupPayloads removes already-written payloads when a batch is rejected
// before any record was created. Best effort.
func cleanupPayloads(batch []upload.IncomingFile) {
	for _, in := range batch {
		if err := os.Remove(in.Path); err != nil && !os.IsNotExist(err) {
			logging.Warn("failed to remove rejected payload %s: %v", in.Path, err)
		}
	}
}

type patchFileRequest struct {
	FolderID *string `json:"folderId"`
}

func (req patchFileRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FolderID, is.UUIDv4),
	)
}

// PatchFile reassigns a file to a folder, or to the root with a null
// folderId.
func (h *Handlers) PatchFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.files.Get(id); err != nil {
		h.respondStoreError(w, err)
		return
	}

	// An absent body means "move to root", same as an explicit null.
	var req patchFileRequest
	if err := decodeJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, "Malformed request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.FolderID != nil {
		ok, err := h.folders.Exists(*req.FolderID)
		if err != nil {
			h.respondStoreError(w, err)
			return
		}
		if !ok {
			writeJSONError(w, "Invalid folderId", http.StatusBadRequest)
			return
		}
	}

	updated, err := h.files.Update(id, store.FilePatch{FolderID: req.FolderID, FolderSet: true})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	writeJSON(w, updated)
}

// GetThumb serves a record's thumbnail image. 404 when the record is unknown
// or never got a thumbnail, 410 when the thumbnail file is gone from disk.
func (h *Handlers) GetThumb(w http.ResponseWriter, r *http.Request) {
	record, err := h.files.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	if record.ThumbPath == nil {
		writeJSONError(w, "No thumbnail", http.StatusNotFound)
		return
	}

	if _, err := os.Stat(*record.ThumbPath); os.IsNotExist(err) {
		writeJSONError(w, "Thumb missing", http.StatusGone)
		return
	}

	http.ServeFile(w, r, *record.ThumbPath)
}

// GetRaw serves a record's full bytes with its advisory MIME type, without
// range support.
func (h *Handlers) GetRaw(w http.ResponseWriter, r *http.Request) {
	record, err := h.files.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.sendFileBytes(w, record, "")
}

// Stream serves a record's bytes honoring HTTP range requests, so media
// players can seek.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	record, err := h.files.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	err = streaming.ServeFile(w, r, record.Path, record.Mime)
	if errors.Is(err, streaming.ErrMissing) {
		writeJSONError(w, "File missing on disk", http.StatusGone)
		return
	}
	if err != nil {
		logging.Error("stream failed for %s: %v", record.ID, err)
		writeJSONError(w, "Streaming failed", http.StatusInternalServerError)
	}
}

// Download serves a record's full bytes with a content disposition forcing
// save-as under the original filename.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	record, err := h.files.Get(mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": record.OriginalName,
	})
	h.sendFileBytes(w, record, disposition)
}

// DeleteFile removes the record, its payload, and its thumbnail. Disk
// removal is best effort; only the record removal can fail the request.
func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	record, err := h.files.Remove(mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	if err := os.Remove(record.Path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove payload %s: %v", record.Path, err)
	}
	if record.ThumbPath != nil {
		if err := os.Remove(*record.ThumbPath); err != nil && !os.IsNotExist(err) {
			logging.Warn("failed to remove thumbnail %s: %v", *record.ThumbPath, err)
		}
	}

	writeJSON(w, map[string]bool{"ok": true})
}

// sendFileBytes writes a record's full payload with its advisory MIME type,
// answering 410 Gone when the bytes are missing.
func (h *Handlers) sendFileBytes(w http.ResponseWriter, record store.FileRecord, disposition string) {
	f, err := os.Open(record.Path)
	if os.IsNotExist(err) {
		writeJSONError(w, "File missing on disk", http.StatusGone)
		return
	}
	if err != nil {
		logging.Error("failed to open payload %s: %v", record.Path, err)
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.Error("failed to stat payload %s: %v", record.Path, err)
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	mimeType := record.Mime
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if disposition != "" {
		w.Header().Set("Content-Disposition", disposition)
	}

	if _, err := io.Copy(w, f); err != nil {
		logging.Debug("payload transfer aborted for %s: %v", record.ID, err)
	}
}

// respondStoreError maps store errors onto responses.
func (h *Handlers) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, store.ErrInvalid):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		logging.Error("store operation failed: %v", err)
		writeJSONError(w, "Internal error", http.StatusInternalServerError)
	}
}
