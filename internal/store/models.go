package store

import "time"

// FileRecord is the metadata for one uploaded file. Path points at the bytes
// on disk and is owned exclusively by this record. ThumbPath stays nil until
// thumbnail generation succeeds, and forever if it never does. FolderID is
// nil for unfiled records.
type FileRecord struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	Size         int64     `json:"size"`
	Mime         string    `json:"mime"`
	Path         string    `json:"path"`
	ThumbPath    *string   `json:"thumbPath"`
	IsVideo      bool      `json:"isVideo"`
	FolderID     *string   `json:"folderId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FolderRecord is a flat namespace entry; folders do not nest.
type FolderRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddFileParams carries the caller-supplied fields for a new FileRecord.
// ID and CreatedAt are assigned by the store.
type AddFileParams struct {
	OriginalName string
	StoredName   string
	Size         int64
	Mime         string
	Path         string
	IsVideo      bool
	FolderID     *string
}

// FilePatch describes a partial update to a FileRecord. Zero-value fields
// leave the record untouched. FolderSet must be true for FolderID to be
// applied, so a patch can distinguish "leave as is" from "unfile" (nil).
type FilePatch struct {
	FolderID  *string
	FolderSet bool
	ThumbPath *string
}
