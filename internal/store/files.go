package store

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// FileStore persists FileRecord metadata. It never touches the underlying
// file bytes; deleting payloads from disk is the caller's job.
type FileStore struct {
	c *collection[FileRecord]
}

// NewFileStore opens (creating if necessary) the files collection in dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	c, err := newCollection[FileRecord](dataDir, "files")
	if err != nil {
		return nil, err
	}
	return &FileStore{c: c}, nil
}

// List returns all file records sorted by creation time, newest first.
func (s *FileStore) List() ([]FileRecord, error) {
	items, err := s.c.read()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *FileStore) Get(id string) (FileRecord, error) {
	items, err := s.c.read()
	if err != nil {
		return FileRecord{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return FileRecord{}, ErrNotFound
}

// Add assigns a fresh id and creation timestamp, appends the record, and
// persists the collection.
func (s *FileStore) Add(params AddFileParams) (FileRecord, error) {
	record := FileRecord{
		ID:           uuid.NewString(),
		OriginalName: params.OriginalName,
		StoredName:   params.StoredName,
		Size:         params.Size,
		Mime:         params.Mime,
		Path:         params.Path,
		IsVideo:      params.IsVideo,
		FolderID:     params.FolderID,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.c.mutate(func(items []FileRecord) ([]FileRecord, error) {
		return append(items, record), nil
	})
	if err != nil {
		return FileRecord{}, err
	}
	return record, nil
}

// Update merges patch into the record with the given id and persists the
// collection. Folder-reference validity is the caller's responsibility.
func (s *FileStore) Update(id string, patch FilePatch) (FileRecord, error) {
	var updated FileRecord

	err := s.c.mutate(func(items []FileRecord) ([]FileRecord, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if patch.FolderSet {
				items[i].FolderID = patch.FolderID
			}
			if patch.ThumbPath != nil {
				items[i].ThumbPath = patch.ThumbPath
			}
			updated = items[i]
			return items, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return FileRecord{}, err
	}
	return updated, nil
}

// Remove deletes the record with the given id and persists the collection,
// returning the removed record or ErrNotFound.
func (s *FileStore) Remove(id string) (FileRecord, error) {
	var removed FileRecord

	err := s.c.mutate(func(items []FileRecord) ([]FileRecord, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			removed = items[i]
			return append(items[:i], items[i+1:]...), nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return FileRecord{}, err
	}
	return removed, nil
}

// UnfileFolder clears FolderID on every record assigned to folderID in a
// single persisted pass, and reports how many records changed. Used when a
// folder is deleted so no record is left pointing at it.
func (s *FileStore) UnfileFolder(folderID string) (int, error) {
	count := 0

	err := s.c.mutate(func(items []FileRecord) ([]FileRecord, error) {
		for i := range items {
			if items[i].FolderID != nil && *items[i].FolderID == folderID {
				items[i].FolderID = nil
				count++
			}
		}
		return items, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
