package stats

import (
	"encoding/json"
	"testing"

	"filebox/internal/store"
)

func newTestCollector(t *testing.T) (*Collector, *store.FileStore) {
	t.Helper()
	dir := t.TempDir()
	files, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewCollector(files, dir), files
}

func addSizedFile(t *testing.T, files *store.FileStore, name string, size int64) {
	t.Helper()
	if _, err := files.Add(store.AddFileParams{
		OriginalName: name,
		StoredName:   "123_" + name,
		Size:         size,
		Mime:         "video/mp4",
		Path:         "/uploads/123_" + name,
		IsVideo:      true,
	}); err != nil {
		t.Fatalf("Add(%s): %v", name, err)
	}
}

func TestCollectEmptyStore(t *testing.T) {
	t.Parallel()
	c, _ := newTestCollector(t)

	usage, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if usage.FileCount != 0 || usage.TotalBytes != 0 {
		t.Errorf("empty store usage = %+v, want zero counts", usage)
	}
}

func TestCollectSumsRecordSizes(t *testing.T) {
	t.Parallel()
	c, files := newTestCollector(t)

	addSizedFile(t, files, "a.mp4", 100)
	addSizedFile(t, files, "b.mp4", 250)
	addSizedFile(t, files, "c.mp4", 0)

	usage, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if usage.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", usage.FileCount)
	}
	if usage.TotalBytes != 350 {
		t.Errorf("TotalBytes = %d, want 350", usage.TotalBytes)
	}
}

func TestCollectDiskFigures(t *testing.T) {
	t.Parallel()
	c, _ := newTestCollector(t)

	usage, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// The temp dir lives on a real filesystem, so the figures should be
	// present and internally consistent wherever statfs is available.
	if usage.DiskTotalBytes == nil || usage.DiskFreeBytes == nil {
		t.Skip("disk usage not available on this platform")
	}
	if *usage.DiskTotalBytes <= 0 {
		t.Errorf("DiskTotalBytes = %d, want > 0", *usage.DiskTotalBytes)
	}
	if *usage.DiskFreeBytes < 0 || *usage.DiskFreeBytes > *usage.DiskTotalBytes {
		t.Errorf("DiskFreeBytes = %d out of range for total %d",
			*usage.DiskFreeBytes, *usage.DiskTotalBytes)
	}
}

func TestCollectDiskFailureLeavesFiguresAbsent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	addSizedFile(t, files, "a.mp4", 42)

	c := NewCollector(files, dir+"/does/not/exist")

	usage, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect with bad storage path: %v", err)
	}
	if usage.FileCount != 1 || usage.TotalBytes != 42 {
		t.Errorf("record figures lost: %+v", usage)
	}
	if usage.DiskTotalBytes != nil || usage.DiskFreeBytes != nil {
		t.Errorf("disk figures present for an unreachable path: %+v", usage)
	}

	// Absent figures serialize as null, never zero.
	raw, err := json.Marshal(usage)
	if err != nil {
		t.Fatalf("marshal usage: %v", err)
	}
	want := `{"fileCount":1,"totalBytes":42,"diskFreeBytes":null,"diskTotalBytes":null}`
	if string(raw) != want {
		t.Errorf("usage JSON = %s, want %s", raw, want)
	}
}
