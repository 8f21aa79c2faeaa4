// Package stats aggregates storage usage: total bytes across all file
// records plus filesystem-level capacity for the storage volume. It is
// read-only and derived entirely from the metadata store and the
// filesystem.
package stats

import (
	"filebox/internal/logging"
	"filebox/internal/store"
)

// Usage is the aggregate returned by Collect. The disk figures are nil when
// the platform cannot report filesystem capacity; absent is distinct from
// zero.
type Usage struct {
	FileCount      int    `json:"fileCount"`
	TotalBytes     int64  `json:"totalBytes"`
	DiskFreeBytes  *int64 `json:"diskFreeBytes"`
	DiskTotalBytes *int64 `json:"diskTotalBytes"`
}

// Collector aggregates file record sizes and storage volume capacity.
type Collector struct {
	files       *store.FileStore
	storagePath string
}

// NewCollector returns a collector reading record sizes from files and disk
// capacity from the volume holding storagePath.
func NewCollector(files *store.FileStore, storagePath string) *Collector {
	return &Collector{files: files, storagePath: storagePath}
}

// Collect sums record sizes and queries the filesystem. The record figures
// and the disk figures are independent: a statfs failure leaves the disk
// figures absent but does not fail the collection.
func (c *Collector) Collect() (Usage, error) {
	records, err := c.files.List()
	if err != nil {
		return Usage{}, err
	}

	usage := Usage{FileCount: len(records)}
	for _, rec := range records {
		usage.TotalBytes += rec.Size
	}

	total, free, err := diskUsage(c.storagePath)
	if err != nil {
		logging.Debug("stats: disk usage unavailable for %s: %v", c.storagePath, err)
		return usage, nil
	}
	usage.DiskTotalBytes = &total
	usage.DiskFreeBytes = &free

	return usage, nil
}
