//go:build unix

package stats

import "golang.org/x/sys/unix"

// diskUsage reports total and available bytes for the filesystem holding
// path. Available means usable by an unprivileged caller (Bavail, not
// Bfree).
func diskUsage(path string) (total, free int64, err error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(path, &fs); err != nil {
		return 0, 0, err
	}

	bsize := int64(fs.Bsize)
	total = bsize * int64(fs.Blocks)
	free = bsize * int64(fs.Bavail)
	return total, free, nil
}
