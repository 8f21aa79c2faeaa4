//go:build !unix

package stats

import "errors"

// diskUsage is unavailable on platforms without statfs; callers report the
// figures as absent.
func diskUsage(string) (total, free int64, err error) {
	return 0, 0, errors.New("disk usage not supported on this platform")
}
