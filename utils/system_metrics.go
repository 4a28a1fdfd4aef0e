package utils

import (
	"github.com/shirou/gopsutil/v4/disk"
)

// DiskUsage reports free bytes and used percentage of the filesystem holding path.
func DiskUsage(path string) (free uint64, usedPercent float64, err error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, 0, err
	}
	return usage.Free, usage.UsedPercent, nil
}
