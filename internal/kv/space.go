package kv

import (
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/disk"

	"github.com/nestboard-dev/nestboard/shared/logger"
)

// checkFreeSpace refuses to open a store on a volume with less than
// minimumFreeGB available. minimumFreeGB <= 0 disables the check.
func checkFreeSpace(path string, minimumFreeGB int) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if minimumFreeGB <= 0 {
		return nil
	}

	usage, err := disk.Usage(path)
	if err != nil {
		return fmt.Errorf("failed to read disk usage for %s: %w", path, err)
	}

	freeGB := usage.Free / (1024 * 1024 * 1024)
	logger.Log.Info("store volume usage",
		"path", path,
		"free_gb", freeGB,
		"used_percent", fmt.Sprintf("%.1f", usage.UsedPercent))

	if freeGB < uint64(minimumFreeGB) {
		return errors.New("not enough space available on disk")
	}
	return nil
}
