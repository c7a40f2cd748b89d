//go:build windows

package server

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/vidsink/vidsink/internal/transfer"
)

func diskUsage(path string) (*StorageInfo, error) {
	var free, total, totalFree uint64
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("disk usage %s: %w", path, err)
	}
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return nil, fmt.Errorf("disk usage %s: %w", path, err)
	}

	used := total - totalFree

	return &StorageInfo{
		Path:       path,
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  free,
		Total:      transfer.FormatSize(total),
		Used:       transfer.FormatSize(used),
		Free:       transfer.FormatSize(free),
	}, nil
}
