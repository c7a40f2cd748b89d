//go:build !windows

package server

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/vidsink/vidsink/internal/transfer"
)

func diskUsage(path string) (*StorageInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}

	total := st.Blocks * uint64(st.Bsize)
	free := st.Bavail * uint64(st.Bsize)
	used := total - st.Bfree*uint64(st.Bsize)

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
