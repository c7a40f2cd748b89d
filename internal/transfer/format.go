package transfer

import (
	"fmt"
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatSize converts a byte count into a human-readable string using the
// largest fitting 1024-based unit. Values are printed with at most two
// decimals, trailing zeros trimmed: 0 → "0 B", 1536 → "1.5 KB",
// 1<<30 → "1 GB".
func FormatSize(bytes uint64) string {
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

// FormatDuration converts elapsed seconds into an HH:MM:SS string. Hours
// are not capped at 24; negative input clamps to "00:00:00".
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
