// Package transfer implements the download registry and transfer pipeline:
// admission control for concurrent download requests, the fetch→relocate
// operation, and status reporting over in-flight transfers.
package transfer

import (
	"time"
)

// Request describes one inbound download request. The chat transport has
// already extracted these fields from an incoming message; the declared
// name and size are untrusted.
type Request struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	FileSize uint64 `json:"file_size"`
}

// DownloadingFile is one in-flight transfer as tracked by the Registry.
// Size and elapsed strings are derived on demand, never stored.
type DownloadingFile struct {
	FileName  string
	FileSize  uint64
	StartTime time.Time
}

// TransferSummary is returned for every successfully completed transfer.
// All human-readable fields are pre-formatted; the transport layer applies
// its own markup.
type TransferSummary struct {
	FileName        string    `json:"file_name"`
	FinalPath       string    `json:"final_path"`
	FileSize        string    `json:"file_size"`
	FetchDuration   string    `json:"fetch_duration"`
	MoveDuration    string    `json:"move_duration"`
	TotalDuration   string    `json:"total_duration"`
	PermissionError string    `json:"permission_error,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}

// FileStatus is one row of the status report.
type FileStatus struct {
	FileName  string    `json:"file_name"`
	FileSize  string    `json:"file_size"`
	StartedAt time.Time `json:"started_at"`
	Elapsed   string    `json:"elapsed"`
}
