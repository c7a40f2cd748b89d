package transfer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry is the process-wide table of in-flight transfers. It owns
// admission control: the duplicate checks and the insert happen in a single
// critical section so that concurrent requests for the same file cannot
// both pass. The lock covers only admission bookkeeping, never fetch or
// relocation I/O.
type Registry struct {
	mu    sync.Mutex
	files map[string]DownloadingFile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		files: make(map[string]DownloadingFile),
	}
}

// Admit checks whether a download for the given file may proceed and, if
// so, registers it. Admission fails when the name already exists under
// targetDir, when fileID is already registered, or when another in-flight
// entry carries the same name. On success the created entry is returned.
func (r *Registry) Admit(fileID, fileName string, fileSize uint64, targetDir string) (DownloadingFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(filepath.Join(targetDir, fileName)); err == nil {
		return DownloadingFile{}, NewAlreadyInProgressError(fileName,
			"file already exists in the target directory")
	}

	if _, ok := r.files[fileID]; ok {
		return DownloadingFile{}, NewAlreadyInProgressError(fileName,
			"file is already being downloaded")
	}

	for _, f := range r.files {
		if f.FileName == fileName {
			return DownloadingFile{}, NewAlreadyInProgressError(fileName,
				"a file with this name is already being downloaded")
		}
	}

	entry := DownloadingFile{
		FileName:  fileName,
		FileSize:  fileSize,
		StartTime: time.Now(),
	}
	r.files[fileID] = entry
	return entry, nil
}

// Release removes the entry for fileID. Idempotent; releasing an unknown
// id is a no-op.
func (r *Registry) Release(fileID string) {
	r.mu.Lock()
	delete(r.files, fileID)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all in-flight entries, ordered
// by start time (ties broken by name). Callers never see internal state.
func (r *Registry) Snapshot() []DownloadingFile {
	r.mu.Lock()
	out := make([]DownloadingFile, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].FileName < out[j].FileName
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// SanitizeFileName reduces an untrusted declared name to a bare file name
// safe to join onto the target directory. The name is stripped to its final
// path element; empty results, dot names and names still carrying path
// separators or NUL bytes after cleaning are rejected.
func SanitizeFileName(name string) (string, error) {
	cleaned := filepath.Base(strings.TrimSpace(name))
	switch cleaned {
	case "", ".", "..", string(filepath.Separator):
		return "", NewInvalidFileNameError(name, "no usable file name")
	}
	if strings.ContainsAny(cleaned, `/\`+"\x00") {
		return "", NewInvalidFileNameError(name, "contains path separators")
	}
	return cleaned, nil
}
