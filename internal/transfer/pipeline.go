package transfer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/vidsink/vidsink/internal/log"
)

// FetchFunc retrieves the remote file and returns the path of the local
// temporary copy. Supplied by the transport layer; the pipeline imposes no
// timeout or retry of its own.
type FetchFunc func(ctx context.Context) (string, error)

// Pipeline orchestrates one transfer end to end: admission, fetch,
// relocation into the target directory, permission fix and statistics.
type Pipeline struct {
	registry  *Registry
	history   *HistoryStore
	targetDir string
}

// NewPipeline creates a pipeline writing into targetDir. history may be nil
// to disable completion records.
func NewPipeline(registry *Registry, targetDir string, history *HistoryStore) *Pipeline {
	return &Pipeline{
		registry:  registry,
		history:   history,
		targetDir: targetDir,
	}
}

// Execute runs a single transfer. The registry entry is released on every
// exit path, including caller cancellation mid-fetch. A fetch failure
// leaves the target directory untouched; a relocation failure leaves the
// fetched temp file in place for inspection.
func (p *Pipeline) Execute(ctx context.Context, req Request, fetch FetchFunc) (*TransferSummary, error) {
	name, err := SanitizeFileName(req.FileName)
	if err != nil {
		return nil, err
	}

	entry, err := p.registry.Admit(req.FileID, name, req.FileSize, p.targetDir)
	if err != nil {
		return nil, err
	}
	defer p.registry.Release(req.FileID)

	log.Info("transfer").
		Str("file_id", req.FileID).
		Str("file_name", name).
		Str("file_size", FormatSize(req.FileSize)).
		Msg("Starting transfer")

	tempPath, err := fetch(ctx)
	if err != nil {
		log.Error("transfer").
			Str("file_name", name).
			Err(err).
			Msg("Fetch failed")
		return nil, NewFetchFailedError(name, err)
	}
	fetchDone := time.Now()

	if err := os.MkdirAll(p.targetDir, 0o755); err != nil {
		return nil, NewRelocationFailedError(name, err)
	}

	finalPath := filepath.Join(p.targetDir, name)
	if err := moveFile(tempPath, finalPath); err != nil {
		log.Error("transfer").
			Str("file_name", name).
			Str("temp_path", tempPath).
			Err(err).
			Msg("Relocation failed, temp file kept for inspection")
		return nil, NewRelocationFailedError(name, err)
	}

	summary := &TransferSummary{
		FileName:  name,
		FinalPath: finalPath,
		FileSize:  FormatSize(req.FileSize),
	}

	if supportsPosixPermissions() {
		if err := os.Chmod(finalPath, 0o664); err != nil {
			permErr := NewPermissionFixError(name, err)
			summary.PermissionError = permErr.Error()
			log.Warn("transfer").
				Str("file_name", name).
				Err(err).
				Msg("Could not set file permissions")
		}
	}

	end := time.Now()
	summary.FetchDuration = FormatDuration(fetchDone.Sub(entry.StartTime).Seconds())
	summary.MoveDuration = FormatDuration(end.Sub(fetchDone).Seconds())
	summary.TotalDuration = FormatDuration(end.Sub(entry.StartTime).Seconds())
	summary.CompletedAt = end

	if p.history != nil {
		p.history.Add(*summary)
	}

	log.Info("transfer").
		Str("file_name", name).
		Str("final_path", finalPath).
		Str("file_size", summary.FileSize).
		Str("duration", summary.TotalDuration).
		Msg("Transfer completed")

	return summary, nil
}
