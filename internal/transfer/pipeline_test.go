package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTempSource creates a fetchable source file outside the target dir.
func writeTempSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestPipeline(t *testing.T) (*Pipeline, *Registry, string) {
	t.Helper()
	target := t.TempDir()
	registry := NewRegistry()
	return NewPipeline(registry, target, nil), registry, target
}

func TestPipelineSuccess(t *testing.T) {
	p, registry, target := newTestPipeline(t)
	tempPath := writeTempSource(t, "a.mp4", "video-bytes")

	req := Request{FileID: "f1", FileName: "a.mp4", FileSize: 11}
	summary, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		return tempPath, nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	wantPath := filepath.Join(target, "a.mp4")
	if summary.FinalPath != wantPath {
		t.Errorf("FinalPath = %q, want %q", summary.FinalPath, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("destination file missing: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Errorf("destination content = %q", data)
	}
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Error("temp file still present after relocation")
	}

	if summary.FileSize != "11 B" {
		t.Errorf("FileSize = %q, want %q", summary.FileSize, "11 B")
	}
	for _, d := range []string{summary.FetchDuration, summary.MoveDuration, summary.TotalDuration} {
		if len(d) != 8 {
			t.Errorf("duration %q not in HH:MM:SS form", d)
		}
	}
	if summary.PermissionError != "" {
		t.Errorf("unexpected permission error: %s", summary.PermissionError)
	}
	if summary.CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}

	if got := len(registry.Snapshot()); got != 0 {
		t.Errorf("registry not empty after success: %d entries", got)
	}
}

func TestPipelineAppliesPermissions(t *testing.T) {
	if !supportsPosixPermissions() {
		t.Skip("platform without POSIX permissions")
	}

	p, _, target := newTestPipeline(t)
	tempPath := writeTempSource(t, "a.mp4", "x")

	req := Request{FileID: "f1", FileName: "a.mp4", FileSize: 1}
	if _, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		return tempPath, nil
	}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(target, "a.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o664 {
		t.Errorf("file mode = %o, want 664", perm)
	}
}

func TestPipelineFetchFailure(t *testing.T) {
	p, registry, target := newTestPipeline(t)

	fetchErr := errors.New("connection reset")
	req := Request{FileID: "f1", FileName: "a.mp4"}
	_, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		return "", fetchErr
	})

	if Kind(err) != KindFetchFailed {
		t.Fatalf("expected FetchFailed, got %v", err)
	}
	if !errors.Is(err, fetchErr) {
		t.Error("cause not wrapped in FetchFailed error")
	}
	if got := len(registry.Snapshot()); got != 0 {
		t.Errorf("registry not empty after fetch failure: %d entries", got)
	}
	entries, readErr := os.ReadDir(target)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("target directory not untouched after fetch failure: %v", entries)
	}
}

func TestPipelineRelocationFailure(t *testing.T) {
	p, registry, _ := newTestPipeline(t)

	// Fetch reports a path that does not exist, so the move must fail.
	req := Request{FileID: "f1", FileName: "a.mp4"}
	_, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		return filepath.Join(t.TempDir(), "gone.mp4"), nil
	})

	if Kind(err) != KindRelocationFailed {
		t.Fatalf("expected RelocationFailed, got %v", err)
	}
	if got := len(registry.Snapshot()); got != 0 {
		t.Errorf("registry not empty after relocation failure: %d entries", got)
	}
}

func TestPipelineRelocationFailureKeepsTempFile(t *testing.T) {
	target := t.TempDir()
	registry := NewRegistry()
	p := NewPipeline(registry, target, nil)
	tempPath := writeTempSource(t, "a.mp4", "data")

	req := Request{FileID: "f1", FileName: "a.mp4"}
	_, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		// Occupy the destination path with a directory after admission has
		// passed, so the rename fails.
		if err := os.MkdirAll(filepath.Join(target, "a.mp4"), 0o755); err != nil {
			t.Fatal(err)
		}
		return tempPath, nil
	})

	if Kind(err) != KindRelocationFailed {
		t.Fatalf("expected RelocationFailed, got %v", err)
	}
	if _, statErr := os.Stat(tempPath); statErr != nil {
		t.Errorf("temp file not kept for inspection: %v", statErr)
	}
}

func TestPipelineDuplicateRequest(t *testing.T) {
	p, registry, _ := newTestPipeline(t)

	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	firstDone := make(chan error, 1)

	go func() {
		req := Request{FileID: "f1", FileName: "a.mp4"}
		_, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
			close(fetchStarted)
			<-releaseFetch
			return "", errors.New("aborted")
		})
		firstDone <- err
	}()

	<-fetchStarted

	// Same name, different id, while the first transfer is mid-fetch.
	fetchCalled := false
	req := Request{FileID: "f2", FileName: "a.mp4"}
	_, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		fetchCalled = true
		return "", nil
	})
	if Kind(err) != KindAlreadyInProgress {
		t.Fatalf("expected AlreadyInProgress, got %v", err)
	}
	if fetchCalled {
		t.Error("fetch invoked despite rejected admission")
	}

	close(releaseFetch)
	<-firstDone

	if got := len(registry.Snapshot()); got != 0 {
		t.Errorf("registry not empty after both transfers ended: %d entries", got)
	}
}

func TestPipelineInvalidFileName(t *testing.T) {
	p, registry, _ := newTestPipeline(t)

	req := Request{FileID: "f1", FileName: ".."}
	_, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		t.Fatal("fetch must not run for invalid names")
		return "", nil
	})
	if Kind(err) != KindInvalidFileName {
		t.Fatalf("expected InvalidFileName, got %v", err)
	}
	if got := len(registry.Snapshot()); got != 0 {
		t.Errorf("registry not empty: %d entries", got)
	}
}

func TestPipelineCancelledFetchReleasesEntry(t *testing.T) {
	p, registry, _ := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := Request{FileID: "f1", FileName: "a.mp4"}
	_, err := p.Execute(ctx, req, func(ctx context.Context) (string, error) {
		cancel()
		return "", ctx.Err()
	})

	if Kind(err) != KindFetchFailed {
		t.Fatalf("expected FetchFailed on cancellation, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("context cancellation not preserved as cause")
	}
	if got := len(registry.Snapshot()); got != 0 {
		t.Errorf("registry entry leaked after cancellation: %d entries", got)
	}
}

func TestPipelineRecordsHistory(t *testing.T) {
	target := t.TempDir()
	registry := NewRegistry()
	history := NewHistoryStore(target)
	p := NewPipeline(registry, target, history)
	tempPath := writeTempSource(t, "a.mp4", "x")

	req := Request{FileID: "f1", FileName: "a.mp4", FileSize: 1}
	if _, err := p.Execute(context.Background(), req, func(ctx context.Context) (string, error) {
		return tempPath, nil
	}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	recent := history.Recent()
	if len(recent) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(recent))
	}
	if recent[0].FileName != "a.mp4" {
		t.Errorf("history entry name = %q", recent[0].FileName)
	}
}
