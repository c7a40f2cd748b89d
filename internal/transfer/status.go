package transfer

import "time"

// Reporter is a read-only view over a Registry producing status summaries
// for concurrent callers.
type Reporter struct {
	registry *Registry
}

// NewReporter creates a reporter over the given registry.
func NewReporter(registry *Registry) *Reporter {
	return &Reporter{registry: registry}
}

// Current returns one row per in-flight transfer, ordered by start time.
// Sizes and elapsed times are formatted fresh against now; an empty slice
// means nothing is downloading.
func (r *Reporter) Current(now time.Time) []FileStatus {
	snapshot := r.registry.Snapshot()

	statuses := make([]FileStatus, 0, len(snapshot))
	for _, f := range snapshot {
		statuses = append(statuses, FileStatus{
			FileName:  f.FileName,
			FileSize:  FormatSize(f.FileSize),
			StartedAt: f.StartTime,
			Elapsed:   FormatDuration(now.Sub(f.StartTime).Seconds()),
		})
	}
	return statuses
}
