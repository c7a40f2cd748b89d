package transfer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/vidsink/vidsink/internal/log"
)

const historyFileName = ".vidsink-history.json"

// defaultHistoryLimit bounds how many completed transfers are kept.
const defaultHistoryLimit = 50

// HistoryStore persists a bounded list of completed transfers so the
// status surface can show recent activity across restarts. Newest entries
// come first.
type HistoryStore struct {
	mu        sync.RWMutex
	entries   []TransferSummary
	limit     int
	stateFile string
}

// NewHistoryStore creates a history store persisting into targetDir.
func NewHistoryStore(targetDir string) *HistoryStore {
	return &HistoryStore{
		limit:     defaultHistoryLimit,
		stateFile: filepath.Join(targetDir, historyFileName),
	}
}

// Load reads persisted history from disk. A missing file is not an error.
func (h *HistoryStore) Load() {
	data, err := os.ReadFile(h.stateFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error("history").Err(err).Msg("Failed to load transfer history")
		}
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := json.Unmarshal(data, &h.entries); err != nil {
		log.Error("history").Err(err).Msg("Failed to parse transfer history")
		return
	}
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Add prepends a completed transfer, truncates to the limit and persists.
func (h *HistoryStore) Add(summary TransferSummary) {
	h.mu.Lock()
	h.entries = append([]TransferSummary{summary}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	h.mu.Unlock()

	h.save()
}

// Recent returns a copy of the stored entries, newest first.
func (h *HistoryStore) Recent() []TransferSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]TransferSummary, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *HistoryStore) save() {
	h.mu.RLock()
	data, err := json.Marshal(h.entries)
	h.mu.RUnlock()

	if err != nil {
		log.Error("history").Err(err).Msg("Failed to marshal transfer history")
		return
	}

	if err := os.WriteFile(h.stateFile, data, 0o644); err != nil {
		log.Error("history").Err(err).Msg("Failed to save transfer history")
	}
}
