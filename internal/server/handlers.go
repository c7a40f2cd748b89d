package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vidsink/vidsink/internal/log"
	"github.com/vidsink/vidsink/internal/transfer"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("server").Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Kind:  string(transfer.Kind(err)),
	})
}

// handleDownload accepts a request record from the transport layer,
// resolves the file against the Bot API and runs the transfer pipeline.
// The handler blocks until the transfer reaches a terminal state.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req transfer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.FileID == "" || req.FileName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file_id and file_name are required"})
		return
	}

	file, err := s.client.GetFile(r.Context(), req.FileID)
	if err != nil {
		writeError(w, http.StatusBadGateway, transfer.NewFetchFailedError(req.FileName, err))
		return
	}
	if req.FileSize == 0 && file.FileSize > 0 {
		req.FileSize = uint64(file.FileSize)
	}

	summary, err := s.pipeline.Execute(r.Context(), req, s.resolver.FetchFunc(file))
	if err != nil {
		switch transfer.Kind(err) {
		case transfer.KindAlreadyInProgress:
			writeError(w, http.StatusConflict, err)
		case transfer.KindInvalidFileName:
			writeError(w, http.StatusBadRequest, err)
		case transfer.KindFetchFailed:
			writeError(w, http.StatusBadGateway, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleStatus reports all in-flight transfers.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.reporter.Current(time.Now()))
}

// handleHistory reports recently completed transfers, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.history.Recent())
}

// handleStorage reports disk usage of the target directory.
func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info, err := diskUsage(s.cfg.TargetDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, info)
}
