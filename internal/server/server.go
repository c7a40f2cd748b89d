// Package server exposes the operator surface over HTTP: a download
// ingest endpoint for the transport layer and read-only status, history
// and storage reports. It owns no chat formatting.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/vidsink/vidsink/internal/api"
	"github.com/vidsink/vidsink/internal/config"
	"github.com/vidsink/vidsink/internal/fetch"
	"github.com/vidsink/vidsink/internal/log"
	"github.com/vidsink/vidsink/internal/transfer"
)

// Server handles ingest and status requests.
type Server struct {
	cfg      *config.Config
	client   *api.Client
	resolver fetch.Resolver
	pipeline *transfer.Pipeline
	reporter *transfer.Reporter
	history  *transfer.HistoryStore
	srv      *http.Server
}

// New creates a server wired to the download core.
func New(cfg *config.Config, client *api.Client, resolver fetch.Resolver,
	pipeline *transfer.Pipeline, reporter *transfer.Reporter, history *transfer.HistoryStore) *Server {
	return &Server{
		cfg:      cfg,
		client:   client,
		resolver: resolver,
		pipeline: pipeline,
		reporter: reporter,
		history:  history,
	}
}

// Start begins listening. Blocks until the listener fails or Stop is
// called; a clean shutdown returns http.ErrServerClosed.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/storage", s.handleStorage)

	s.srv = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: mux,
	}

	log.Info("server").
		Str("listen_addr", s.cfg.ListenAddr).
		Msg("Status server listening")

	return s.srv.ListenAndServe()
}

// Stop shuts the server down, waiting for in-flight handlers.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
