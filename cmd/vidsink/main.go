package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vidsink/vidsink/internal/api"
	"github.com/vidsink/vidsink/internal/config"
	"github.com/vidsink/vidsink/internal/fetch"
	"github.com/vidsink/vidsink/internal/log"
	"github.com/vidsink/vidsink/internal/server"
	"github.com/vidsink/vidsink/internal/transfer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vidsink",
		Short: "Video download daemon for chat-bot front ends",
		Long: `vidsink accepts video download requests handed over by a chat
transport, deduplicates them, fetches the files from the Bot API and
relocates them into a target directory. Status, history and storage
reports are served over HTTP.

Configuration is read from a config file, VIDSINK_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfgFile)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "path to config file")
	f.String("target-dir", "", "directory for completed downloads (required)")
	f.String("temp-dir", "", "directory for in-flight fetches (defaults to the OS temp dir)")
	f.String("bot-token", "", "Bot API token (required)")
	f.String("api-base-url", "", "Bot API base URL")
	f.Bool("local-mode", false, "Bot API server runs locally and writes files to disk")
	f.String("bot-api-dir", "", "local Bot API server working directory")
	f.String("listen-addr", "", "status endpoint listen address")
	f.String("log-level", "", "log level (debug, info, warn, error, none)")

	return cmd
}

func run(cmd *cobra.Command, cfgFile string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	log.SetLevel(log.Level(cfg.LogLevel))

	if err := os.MkdirAll(cfg.TargetDir, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	} else if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.APIBaseURL, cfg.BotToken)
	me, err := client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("bot authentication failed: %w", err)
	}
	log.Info("main").
		Str("bot", me.Username).
		Str("target_dir", cfg.TargetDir).
		Msg("Authenticated with Bot API")

	var resolver fetch.Resolver
	if cfg.LocalMode {
		resolver = fetch.NewLocalFetcher(cfg.BotAPIDir, cfg.BotToken)
	} else {
		resolver = fetch.NewHTTPFetcher(client, cfg.TempDir)
	}

	registry := transfer.NewRegistry()
	history := transfer.NewHistoryStore(cfg.TargetDir)
	history.Load()
	pipeline := transfer.NewPipeline(registry, cfg.TargetDir, history)
	reporter := transfer.NewReporter(registry)

	srv := server.New(cfg, client, resolver, pipeline, reporter, history)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("main").Msg("Shutting down")
	if err := srv.Stop(); err != nil {
		log.Error("main").Err(err).Msg("Error stopping server")
	}
	return nil
}
