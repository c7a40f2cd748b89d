// Package fetch provides the FetchFunc implementations handed to the
// transfer pipeline: an HTTP downloader for remote Bot API servers and a
// path resolver for local ones.
package fetch

import (
	"context"
	"net/http"
	"time"

	grab "github.com/cavaliergopher/grab/v3"

	"github.com/vidsink/vidsink/internal/api"
	"github.com/vidsink/vidsink/internal/log"
	"github.com/vidsink/vidsink/internal/transfer"
)

// Resolver turns a resolved Bot API file into a FetchFunc for the pipeline.
type Resolver interface {
	FetchFunc(file *api.File) transfer.FetchFunc
}

// HTTPFetcher downloads files from the Bot API file endpoint into a
// temporary directory.
type HTTPFetcher struct {
	client  *grab.Client
	api     *api.Client
	tempDir string
}

// NewHTTPFetcher creates a fetcher writing into tempDir.
func NewHTTPFetcher(apiClient *api.Client, tempDir string) *HTTPFetcher {
	client := grab.NewClient()
	client.UserAgent = "vidsink/1.0"
	client.HTTPClient = &http.Client{
		Timeout: 0, // No timeout for large downloads
		Transport: &http.Transport{
			DisableCompression:    true,
			IdleConnTimeout:       60 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}

	return &HTTPFetcher{
		client:  client,
		api:     apiClient,
		tempDir: tempDir,
	}
}

// FetchFunc returns a fetch closure downloading the file into the temp
// directory. The closure honors caller cancellation and performs a single
// attempt.
func (f *HTTPFetcher) FetchFunc(file *api.File) transfer.FetchFunc {
	url := f.api.FileURL(file)
	return func(ctx context.Context) (string, error) {
		req, err := grab.NewRequest(f.tempDir, url)
		if err != nil {
			return "", err
		}
		req = req.WithContext(ctx)

		log.Debug("fetch").
			Str("file_id", file.FileID).
			Str("temp_dir", f.tempDir).
			Msg("Starting HTTP fetch")

		resp := f.client.Do(req)
		if err := resp.Err(); err != nil {
			return "", err
		}

		log.Debug("fetch").
			Str("file_id", file.FileID).
			Str("temp_path", resp.Filename).
			Dur("duration", resp.Duration()).
			Msg("HTTP fetch finished")

		return resp.Filename, nil
	}
}
