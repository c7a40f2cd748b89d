package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vidsink/vidsink/internal/api"
	"github.com/vidsink/vidsink/internal/transfer"
)

// LocalFetcher resolves files a local Bot API server has already written
// to disk. No network transfer happens; fetching means validating that the
// file exists where the server says it is.
type LocalFetcher struct {
	root string
}

// NewLocalFetcher creates a fetcher rooted at the local Bot API server's
// per-token directory under botAPIDir.
func NewLocalFetcher(botAPIDir, token string) *LocalFetcher {
	return &LocalFetcher{root: filepath.Join(botAPIDir, tokenDir(token))}
}

// tokenDir strips the characters a token-named directory cannot carry on
// Windows.
func tokenDir(token string) string {
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(token, ":", "")
	}
	return token
}

// FetchFunc returns a fetch closure resolving the file's on-disk path.
// getFile returns absolute paths on newer local servers and paths relative
// to the server working directory on older ones; both are handled.
func (f *LocalFetcher) FetchFunc(file *api.File) transfer.FetchFunc {
	return func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path := file.FilePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(f.root, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("local file not found: %w", err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("local file path %s is a directory", path)
		}
		return path, nil
	}
}
