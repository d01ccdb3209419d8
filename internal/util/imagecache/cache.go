// Package imagecache downloads remote texture packs and target images into a
// local cache directory so repeated renders do not fetch them again.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/tessera/internal/util/http"
)

// Fetcher retrieves the body of a URL.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// CacheOptions configures download caching.
type CacheOptions struct {
	// CacheDir is the directory where downloads are cached.
	// If empty, defaults to ~/.cache/tessera/downloads
	CacheDir string

	// AllowOverwrite re-downloads even when a cached copy exists.
	AllowOverwrite bool

	// Fetch overrides how the URL is retrieved. Defaults to an HTTP GET.
	Fetch Fetcher
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "tessera", "downloads"), nil
	}
	return filepath.Join(cacheDir, "tessera", "downloads"), nil
}

// CachedName returns the deterministic cache filename for a URL: a hash of the
// URL followed by the URL's own file name, so archive extensions survive.
func CachedName(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	prefix := fmt.Sprintf("%x", hash[:8])

	name := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		name = path.Base(parsed.Path)
	}
	if name == "" || name == "." || name == "/" {
		return prefix
	}
	return prefix + "-" + name
}

// DownloadAndCache downloads rawURL into the cache directory and returns the local path.
// An existing cached copy is reused unless AllowOverwrite is set.
func DownloadAndCache(ctx context.Context, rawURL string, opts CacheOptions) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		defaultDir, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		cacheDir = defaultDir
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(cacheDir, CachedName(rawURL))
	if !opts.AllowOverwrite {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	fetch := opts.Fetch
	if fetch == nil {
		fetch = func(ctx context.Context, u string) ([]byte, error) {
			return httputil.Fetch(ctx, u, httputil.FetchOptions{})
		}
	}

	data, err := fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}

	// Write to a temporary name first so an interrupted download never looks cached.
	tmp := cachedPath + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached file: %w", err)
	}
	if err := os.Rename(tmp, cachedPath); err != nil {
		return "", fmt.Errorf("failed to finalise cached file: %w", err)
	}

	return cachedPath, nil
}
