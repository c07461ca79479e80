package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"roadmapboard/internal/errors"
)

// Fetcher reads a workbook from an http(s) URL or from disk
type Fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a fetcher. A zero timeout leaves the request bounded
// only by the caller's context.
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("source"),
	}
}

// IsRemote reports whether location is fetched over HTTP
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch makes a single attempt to read location
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	startTime := time.Now()

	var (
		data []byte
		err  error
	)
	if IsRemote(location) {
		data, err = f.fetchHTTP(ctx, location)
	} else {
		data, err = f.readFile(location)
	}
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	f.logger.Debug("Workbook fetched",
		zap.String("location", location),
		zap.Int("bytes", len(data)),
		zap.String("sha256", hex.EncodeToString(sum[:8])),
		zap.Duration("took", time.Since(startTime)))
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.LoadFailed("Unable to load "+location, err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.LoadFailed("Unable to load "+location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.LoadFailed(fmt.Sprintf("Unable to load %s (%d)", location, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.LoadFailed("Unable to load "+location, err)
	}
	return data, nil
}

// LocalPath is the filesystem path of a non-remote location
func LocalPath(location string) string {
	return strings.TrimPrefix(location, "file://")
}

func (f *Fetcher) readFile(location string) ([]byte, error) {
	data, err := os.ReadFile(LocalPath(location))
	if err != nil {
		return nil, errors.LoadFailed("Unable to load "+location, err)
	}
	return data, nil
}
