package spec

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FetchError is returned when the source document can't be retrieved, either
// because of a transport failure or a non-success response. It is always
// fatal for a run.
type FetchError struct {
	Location   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d: %v", e.Location, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
}

// Fetcher retrieves OpenAPI documents from a URL or the local filesystem.
type Fetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewFetcher creates a Fetcher. Retries are left to the HTTP client; the
// default of zero means a single attempt.
func NewFetcher(config FetcherConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(config.Retries).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}

	return &Fetcher{
		client: client,
		logger: logger.With(zap.String("component", "spec_fetcher")),
	}
}

// Fetch returns the raw bytes of the document at location. http and https
// URLs are downloaded; file:// URLs and bare paths are read from disk.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if isRemote(location) {
		return f.fetchFromURL(ctx, location)
	}

	path := strings.TrimPrefix(location, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}
	f.logger.Debug("read spec from disk", zap.String("path", path), zap.Int("bytes", len(data)))
	return data, nil
}

func (f *Fetcher) fetchFromURL(ctx context.Context, location string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8").
		Get(location)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{
			Location:   location,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %q", resp.Status()),
		}
	}

	f.logger.Debug("fetched spec",
		zap.String("url", location),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("elapsed", resp.Time()),
	)
	return resp.Body(), nil
}

func isRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
