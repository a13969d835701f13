package spec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	assert "github.com/stretchr/testify/require"
)

func TestFetch_URL(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testDocument))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{Timeout: 5 * time.Second, UserAgent: "adaptergen-test"}, nil)
	data, err := f.Fetch(context.Background(), server.URL+"/openapi.json")
	assert.NoError(t, err)
	assert.Equal(t, testDocument, string(data))
	assert.Equal(t, "adaptergen-test", userAgent)
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{}, nil)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.Error(t, err)

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	f := NewFetcher(FetcherConfig{Timeout: time.Second}, nil)
	_, err := f.Fetch(context.Background(), url)

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, fetchErr.StatusCode)
}

func TestFetch_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testDocument))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(FetcherConfig{}, nil).Fetch(ctx, server.URL)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(yamlDocument), 0o644))

	f := NewFetcher(FetcherConfig{}, nil)

	data, err := f.Fetch(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, yamlDocument, string(data))

	data, err = f.Fetch(context.Background(), "file://"+path)
	assert.NoError(t, err)
	assert.Equal(t, yamlDocument, string(data))

	_, err = f.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
