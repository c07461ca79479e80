package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmapboard/internal/errors"
)

func TestFetchHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		_, _ = w.Write([]byte("workbook-bytes"))
	}))
	defer server.Close()

	data, err := NewFetcher(0, nil).Fetch(context.Background(), server.URL+"/book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "workbook-bytes", string(data))
}

func TestFetchHTTPNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	location := server.URL + "/book.xlsx"
	_, err := NewFetcher(0, nil).Fetch(context.Background(), location)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
	assert.Equal(t, "Unable to load "+location+" (404)", err.Error())
}

func TestFetchHTTPTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewFetcher(50*time.Millisecond, nil).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o600))

	data, err := NewFetcher(0, nil).Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))

	_, err = NewFetcher(0, nil).Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("HTTPS://example.org/book.xlsx"))
	assert.True(t, IsRemote("http://localhost/book.xlsx"))
	assert.False(t, IsRemote("data/book.xlsx"))
	assert.False(t, IsRemote("file:///tmp/book.xlsx"))
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/tmp/book.xlsx", LocalPath("file:///tmp/book.xlsx"))
	assert.Equal(t, "data/book.xlsx", LocalPath("data/book.xlsx"))
}
