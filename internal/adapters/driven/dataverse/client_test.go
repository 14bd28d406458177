package dataverse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

func writeUpload(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.zip")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAddFile_Success(t *testing.T) {
	var (
		gotKey     string
		gotName    string
		gotType    string
		gotContent string
		gotLength  int64
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotKey = r.Header.Get("X-Dataverse-key")
		gotLength = r.ContentLength

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		data, _ := io.ReadAll(file)
		gotContent = string(data)

		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	path := writeUpload(t, "archive bytes")

	var (
		mu                  sync.Mutex
		lastSent, lastTotal int64
	)
	progress := func(sent, total int64) {
		mu.Lock()
		defer mu.Unlock()
		assert.GreaterOrEqual(t, sent, lastSent)
		lastSent, lastTotal = sent, total
	}

	client := NewClient(Config{})
	body, err := client.AddFile(context.Background(), server.URL, "secret", path, progress)
	require.NoError(t, err)

	assert.Equal(t, `{"status":"OK"}`, body)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "scan.zip", gotName)
	assert.Equal(t, "application/octet-stream", gotType)
	assert.Equal(t, "archive bytes", gotContent)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, gotLength, lastTotal)
	assert.Equal(t, lastTotal, lastSent)
}

func TestAddFile_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":"ERROR"}`))
	}))
	defer server.Close()

	client := NewClient(Config{})
	_, err := client.AddFile(context.Background(), server.URL, "bad", writeUpload(t, "x"), nil)
	require.Error(t, err)

	var httpErr *domain.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, `{"status":"ERROR"}`, httpErr.Body)
}

func TestAddFile_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{})
	_, err := client.AddFile(context.Background(), url, "token", writeUpload(t, "x"), nil)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestAddFile_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{})
	_, err := client.AddFile(ctx, server.URL, "token", writeUpload(t, "x"), nil)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddFile_MissingFile(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.AddFile(context.Background(), "http://localhost", "token",
		filepath.Join(t.TempDir(), "missing.zip"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddFile_UserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = io.Copy(io.Discard, r.Body)
	}))
	defer server.Close()

	client := NewClient(Config{UserAgent: "scanprep/test"})
	_, err := client.AddFile(context.Background(), server.URL, "token", writeUpload(t, "x"), nil)
	require.NoError(t, err)
	assert.Equal(t, "scanprep/test", agent)
}
