// Package dataverse provides a dataset repository adapter for the Dataverse
// native API.
package dataverse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.DatasetRepository = (*Client)(nil)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 64 << 10

// Config holds configuration for the Dataverse client.
type Config struct {
	// Timeout bounds a whole request. Zero means no limit; archives can be
	// large, so cancellation is normally left to the caller's context.
	Timeout time.Duration

	// UserAgent is sent with every request when set.
	UserAgent string
}

// Client uploads files with the Dataverse "add file to dataset" call.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates a new Dataverse client.
func NewClient(cfg Config) *Client {
	return &Client{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// AddFile streams filePath as the "file" part of a multipart POST. The body
// is never buffered in memory, and its exact length is announced up front so
// progress can be reported against a known total.
func (c *Client) AddFile(
	ctx context.Context,
	endpoint, token, filePath string,
	progress driven.TransferProgress,
) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	var head bytes.Buffer
	mw := multipart.NewWriter(&head)
	part := make(textproto.MIMEHeader)
	part.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filepath.Base(filePath))))
	part.Set("Content-Type", "application/octet-stream")
	if _, err := mw.CreatePart(part); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	tail := "\r\n--" + mw.Boundary() + "--\r\n"

	total := int64(head.Len()) + info.Size() + int64(len(tail))
	body := &progressReader{
		r:        io.MultiReader(&head, f, strings.NewReader(tail)),
		total:    total,
		progress: progress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(domain.DataverseKeyHeader, token)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &domain.HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", domain.ErrTransport, err)
	}
	return string(data), nil
}

// progressReader reports the running byte count as the transport reads.
type progressReader struct {
	r        io.Reader
	total    int64
	sent     atomic.Int64
	progress driven.TransferProgress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.progress != nil {
		p.progress(p.sent.Add(int64(n)), p.total)
	}
	return n, err
}
