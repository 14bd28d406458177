package driven

import "context"

// TransferProgress is invoked by the transport as request bytes are sent.
// It may be called from the transport's own goroutine.
type TransferProgress func(sent, total int64)

// DatasetRepository pushes files to a remote dataset repository.
type DatasetRepository interface {
	// AddFile uploads filePath to endpoint in a single multipart request
	// authenticated with token. It returns the raw response body on
	// HTTP 200, a *domain.HTTPError for any other status, and an error
	// wrapping domain.ErrTransport for connection failures.
	AddFile(ctx context.Context, endpoint, token, filePath string, progress TransferProgress) (string, error)
}

// ArchiveMirror copies archives to object storage.
type ArchiveMirror interface {
	// Put stores the file under key and returns its location.
	Put(ctx context.Context, key, filePath string) (string, error)
}
