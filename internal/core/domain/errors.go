package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent pipeline failures.
// Adapters wrap infrastructure errors with one of these kinds so callers can
// branch with errors.Is while keeping the underlying cause in the chain.
var (
	// ErrNotFound indicates a requested file or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a target name is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIO indicates a read or write failure on the local file system.
	ErrIO = errors.New("i/o error")

	// ErrConfiguration indicates a malformed address, identifier or setting.
	// It is always reported before any network call is made.
	ErrConfiguration = errors.New("configuration error")

	// ErrCompression indicates the archiving step did not complete.
	ErrCompression = errors.New("compression error")

	// ErrTransport indicates a connection, DNS or timeout failure.
	ErrTransport = errors.New("transport error")

	// ErrCaptureFailed indicates the reconstruction engine reported an error.
	ErrCaptureFailed = errors.New("capture failed")

	// ErrMeasurementUnavailable indicates the viewer has no measurement yet.
	ErrMeasurementUnavailable = errors.New("measurement unavailable")

	// ErrMirrorNotConfigured indicates archive mirroring has no bucket set.
	ErrMirrorNotConfigured = errors.New("mirror not configured")
)

// HTTPError is returned when a remote service (the dataset repository or the
// ontology lookup) answers with an unexpected status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error %d", e.StatusCode)
}

// IsHTTPStatus reports whether err carries an HTTPError with the given status.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == status
	}
	return false
}

// UserMessage renders a short human-readable message for err, derived from
// its kind and, where available, the HTTP status or underlying error text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Server returned HTTP %d", httpErr.StatusCode)
	case errors.Is(err, ErrNotFound):
		return "File not found: " + causeText(err, ErrNotFound)
	case errors.Is(err, ErrConfiguration):
		return "Invalid configuration: " + causeText(err, ErrConfiguration)
	case errors.Is(err, ErrCompression):
		return "Compression error: " + causeText(err, ErrCompression)
	case errors.Is(err, ErrTransport):
		return "Network error: " + causeText(err, ErrTransport)
	case errors.Is(err, ErrAlreadyExists):
		return "Name already in use: " + causeText(err, ErrAlreadyExists)
	case errors.Is(err, ErrIO):
		return "File system error: " + causeText(err, ErrIO)
	default:
		return err.Error()
	}
}

// causeText removes the kind text from a wrapped error message so the
// rendered text does not repeat it, wherever the kind sits in the chain.
func causeText(err, kind error) string {
	k := kind.Error()
	msg := strings.ReplaceAll(err.Error(), k+": ", "")
	msg = strings.TrimSuffix(msg, ": "+k)
	if msg == "" || msg == k {
		return k
	}
	return msg
}
