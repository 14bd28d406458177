package domain

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	// doiResolverPrefix is the resolver form of a DOI.
	doiResolverPrefix = "https://doi.org/"

	// DataverseKeyHeader carries the API token on upload requests.
	DataverseKeyHeader = "X-Dataverse-key" //nolint:gosec // G101: header name, not a credential

	// addFilePath is the dataset file endpoint relative to the base address.
	addFilePath = "api/datasets/:persistentId/add?persistentId="

	// MaxInFlightFraction bounds progress until the server acknowledges.
	MaxInFlightFraction = 0.99
)

// NormalizeDOI rewrites "https://doi.org/<suffix>" (prefix compared
// case-insensitively) to "doi:<suffix>". Other identifiers pass unchanged,
// so the function is idempotent.
func NormalizeDOI(id string) string {
	if len(id) >= len(doiResolverPrefix) && strings.EqualFold(id[:len(doiResolverPrefix)], doiResolverPrefix) {
		return "doi:" + id[len(doiResolverPrefix):]
	}
	return id
}

// BuildUploadEndpoint returns the add-file endpoint for a dataset.
// The identifier is normalised first. A result that is not an absolute
// http(s) URL is an ErrConfiguration.
func BuildUploadEndpoint(baseAddress, datasetID string) (string, error) {
	baseAddress = strings.TrimSpace(baseAddress)
	if baseAddress == "" {
		return "", fmt.Errorf("%w: repository address is empty", ErrConfiguration)
	}
	if strings.TrimSpace(datasetID) == "" {
		return "", fmt.Errorf("%w: dataset identifier is empty", ErrConfiguration)
	}
	if !strings.HasSuffix(baseAddress, "/") {
		baseAddress += "/"
	}

	endpoint := baseAddress + addFilePath + NormalizeDOI(datasetID)

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid repository address: %w", ErrConfiguration, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: invalid repository address %q", ErrConfiguration, baseAddress)
	}
	return endpoint, nil
}

// UploadRequest describes a single file push to a dataset repository.
// Credentials are supplied at call time rather than read from global state.
type UploadRequest struct {
	FilePath    string
	BaseAddress string
	Token       string
	DatasetID   string
}

// UploadSession tracks one in-flight upload.
//
// Progress is published on a latest-value channel: a slow reader skips
// intermediate values but never observes them out of order. Fraction may be
// read from any goroutine. The fraction is non-decreasing and reaches 1.0
// only when the upload succeeds.
type UploadSession struct {
	ID       string
	FilePath string
	Endpoint string

	mu       sync.Mutex
	fraction atomic.Uint64
	progress chan float64
	done     chan struct{}
	finished bool
	body     string
	err      error
}

// NewUploadSession creates a session in the zero-progress state.
func NewUploadSession(id, filePath, endpoint string) *UploadSession {
	return &UploadSession{
		ID:       id,
		FilePath: filePath,
		Endpoint: endpoint,
		progress: make(chan float64, 1),
		done:     make(chan struct{}),
	}
}

// Report records transport progress. Values are clamped to
// [0, MaxInFlightFraction]; values below the current fraction are ignored.
func (s *UploadSession) Report(f float64) {
	if math.IsNaN(f) {
		return
	}
	f = math.Max(0, math.Min(f, MaxInFlightFraction))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || f <= s.Fraction() {
		return
	}
	s.publish(f)
}

// Complete finishes the session. On success the fraction settles at 1.0.
// The progress channel is closed either way.
func (s *UploadSession) Complete(body string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	s.body = body
	s.err = err
	if err == nil {
		s.publish(1.0)
	}
	close(s.progress)
	close(s.done)
}

// publish replaces any unread value with f (caller must hold lock).
func (s *UploadSession) publish(f float64) {
	s.fraction.Store(math.Float64bits(f))
	select {
	case <-s.progress:
	default:
	}
	s.progress <- f
}

// Progress returns the stream of progress fractions. It is closed when the
// session completes.
func (s *UploadSession) Progress() <-chan float64 {
	return s.progress
}

// Fraction returns the last reported fraction.
func (s *UploadSession) Fraction() float64 {
	return math.Float64frombits(s.fraction.Load())
}

// Done is closed when the session completes.
func (s *UploadSession) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until completion and returns the response body or the failure.
func (s *UploadSession) Wait() (string, error) {
	<-s.done
	return s.body, s.err
}
