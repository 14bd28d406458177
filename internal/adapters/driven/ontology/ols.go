// Package ontology provides an anatomy term lookup against the EBI Ontology
// Lookup Service (OLS).
package ontology

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure OLSClient implements the interface.
var _ driven.OntologyClient = (*OLSClient)(nil)

const (
	// DefaultOntology is the ontology searched for anatomy terms.
	DefaultOntology = "uberon"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRate is the sustained request rate, in requests per second.
	DefaultRate = 3.0

	// DefaultBurst allows a short run of lookups while typing.
	DefaultBurst = 3
)

// Config holds configuration for the OLS client.
type Config struct {
	// BaseURL is the OLS root, e.g. "https://www.ebi.ac.uk/ols".
	BaseURL string

	// Ontology restricts results (default: uberon).
	Ontology string

	// Timeout for requests (default: 15s).
	Timeout time.Duration

	// Rate and Burst throttle outgoing requests.
	Rate  float64
	Burst int
}

// OLSClient searches an ontology through the OLS search API.
type OLSClient struct {
	baseURL  string
	ontology string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewOLSClient creates a new OLS client.
func NewOLSClient(cfg Config) *OLSClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultOntologyBaseURL
	}
	if cfg.Ontology == "" {
		cfg.Ontology = DefaultOntology
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &OLSClient{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		ontology: cfg.Ontology,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
	}
}

// searchResponse is the subset of the OLS search payload we read.
type searchResponse struct {
	Response struct {
		Docs []struct {
			Label *string `json:"label"`
			OBOID *string `json:"obo_id"`
		} `json:"docs"`
	} `json:"response"`
}

// Search returns up to rows terms matching query. Documents missing a label
// or an OBO identifier are dropped.
func (c *OLSClient) Search(ctx context.Context, query string, rows int) ([]domain.AnatomyTerm, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("ontology", c.ontology)
	params.Set("rows", strconv.Itoa(rows))
	endpoint := c.baseURL + "/api/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ontology address: %w", domain.ErrConfiguration, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &domain.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding ontology response: %w", domain.ErrTransport, err)
	}

	terms := make([]domain.AnatomyTerm, 0, len(result.Response.Docs))
	for _, doc := range result.Response.Docs {
		if doc.Label == nil || doc.OBOID == nil || *doc.Label == "" || *doc.OBOID == "" {
			continue
		}
		terms = append(terms, domain.AnatomyTerm{Label: *doc.Label, OBOID: *doc.OBOID})
	}
	return terms, nil
}
