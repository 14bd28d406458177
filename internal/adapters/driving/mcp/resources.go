package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for scanprep resources.
	uriScheme = "scanprep://"

	// historyLimit bounds the jobs returned by history resources.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent pipeline jobs, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{kind}",
		Name:        "history-by-kind",
		Description: "Recent jobs of one pipeline stage (scale, rename, pack, ...)",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "artifact",
		Name:        "last-artifact",
		Description: "Path of the most recently produced mesh",
		MIMEType:    "text/plain",
	}, s.handleArtifactResource)
}

// jobInfo is the JSON shape of a history entry.
type jobInfo struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Target     string `json:"target"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// handleHistoryResource returns recent jobs, optionally filtered by kind.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	kind, ok := extractKind(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	infos := []jobInfo{}
	if s.ports.History != nil {
		jobs, err := s.ports.History.List(ctx, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("listing jobs: %w", err)
		}
		for _, j := range jobs {
			if kind != "" && string(j.Kind) != kind {
				continue
			}
			infos = append(infos, toJobInfo(j))
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling jobs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleArtifactResource returns the last artifact path.
func (s *Server) handleArtifactResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Pipeline == nil || s.ports.Pipeline.LastArtifact() == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     s.ports.Pipeline.LastArtifact(),
		}},
	}, nil
}

func toJobInfo(j domain.JobRecord) jobInfo {
	info := jobInfo{
		ID:        j.ID,
		Kind:      string(j.Kind),
		Target:    j.Target,
		Status:    string(j.Status),
		Detail:    j.Detail,
		StartedAt: j.StartedAt.Format(time.RFC3339),
	}
	if !j.FinishedAt.IsZero() {
		info.FinishedAt = j.FinishedAt.Format(time.RFC3339)
	}
	return info
}

// extractKind parses scanprep://history or scanprep://history/{kind}.
// The kind is empty for the unfiltered resource.
func extractKind(uri string) (string, bool) {
	const base = uriScheme + "history"

	if uri == base {
		return "", true
	}
	kind, ok := strings.CutPrefix(uri, base+"/")
	if !ok || kind == "" || strings.Contains(kind, "/") {
		return "", false
	}
	return kind, true
}
