package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scanprep/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server exposes the scan preparation pipeline to MCP clients.
//
// scale_mesh is always available. rename_models, build_structure,
// generate_terms, write_readme and pack_files are registered when their
// port is set. Job history is readable as scanprep://history and
// scanprep://history/{kind}; the most recent mesh as scanprep://artifact.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "scanprep",
		Version: Version,
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client which pipeline stages this server offers,
// in pipeline order.
func instructions(ports *Ports) string {
	stages := []string{"scale_mesh"}
	if ports.Renamer != nil {
		stages = append(stages, "rename_models")
	}
	if ports.Structure != nil {
		stages = append(stages, "build_structure", "generate_terms")
	}
	if ports.Metadata != nil {
		stages = append(stages, "write_readme")
	}
	if ports.Packager != nil {
		stages = append(stages, "pack_files")
	}

	var b strings.Builder
	b.WriteString("Prepares photogrammetry scans for publication. Tools: ")
	b.WriteString(strings.Join(stages, ", "))
	b.WriteString(". Mesh paths are local; scale_mesh without a path uses scanprep://artifact.")
	if ports.History != nil {
		b.WriteString(" Past runs are listed at scanprep://history.")
	}
	return b.String()
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp http shutdown: %v", err)
		}
	}()

	logger.Debug("mcp http listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
