package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/mark3labs/mailman/internal/store"
	"github.com/mark3labs/mcp-go/server"
)

// Templates is the part of the template store the tools use.
type Templates interface {
	Collection() *store.Collection
	Get(id string) (*mergetemplate.Template, error)
	Delete(ctx context.Context, id string) error
	SetRepeating(ctx context.Context, id string, repeating bool) error
}

// RunRecorder records merge runs and forgets them when a template goes.
type RunRecorder interface {
	metadata.Service
	RecordRun(ctx context.Context, templateID string) (metadata.Info, error)
	Delete(ctx context.Context, templateID string) error
}

// Server exposes the template store as MCP tools over streamable HTTP.
type Server struct {
	templates Templates
	runs      RunRecorder
	mcpServer *server.MCPServer
	stdServer *http.Server
	port      int
	mu        sync.Mutex
}

// New creates a server. It is not listening until Start is called.
func New(templates Templates, runs RunRecorder) *Server {
	s := &Server{templates: templates, runs: runs}
	s.mcpServer = server.NewMCPServer(
		"mailman",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start listens on 127.0.0.1:port (0 picks a free port) and serves /mcp
// in the background. It returns the bound port.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, errors.New("server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	s.stdServer = &http.Server{Handler: mux}

	srv := s.stdServer
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", s.url())
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url()
}

func (s *Server) url() string {
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
