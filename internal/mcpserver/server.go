// Package mcpserver exposes appify over the Model Context Protocol so agents
// can validate sites, preview them and run simulated builds.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/appify/internal/config"
	"github.com/mark3labs/appify/internal/generate"
	"github.com/mark3labs/appify/internal/logger"
	"github.com/mark3labs/appify/internal/preview"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/mark3labs/mcp-go/server"
)

var log = logger.Named("mcp")

// Server manages an MCP HTTP server exposing the appify tools.
type Server struct {
	cfg        *config.Config
	embedder   preview.Embedder
	qr         qr.Service
	newSource  func() generate.ProgressSource
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server // Standard HTTP server that uses the listener
	port       int
	mu         sync.Mutex
}

// Option customizes a Server.
type Option func(*Server)

// WithEmbedder sets the page embedder used by preview_app.
func WithEmbedder(e preview.Embedder) Option {
	return func(s *Server) { s.embedder = e }
}

// WithQRService sets the QR collaborator.
func WithQRService(svc qr.Service) Option {
	return func(s *Server) { s.qr = svc }
}

// WithSource sets the progress source factory used for each simulated build.
func WithSource(fn func() generate.ProgressSource) Option {
	return func(s *Server) { s.newSource = fn }
}

// New creates a server. It is not listening until Start is called.
func New(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.embedder == nil {
		s.embedder = preview.NewHTTPEmbedder(cfg.PreviewTimeout)
	}
	if s.qr == nil {
		s.qr = qr.NewHTTPService(cfg.QRServiceURL, cfg.QRSize)
	}
	if s.newSource == nil {
		s.newSource = func() generate.ProgressSource {
			return generate.NewRandomSource(cfg.MaxIncrement)
		}
	}
	s.mcpServer = server.NewMCPServer(
		"appify",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server, e.g. for stdio serving.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves the
// streamable HTTP transport at /mcp. It returns the bound port.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	// Bind first and hand the listener to Serve to avoid a TOCTOU race.
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	log.Debug("starting MCP server on port %d", s.port)

	// Capture stdServer for the goroutine to avoid racing with Stop.
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("MCP server error: %v", err)
		}
	}()

	log.Info("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	log.Debug("stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		log.Warn("error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	log.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
