package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/appify/internal/mcpserver"
	"github.com/mark3labs/appify/internal/preview"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	port int
	host string
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve appify tools over MCP (streamable HTTP)",
	Long: `Start an MCP server exposing the validate_url, preview_app,
simulate_build and qr_url tools at http://<host>:<port>/mcp.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpFlags.port, "port", "p", 0, "Port to listen on (0 picks a free port)")
	mcpCmd.Flags().StringVar(&mcpFlags.host, "host", "127.0.0.1", "Interface to bind")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts []mcpserver.Option
	if rootFlags.offline {
		opts = append(opts, mcpserver.WithEmbedder(preview.StaticEmbedder{}))
	}
	srv := mcpserver.New(cfg, opts...)

	if _, err := srv.Start(cmd.Context(), fmt.Sprintf("%s:%d", mcpFlags.host, mcpFlags.port)); err != nil {
		return err
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening at %s\n", srv.URL())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")
	case <-cmd.Context().Done():
	}
	return nil
}
