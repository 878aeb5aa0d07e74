package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/appify/internal/config"
	"github.com/mark3labs/appify/internal/logger"
	"github.com/mark3labs/appify/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "▄▀█ █▀█ █▀█ █ █▀▀ █▄█"
	logoText2 = "█▀█ █▀▀ █▀▀ █ █▀   █ "
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	logLevel   string
	logFile    string
	screenSize string
	offline    bool
}

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appify",
	Short: "Turn any website into an Android app",
	Args:  cobra.NoArgs,
	RunE:  runWizard,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

appify walks you through wrapping a website as an Android app: enter the
site, brand it, pick features and run a simulated build that hands off a
QR code for testing on a device. A live device preview follows every change.

Run without arguments to start the interactive wizard.`

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	pf.StringVar(&rootFlags.logFile, "log-file", "", "Write logs to this file (default from config)")
	pf.StringVar(&rootFlags.screenSize, "screen-size", "", "Preview size: small, medium, large (default from config)")
	pf.BoolVar(&rootFlags.offline, "offline", false, "Do not fetch pages for the preview")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(mcpCmd)
}

// loadConfig loads layered configuration, applies the persistent flags on
// top and configures logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFile != "" {
		cfg.LogFile = rootFlags.logFile
	}
	if rootFlags.screenSize != "" {
		cfg.ScreenSize = rootFlags.screenSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Default.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}
