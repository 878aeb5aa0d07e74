package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/mark3labs/appify/internal/generate"
	"github.com/mark3labs/appify/internal/icon"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/mark3labs/appify/internal/session"
	"github.com/spf13/cobra"
)

var buildFlags struct {
	url      string
	name     string
	color    string
	icon     string
	offline  bool
	manifest bool
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run a simulated build without the wizard",
	Long: `Run a simulated Android build for a website and print the result.

Progress is printed as the build advances. On completion the app id, the
published URL and the QR code image URL are printed.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildFlags.url, "url", "u", "", "Website URL (required)")
	buildCmd.Flags().StringVarP(&buildFlags.name, "name", "n", "", "App name (default: My Android App)")
	buildCmd.Flags().StringVarP(&buildFlags.color, "color", "c", "", "Primary color as #rgb or #rrggbb")
	buildCmd.Flags().StringVarP(&buildFlags.icon, "icon", "i", "", "Icon URL, image path or preset-1..preset-6")
	buildCmd.Flags().BoolVar(&buildFlags.offline, "offline-support", false, "Enable offline support in the app")
	buildCmd.Flags().BoolVar(&buildFlags.manifest, "manifest", false, "Print the configuration manifest")
	_ = buildCmd.MarkFlagRequired("url")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	size, err := appconfig.ParseScreenSize(cfg.ScreenSize)
	if err != nil {
		return err
	}
	app := appconfig.New(size)
	app.SetTargetURL(strings.TrimSpace(buildFlags.url))
	app.AppName = buildFlags.name
	if buildFlags.color != "" {
		if err := app.SetPrimaryColor(buildFlags.color); err != nil {
			return err
		}
	}
	if buildFlags.icon != "" {
		ref, err := icon.Resolve(buildFlags.icon)
		if err != nil {
			return err
		}
		app.IconRef = ref
	}
	app.Features.OfflineSupport = buildFlags.offline

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	sess := session.New(*app, generate.NewSimulator(generate.NewRandomSource(cfg.MaxIncrement)), session.LogNotifier)
	fmt.Fprintf(out, "Generating %s from %s\n", app.DisplayName(), app.TargetURL)

	id, err := sess.Run(ctx, cfg.TickInterval, func(r generate.TickResult) {
		fmt.Fprintf(out, "  %3.0f%%\n", r.Progress)
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	appURL := qr.PublishedURL(cfg.AppBaseURL, id)
	svc := qr.NewHTTPService(cfg.QRServiceURL, cfg.QRSize)
	fmt.Fprintln(out, "\nYour Android app has been generated.")
	fmt.Fprintf(out, "  App ID:  %s\n", id)
	fmt.Fprintf(out, "  Package: %s\n", sess.Config().PackageID(cfg.PackagePrefix))
	fmt.Fprintf(out, "  App URL: %s\n", appURL)
	fmt.Fprintf(out, "  QR Code: %s\n", svc.ImageURL(appURL))

	if buildFlags.manifest {
		manifest, err := sess.Config().Manifest()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s", manifest)
	}
	return nil
}
