package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/appify/internal/published"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/spf13/cobra"
)

var qrFlags struct {
	save string
}

var qrCmd = &cobra.Command{
	Use:   "qr <app-id>",
	Short: "Print or save the QR code of a generated app",
	Args:  cobra.ExactArgs(1),
	RunE:  runQR,
}

func init() {
	qrCmd.Flags().StringVarP(&qrFlags.save, "save", "s", "", "Save the QR image to this file (\"-\" for app-<id>-qrcode.png)")
	qrCmd.Flags().Lookup("save").NoOptDefVal = "-"
}

func runQR(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc := qr.NewHTTPService(cfg.QRServiceURL, cfg.QRSize)
	app, err := published.Lookup(args[0], cfg.AppBaseURL, svc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "App URL: %s\n", app.URL)
	fmt.Fprintf(out, "QR Code: %s\n", app.QRImageURL)

	if qrFlags.save == "" {
		return nil
	}
	path := qrFlags.save
	if path == "-" {
		path = qr.DefaultFilename(app.ID)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	if err := svc.Save(ctx, app.URL, path); err != nil {
		return fmt.Errorf("Download Failed: %w", err)
	}
	fmt.Fprintf(out, "QR code saved to %s\n", path)
	return nil
}
