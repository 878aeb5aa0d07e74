package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mark3labs/appify/internal/published"
	"github.com/mark3labs/appify/internal/qr"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <app-id>",
	Short: "Show the published page of a generated app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app, err := published.Lookup(args[0], cfg.AppBaseURL, qr.NewHTTPService(cfg.QRServiceURL, cfg.QRSize))
		if err != nil {
			return err
		}
		width, _, err := term.GetSize(os.Stdout.Fd())
		if err != nil {
			width = 80
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.Render(width))
		return nil
	},
}
