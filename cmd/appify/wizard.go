package main

import (
	"github.com/mark3labs/appify/internal/preview"
	"github.com/mark3labs/appify/internal/tui/wizard"
	"github.com/spf13/cobra"
)

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var embedder preview.Embedder = preview.NewHTTPEmbedder(cfg.PreviewTimeout)
	if rootFlags.offline {
		embedder = preview.StaticEmbedder{}
	}

	return wizard.Run(wizard.Options{
		Config:   cfg,
		Embedder: embedder,
	})
}
