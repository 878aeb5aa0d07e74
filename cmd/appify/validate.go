package main

import (
	"errors"
	"fmt"

	"github.com/mark3labs/appify/internal/appconfig"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <url>",
	Short: "Check whether a website URL is accepted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appconfig.ValidateURL(args[0]) {
			return errors.New("Please enter a valid website URL")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "valid: %s\n", args[0])
		return nil
	},
}
