package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the server is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := newAPIClient().health(cmd.Context())
		if err != nil {
			color.Red("server unreachable: %v", err)
			return err
		}

		color.Green("server is %s", health["status"])
		fmt.Printf("service: %s\n", health["service"])
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(healthCmd)
}
