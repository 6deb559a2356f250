package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moireceipt/moiprint/internal/config"
)

// initCmd writes the default config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Printf("Config already exists at %s\n", config.DefaultConfigPath())
			return nil
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}
