package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moiprint",
	Short: "Print MOI receipts on Bluetooth thermal printers",
	Long: `moiprint drives 58mm ESC/POS thermal printers over Bluetooth LE or an
RFCOMM serial port:

- Scan for nearby printers
- Print plain text as a receipt job
- Print a batch of MOI receipts followed by the function summary`,
	Version:           version,
	PersistentPreRunE: setup,
}

var (
	configPath string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Ctrl+C is a normal exit, not an error
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("ERROR:"), FormatUserError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	// main() prints clean errors
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(receiptsCmd)
	rootCmd.AddCommand(initCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ~/.config/moiprint/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}
