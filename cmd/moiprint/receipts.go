package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moireceipt/moiprint/internal/receipt"
)

// receiptsCmd represents the receipts command
var receiptsCmd = &cobra.Command{
	Use:   "receipts <batch.yaml>",
	Short: "Print a batch of MOI receipts and the function summary",
	Long: `Print one MOI receipt per contribution in the batch file, then the
function summary. Each job finishes before the next starts; the batch stops
at the first failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runReceipts,
}

var receiptsAddress string

func init() {
	receiptsCmd.Flags().StringVar(&receiptsAddress, "address", "", "Printer address or serial device; skips scanning")
}

func runReceipts(cmd *cobra.Command, args []string) error {
	batch, err := receipt.LoadBatch(args[0])
	if err != nil {
		return err
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := connectPrinter(cmd.Context(), svc, receiptsAddress); err != nil {
		return err
	}
	defer disconnectPrinter(os.Stdout, svc)

	if err := receipt.PrintBatch(svc, batch, time.Now()); err != nil {
		return err
	}
	fmt.Printf("%s %d receipt(s) and summary\n", color.GreenString("Summary Printed!"), len(batch.Contributions))
	return nil
}
