package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moireceipt/moiprint/internal/printer"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Bluetooth printers",
	Long: `Scan for thermal printers advertising the ESC/POS service or a known
printer name prefix, and list their address, name and signal strength.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanAll bool

func init() {
	scanCmd.Flags().BoolVarP(&scanAll, "all", "a", false, "Keep scanning for the full timeout instead of stopping at the first printer")
}

func runScan(cmd *cobra.Command, _ []string) error {
	opts, err := serviceOptions(cfg)
	if err != nil {
		return err
	}
	if scanAll {
		opts.FirstMatch = false
	}
	svc := printer.NewService(newAdapter(cfg), opts)

	devices, err := svc.ScanForPrinters(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%s Found %d printer(s)\n", color.GreenString("Printer Found!"), len(devices))
	writeDevices(os.Stdout, devices)
	return nil
}

func writeDevices(out io.Writer, devices []printer.Device) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tNAME\tRSSI")
	for _, d := range devices {
		rssi := "-"
		if d.RSSI != 0 {
			rssi = fmt.Sprintf("%d", d.RSSI)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Name, rssi)
	}
	w.Flush()
}
