package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print [file|-]",
	Short: "Print text as a receipt",
	Long: `Print the contents of a file, or standard input when the argument is
"-" or omitted, as one receipt job: centred, fed and partially cut.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

var printAddress string

func init() {
	printCmd.Flags().StringVar(&printAddress, "address", "", "Printer address or serial device; skips scanning")
}

func runPrint(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := connectPrinter(cmd.Context(), svc, printAddress); err != nil {
		return err
	}
	defer disconnectPrinter(os.Stdout, svc)

	if err := svc.PrintText(text); err != nil {
		return err
	}
	fmt.Println(color.GreenString("Receipt Printed!"))
	return nil
}

// readInput returns the named file's contents, or stdin for "-" or no
// argument.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}
