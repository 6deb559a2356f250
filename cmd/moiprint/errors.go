package main

import (
	"errors"
	"fmt"

	"github.com/moireceipt/moiprint/internal/printer"
)

var userMessages = []struct {
	kind error
	msg  string
}{
	{printer.ErrCapabilityUnavailable, "Bluetooth Unavailable: this system has no usable Bluetooth adapter"},
	{printer.ErrNoDeviceFound, "No Printers Found: no Bluetooth printers were found"},
	{printer.ErrDiscoveryFailed, "Scan Failed: failed to scan for Bluetooth printers"},
	{printer.ErrNoWritableChannel, "Connection Failed: the printer exposes no writable characteristic"},
	{printer.ErrLinkFailed, "Connection Failed: failed to connect to printer"},
	{printer.ErrNotConnected, "Printer Not Connected: please connect a Bluetooth printer first"},
	{printer.ErrWriteFailed, "Print Failed: failed to print the receipt"},
}

// FormatUserError turns a printer failure kind into a one-line message,
// keeping the underlying error for diagnosis.
func FormatUserError(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.kind) {
			return fmt.Sprintf("%s (%v)", m.msg, err)
		}
	}
	return err.Error()
}
