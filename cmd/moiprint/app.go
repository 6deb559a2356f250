package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moireceipt/moiprint/internal/ble"
	"github.com/moireceipt/moiprint/internal/config"
	"github.com/moireceipt/moiprint/internal/printer"
)

// cfg is loaded once by setup before any subcommand runs.
var cfg *config.Config

func setup(cmd *cobra.Command, _ []string) error {
	if cmd == initCmd {
		return nil
	}

	loaded, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	cfg = loaded

	setupLogging(cfg.LogLevel)
	cmd.SilenceUsage = true
	return nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		loaded, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return loaded, nil
	}

	return config.Default(), nil
}

func setupLogging(level string) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(level)})
	slog.SetDefault(slog.New(handler))
}

// newAdapter returns the transport selected by the backend setting.
func newAdapter(c *config.Config) ble.Adapter {
	if c.Backend == "serial" {
		ports := make([]ble.SerialPort, len(c.Serial.Ports))
		for i, p := range c.Serial.Ports {
			ports[i] = ble.SerialPort{Path: p.Path, Name: p.Name, BaudRate: p.BaudRate}
		}
		return ble.NewSerialAdapter(ports)
	}
	return ble.NewGoBLEAdapter()
}

// serviceOptions maps the config onto printer.Options.
func serviceOptions(c *config.Config) (printer.Options, error) {
	opts := printer.DefaultOptions()
	opts.ScanTimeout = c.Scan.Timeout
	opts.FirstMatch = c.Scan.FirstMatch
	opts.ConnectTimeout = c.Connect.Timeout
	opts.Serialize = c.Print.Serialize
	opts.RetryMaxBackoff = c.Connect.RetryMaxBackoff

	opts.Filter = printer.Filter{NamePrefixes: c.Scan.NamePrefixes}
	if c.Scan.ServiceUUID != "" {
		uuid, err := ble.ParseUUID(c.Scan.ServiceUUID)
		if err != nil {
			return printer.Options{}, fmt.Errorf("scan.service_uuid: %w", err)
		}
		opts.Filter.Service = uuid
	}
	if c.Backend == "serial" {
		// RFCOMM ports advertise SPP; their names are operator-chosen.
		opts.Filter = printer.Filter{Service: ble.SerialPortServiceUUID}
	}
	return opts, nil
}

func newService(c *config.Config) (*printer.Service, error) {
	opts, err := serviceOptions(c)
	if err != nil {
		return nil, err
	}
	return printer.NewService(newAdapter(c), opts), nil
}

// connectPrinter connects to address, or to the first printer found when
// address is empty.
func connectPrinter(ctx context.Context, svc *printer.Service, address string) error {
	dev := printer.NewDevice(address, address)
	if address == "" {
		devices, err := svc.ScanForPrinters(ctx)
		if err != nil {
			return err
		}
		dev = devices[0]
	}

	if _, err := svc.ConnectWithRetry(ctx, dev, cfg.Connect.Retries); err != nil {
		return err
	}
	fmt.Printf("%s Connected to %s\n", color.GreenString("Printer Connected!"), svc.ConnectedDeviceName())
	return nil
}

// disconnectPrinter always clears the connection slot, including one whose
// link dropped unnoticed, and reports only when a live link was closed.
func disconnectPrinter(out io.Writer, svc *printer.Service) {
	connected := svc.IsConnected()
	name := svc.ConnectedDeviceName()
	svc.Disconnect()
	if connected {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("Printer Disconnected:"), name)
	}
}
