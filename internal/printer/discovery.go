package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/moireceipt/moiprint/internal/ble"
)

// Canonical ESC/POS GATT identifiers.
const (
	ServiceUUID     = "000018f0-0000-1000-8000-00805f9b34fb"
	WriteCharUUID   = "00002af1-0000-1000-8000-00805f9b34fb"
	UnknownPrinter  = "Unknown Printer"
	UnknownDevice   = "Unknown Device"
	defaultScanTime = 10 * time.Second
)

var (
	escposService   = ble.MustParseUUID(ServiceUUID)
	escposWriteChar = ble.MustParseUUID(WriteCharUUID)
)

// DefaultNamePrefixes are advertised-name prefixes of common thermal printers.
var DefaultNamePrefixes = []string{"MTP", "BlueTooth Printer", "POS"}

// Device is a discovered printer candidate.
type Device struct {
	ID   string
	Name string
	RSSI int

	// address is the platform handle passed to Adapter.Connect.
	address string
}

// Filter decides which advertisements are printers.
type Filter struct {
	Service      ble.UUID
	NamePrefixes []string
}

// DefaultFilter accepts the ESC/POS service or any DefaultNamePrefixes name.
func DefaultFilter() Filter {
	return Filter{
		Service:      escposService,
		NamePrefixes: DefaultNamePrefixes,
	}
}

// Match reports whether adv advertises the filter service or has a name
// starting with one of the prefixes.
func (f Filter) Match(adv ble.Advertisement) bool {
	if adv.HasService(f.Service) {
		return true
	}
	for _, p := range f.NamePrefixes {
		if p != "" && strings.HasPrefix(adv.Name, p) {
			return true
		}
	}
	return false
}

// ScanForPrinters scans for matching printers and returns them in discovery
// order. With FirstMatch set the scan stops at the first match, like a
// device chooser.
func (s *Service) ScanForPrinters(ctx context.Context) ([]Device, error) {
	if s.adapter == nil {
		return nil, ErrCapabilityUnavailable
	}
	if err := s.adapter.Enable(); err != nil {
		if errors.Is(err, ble.ErrUnsupported) {
			return nil, fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	timeout := s.opts.ScanTimeout
	if timeout <= 0 {
		timeout = defaultScanTime
	}
	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Debug("[PRINTER] scanning", "timeout", timeout, "first_match", s.opts.FirstMatch)

	var devices []Device
	seen := make(map[string]bool)
	err := s.adapter.Scan(scanCtx, func(adv ble.Advertisement) bool {
		if seen[adv.Address] || !s.opts.Filter.Match(adv) {
			return true
		}
		seen[adv.Address] = true
		name := adv.Name
		if name == "" {
			name = UnknownPrinter
		}
		devices = append(devices, Device{
			ID:      adv.Address,
			Name:    name,
			RSSI:    adv.RSSI,
			address: adv.Address,
		})
		slog.Info("[PRINTER] found printer", "name", name, "id", adv.Address)
		return !s.opts.FirstMatch
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}
	if len(devices) == 0 {
		return nil, ErrNoDeviceFound
	}
	return devices, nil
}

// NewDevice builds a Device for a known address, skipping discovery.
func NewDevice(address, name string) Device {
	if name == "" {
		name = UnknownPrinter
	}
	return Device{ID: address, Name: name, address: address}
}
