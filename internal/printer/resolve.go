package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moireceipt/moiprint/internal/ble"
)

// ResolutionKind tells which path produced the write characteristic.
type ResolutionKind int

const (
	// Canonical means the ESC/POS service and write characteristic were found
	// by UUID.
	Canonical ResolutionKind = iota + 1
	// Discovered means the first writable characteristic found by scanning
	// every service was used.
	Discovered
)

func (k ResolutionKind) String() string {
	switch k {
	case Canonical:
		return "canonical"
	case Discovered:
		return "discovered"
	default:
		return fmt.Sprintf("ResolutionKind(%d)", int(k))
	}
}

// Resolution records how the write channel was negotiated.
type Resolution struct {
	Kind           ResolutionKind
	Service        ble.UUID
	Characteristic ble.UUID
}

var errCharacteristicMissing = errors.New("printer: characteristic missing")

// resolveCanonical looks up the ESC/POS service and its write characteristic
// by UUID.
func resolveCanonical(ctx context.Context, link ble.Link) (ble.Characteristic, Resolution, error) {
	svc, err := link.Service(ctx, escposService)
	if err != nil {
		return nil, Resolution{}, err
	}
	chars, err := svc.Characteristics(ctx)
	if err != nil {
		return nil, Resolution{}, err
	}
	for _, c := range chars {
		if c.UUID() == escposWriteChar {
			return c, Resolution{Kind: Canonical, Service: svc.UUID(), Characteristic: c.UUID()}, nil
		}
	}
	return nil, Resolution{}, fmt.Errorf("%w: %s", errCharacteristicMissing, escposWriteChar)
}

// discoverWritable returns the first characteristic supporting either write
// mode, in service order then characteristic order.
func discoverWritable(ctx context.Context, link ble.Link) (ble.Characteristic, Resolution, error) {
	services, err := link.Services(ctx)
	if err != nil {
		return nil, Resolution{}, err
	}
	for _, svc := range services {
		chars, err := svc.Characteristics(ctx)
		if err != nil {
			return nil, Resolution{}, err
		}
		for _, c := range chars {
			if c.Properties().CanWrite() {
				return c, Resolution{Kind: Discovered, Service: svc.UUID(), Characteristic: c.UUID()}, nil
			}
		}
	}
	return nil, Resolution{}, ErrNoWritableChannel
}

// resolveChannel tries the canonical path first and falls back to scanning
// for any writable characteristic.
func resolveChannel(ctx context.Context, link ble.Link) (ble.Characteristic, Resolution, error) {
	char, res, err := resolveCanonical(ctx, link)
	if err == nil {
		return char, res, nil
	}
	slog.Debug("[PRINTER] canonical service unavailable, scanning for writable characteristic", "reason", err)

	char, res, err = discoverWritable(ctx, link)
	if err != nil {
		if errors.Is(err, ErrNoWritableChannel) {
			return nil, Resolution{}, err
		}
		return nil, Resolution{}, fmt.Errorf("%w: %w", ErrNoWritableChannel, err)
	}
	return char, res, nil
}
