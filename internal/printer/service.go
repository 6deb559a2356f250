// Package printer drives Bluetooth ESC/POS thermal printers: it discovers
// candidates, negotiates a writable GATT characteristic, frames text as
// print jobs and tracks the single active connection.
package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/moireceipt/moiprint/internal/ble"
	"github.com/moireceipt/moiprint/internal/escpos"
)

// Options configures a Service.
type Options struct {
	Filter          Filter
	ScanTimeout     time.Duration
	FirstMatch      bool // stop scanning at the first matching printer
	ConnectTimeout  time.Duration
	Serialize       bool // serialize overlapping print writes
	RetryMaxBackoff int  // seconds, used by ConnectWithRetry
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Filter:          DefaultFilter(),
		ScanTimeout:     defaultScanTime,
		FirstMatch:      true,
		ConnectTimeout:  15 * time.Second,
		Serialize:       true,
		RetryMaxBackoff: 8,
	}
}

// Service owns the one active printer connection. The zero connection slot
// means disconnected. Safe for concurrent use.
type Service struct {
	adapter ble.Adapter
	opts    Options
	after   func(time.Duration) <-chan time.Time

	mu   sync.Mutex
	conn *connection

	writeMu sync.Mutex
}

type connection struct {
	device  Device
	link    ble.Link
	channel *Channel
}

// Channel is the negotiated write endpoint of one connection. Print on a
// Channel whose connection has since been torn down fails with
// ErrNotConnected.
type Channel struct {
	svc        *Service
	char       ble.Characteristic
	resolution Resolution
	noResponse bool
}

// Resolution reports how the channel was negotiated.
func (c *Channel) Resolution() Resolution { return c.resolution }

// Print frames text as a receipt and writes it to this channel.
func (c *Channel) Print(text string) error { return c.svc.print(c, text) }

// NewService creates a printer service on top of adapter. A nil adapter
// yields a service whose every operation reports ErrCapabilityUnavailable.
func NewService(adapter ble.Adapter, opts Options) *Service {
	if opts.Filter.Service == (ble.UUID{}) && len(opts.Filter.NamePrefixes) == 0 {
		opts.Filter = DefaultFilter()
	}
	if opts.ScanTimeout <= 0 {
		opts.ScanTimeout = defaultScanTime
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}
	if opts.RetryMaxBackoff <= 0 {
		opts.RetryMaxBackoff = 8
	}
	return &Service{
		adapter: adapter,
		opts:    opts,
		after:   time.After,
	}
}

// Connect opens a link to dev, negotiates the write channel and makes it
// the active connection. Any previous connection is disconnected first.
func (s *Service) Connect(ctx context.Context, dev Device) (*Channel, error) {
	if dev.address == "" {
		return nil, fmt.Errorf("%w: invalid printer device", ErrLinkFailed)
	}
	if s.adapter == nil {
		return nil, ErrCapabilityUnavailable
	}

	if s.IsConnected() {
		slog.Info("[PRINTER] replacing active connection", "previous", s.ConnectedDeviceName(), "next", dev.Name)
	}
	s.Disconnect()

	if err := s.adapter.Enable(); err != nil {
		if errors.Is(err, ble.ErrUnsupported) {
			return nil, fmt.Errorf("%w: %w", ErrCapabilityUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrLinkFailed, err)
	}

	connCtx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()

	link, err := s.adapter.Connect(connCtx, dev.address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLinkFailed, err)
	}

	char, res, err := resolveChannel(connCtx, link)
	if err != nil {
		if derr := link.Disconnect(); derr != nil {
			slog.Warn("[PRINTER] release link after failed negotiation", "error", derr)
		}
		return nil, err
	}

	ch := &Channel{
		svc:        s,
		char:       char,
		resolution: res,
		noResponse: char.Properties()&ble.PropWrite == 0,
	}
	conn := &connection{device: dev, link: link, channel: ch}

	s.mu.Lock()
	prev := s.conn
	s.conn = conn
	s.mu.Unlock()
	if prev != nil {
		s.release(prev)
	}

	link.OnDisconnect(func() { s.dropped(conn) })

	slog.Info("[PRINTER] connected",
		"name", dev.Name,
		"resolution", res.Kind,
		"characteristic", res.Characteristic.String(),
		"write_without_response", ch.noResponse,
	)
	return ch, nil
}

// dropped clears the slot if conn is still the active connection.
func (s *Service) dropped(conn *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn {
		s.conn = nil
		slog.Warn("[PRINTER] link dropped", "name", conn.device.Name)
	}
}

// PrintText prints text on the active connection.
func (s *Service) PrintText(text string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return s.print(conn.channel, text)
}

func (s *Service) print(ch *Channel, text string) error {
	s.mu.Lock()
	conn := s.conn
	if conn == nil || conn.channel != ch {
		s.mu.Unlock()
		return ErrNotConnected
	}
	if !conn.link.Connected() {
		s.conn = nil
		s.mu.Unlock()
		slog.Warn("[PRINTER] link dropped before print", "name", conn.device.Name)
		return ErrNotConnected
	}
	s.mu.Unlock()

	payload := escpos.Receipt(text)

	if s.opts.Serialize {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}
	if err := ch.char.Write(payload, ch.noResponse); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	slog.Debug("[PRINTER] job written", "bytes", len(payload))
	return nil
}

// Disconnect tears down the active connection. Local state is always
// cleared, even when the platform disconnect fails.
func (s *Service) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		s.release(conn)
	}
}

func (s *Service) release(conn *connection) {
	if conn.link.Connected() {
		if err := conn.link.Disconnect(); err != nil {
			slog.Warn("[PRINTER] disconnect failed, state cleared anyway", "name", conn.device.Name, "error", err)
			return
		}
	}
	slog.Info("[PRINTER] disconnected", "name", conn.device.Name)
}

// IsConnected reports whether a channel is held and its link is up.
func (s *Service) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.link.Connected()
}

// ConnectedDeviceName returns the active printer's name, or UnknownDevice.
func (s *Service) ConnectedDeviceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return UnknownDevice
	}
	return s.conn.device.Name
}
