package ble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"
)

// SerialPortServiceUUID is the classic Bluetooth Serial Port Profile UUID.
// RFCOMM links expose it as their only service and characteristic.
var SerialPortServiceUUID = MustParseUUID("1101")

// SerialPort describes an RFCOMM-bound serial device such as /dev/rfcomm0.
type SerialPort struct {
	Path     string
	Name     string
	BaudRate int
}

// SerialAdapter implements Adapter for classic Bluetooth printers that are
// already bound to a serial device node.
type SerialAdapter struct {
	ports     []SerialPort
	listPorts func() ([]string, error)
	open      func(path string, mode *serial.Mode) (io.WriteCloser, error)
}

// NewSerialAdapter creates an adapter that advertises the given ports when
// they are present on the host.
func NewSerialAdapter(ports []SerialPort) *SerialAdapter {
	return &SerialAdapter{
		ports:     ports,
		listPorts: serial.GetPortsList,
		open: func(path string, mode *serial.Mode) (io.WriteCloser, error) {
			return serial.Open(path, mode)
		},
	}
}

func (a *SerialAdapter) Enable() error {
	if len(a.ports) == 0 {
		return fmt.Errorf("%w: no serial ports configured", ErrUnsupported)
	}
	return nil
}

// Scan reports every configured port that currently exists, in
// configuration order.
func (a *SerialAdapter) Scan(ctx context.Context, found func(Advertisement) bool) error {
	present, err := a.listPorts()
	if err != nil {
		return fmt.Errorf("ble: list serial ports: %w", err)
	}
	exists := make(map[string]bool, len(present))
	for _, p := range present {
		exists[p] = true
	}

	for _, p := range a.ports {
		if ctx.Err() != nil {
			return nil
		}
		if !exists[p.Path] {
			slog.Debug("[SERIAL] configured port not present", "path", p.Path)
			continue
		}
		adv := Advertisement{
			Address:  p.Path,
			Name:     p.Name,
			Services: []UUID{SerialPortServiceUUID},
		}
		if !found(adv) {
			return nil
		}
	}
	return nil
}

func (a *SerialAdapter) Connect(ctx context.Context, address string) (Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ble: connect to %s: %w", address, err)
	}

	baud := 9600
	for _, p := range a.ports {
		if p.Path == address && p.BaudRate > 0 {
			baud = p.BaudRate
		}
	}

	port, err := a.open(address, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("ble: open %s: %w", address, err)
	}

	link := &serialLink{port: port}
	link.connected.Store(true)
	slog.Info("[SERIAL] connected", "path", address, "baud", baud)
	return link, nil
}

// Compile-time check that SerialAdapter implements Adapter.
var _ Adapter = (*SerialAdapter)(nil)

type serialLink struct {
	mu        sync.Mutex
	port      io.WriteCloser
	connected atomic.Bool
}

func (l *serialLink) Service(_ context.Context, uuid UUID) (Service, error) {
	if uuid != SerialPortServiceUUID {
		return nil, fmt.Errorf("ble: service %s: %w", uuid, ErrNotFound)
	}
	return serialService{link: l}, nil
}

func (l *serialLink) Services(_ context.Context) ([]Service, error) {
	return []Service{serialService{link: l}}, nil
}

func (l *serialLink) Connected() bool { return l.connected.Load() }

func (l *serialLink) Disconnect() error {
	if !l.connected.Swap(false) {
		return nil
	}
	return l.port.Close()
}

// OnDisconnect is a no-op: a serial port gives no drop notification, the
// next write fails instead.
func (l *serialLink) OnDisconnect(func()) {}

type serialService struct {
	link *serialLink
}

func (s serialService) UUID() UUID { return SerialPortServiceUUID }

func (s serialService) Characteristics(_ context.Context) ([]Characteristic, error) {
	return []Characteristic{serialCharacteristic{link: s.link}}, nil
}

type serialCharacteristic struct {
	link *serialLink
}

func (c serialCharacteristic) UUID() UUID { return SerialPortServiceUUID }

func (c serialCharacteristic) Properties() Property { return PropWriteWithoutResponse }

func (c serialCharacteristic) Write(data []byte, _ bool) error {
	c.link.mu.Lock()
	defer c.link.mu.Unlock()
	if !c.link.connected.Load() {
		return errors.New("ble: serial port closed")
	}
	for len(data) > 0 {
		n, err := c.link.port.Write(data)
		if err != nil {
			return fmt.Errorf("ble: serial write: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("ble: serial write: %w", io.ErrShortWrite)
		}
		data = data[n:]
	}
	return nil
}
