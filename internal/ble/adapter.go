// Package ble is the platform boundary for talking to Bluetooth printers. It
// abstracts scanning, GATT link establishment, service/characteristic
// enumeration and characteristic writes so the printer service can run on
// top of go-ble, an RFCOMM serial port, or a test mock.
package ble

import (
	"context"
	"errors"

	"tinygo.org/x/bluetooth"
)

// ErrUnsupported is returned by Adapter.Enable when the host has no usable
// Bluetooth stack.
var ErrUnsupported = errors.New("ble: bluetooth not supported on this host")

// ErrNotFound is returned by Link.Service when the requested service is absent.
var ErrNotFound = errors.New("ble: not found")

// UUID identifies a GATT service or characteristic.
type UUID = bluetooth.UUID

// Property is the GATT characteristic property bit field.
type Property uint8

// Bit values as defined by the Bluetooth Core spec (Vol 3, Part G, 3.3.1.1).
const (
	PropBroadcast            Property = 0x01
	PropRead                 Property = 0x02
	PropWriteWithoutResponse Property = 0x04
	PropWrite                Property = 0x08
	PropNotify               Property = 0x10
	PropIndicate             Property = 0x20
)

// CanWrite reports whether either write mode is supported.
func (p Property) CanWrite() bool {
	return p&(PropWrite|PropWriteWithoutResponse) != 0
}

// Advertisement is a single scan result.
type Advertisement struct {
	Address  string
	Name     string
	Services []UUID
	RSSI     int
}

// HasService reports whether the advertisement lists uuid.
func (a Advertisement) HasService(uuid UUID) bool {
	for _, s := range a.Services {
		if s == uuid {
			return true
		}
	}
	return false
}

// Characteristic is a writable GATT endpoint.
type Characteristic interface {
	UUID() UUID
	Properties() Property
	// Write sends data as a single logical write. noResponse selects
	// write-without-response.
	Write(data []byte, noResponse bool) error
}

// Service is a primary GATT service.
type Service interface {
	UUID() UUID
	// Characteristics returns the service characteristics in enumeration order.
	Characteristics(ctx context.Context) ([]Characteristic, error)
}

// Link is an open connection to a peripheral.
type Link interface {
	// Service returns the primary service with the given UUID or ErrNotFound.
	Service(ctx context.Context, uuid UUID) (Service, error)
	// Services returns all primary services in enumeration order.
	Services(ctx context.Context) ([]Service, error)
	// Connected reports whether the platform still considers the link up.
	Connected() bool
	// Disconnect terminates the link.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the link drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the Bluetooth hardware adapter.
type Adapter interface {
	// Enable powers on the adapter. Returns ErrUnsupported when there is none.
	Enable() error
	// Scan reports advertisements to found until ctx is done or found
	// returns false.
	Scan(ctx context.Context, found func(Advertisement) bool) error
	// Connect opens a link to the peripheral at address.
	Connect(ctx context.Context, address string) (Link, error)
}
