//go:build !linux && !darwin

package ble

import goble "github.com/go-ble/ble"

func newDevice() (goble.Device, error) {
	return nil, ErrUnsupported
}
