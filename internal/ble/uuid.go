package ble

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"tinygo.org/x/bluetooth"
)

// ParseUUID parses a 16-bit ("18f0") or 128-bit
// ("000018f0-0000-1000-8000-00805f9b34fb") UUID string.
func ParseUUID(s string) (UUID, error) {
	if len(s) == 4 {
		v, err := strconv.ParseUint(s, 16, 16)
		if err != nil {
			return UUID{}, fmt.Errorf("ble: parse uuid %q: %w", s, err)
		}
		return bluetooth.New16BitUUID(uint16(v)), nil
	}
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		return UUID{}, fmt.Errorf("ble: parse uuid %q: %w", s, err)
	}
	return u, nil
}

// MustParseUUID is ParseUUID for package-level constants.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// uuidFromLE converts a little-endian wire UUID (2, 4 or 16 bytes) as used by
// go-ble into the canonical 128-bit form.
func uuidFromLE(b []byte) (UUID, error) {
	switch len(b) {
	case 2:
		return bluetooth.New16BitUUID(binary.LittleEndian.Uint16(b)), nil
	case 4, 16:
		full := baseUUID
		if len(b) == 4 {
			binary.BigEndian.PutUint32(full[:4], binary.LittleEndian.Uint32(b))
		} else {
			for i := range full {
				full[i] = b[15-i]
			}
		}
		return bluetooth.NewUUID(full), nil
	default:
		return UUID{}, fmt.Errorf("ble: invalid uuid length %d", len(b))
	}
}

// baseUUID is the Bluetooth Base UUID 00000000-0000-1000-8000-00805f9b34fb.
var baseUUID = [16]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
}
