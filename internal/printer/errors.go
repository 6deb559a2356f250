package printer

import "errors"

// Failure kinds. Errors returned by Service wrap exactly one of these, plus
// the underlying cause when there is one, so callers can test the kind with
// errors.Is and still unwrap to the platform error.
var (
	// ErrCapabilityUnavailable means the host has no Bluetooth support.
	ErrCapabilityUnavailable = errors.New("printer: bluetooth not available")
	// ErrNoDeviceFound means the scan matched nothing or was cancelled.
	ErrNoDeviceFound = errors.New("printer: no printer found")
	// ErrDiscoveryFailed wraps an unexpected platform error during scanning.
	ErrDiscoveryFailed = errors.New("printer: discovery failed")
	// ErrLinkFailed means the GATT link could not be established.
	ErrLinkFailed = errors.New("printer: link failed")
	// ErrNoWritableChannel means neither resolution path found a writable
	// characteristic. The printer is incompatible.
	ErrNoWritableChannel = errors.New("printer: no writable characteristic")
	// ErrNotConnected means a print was attempted without an active channel.
	ErrNotConnected = errors.New("printer: not connected")
	// ErrWriteFailed wraps a transport failure during a print write.
	ErrWriteFailed = errors.New("printer: write failed")
)
