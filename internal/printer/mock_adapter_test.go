package printer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/moireceipt/moiprint/internal/ble"
)

// mockCharacteristic records writes.
type mockCharacteristic struct {
	uuid  ble.UUID
	props ble.Property

	mu       sync.Mutex
	writes   [][]byte
	noRsp    []bool
	writeErr error
}

func (c *mockCharacteristic) UUID() ble.UUID           { return c.uuid }
func (c *mockCharacteristic) Properties() ble.Property { return c.props }

func (c *mockCharacteristic) Write(data []byte, noResponse bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.writes = append(c.writes, cp)
	c.noRsp = append(c.noRsp, noResponse)
	return nil
}

func (c *mockCharacteristic) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// mockService is a GATT service with a fixed characteristic list.
type mockService struct {
	uuid    ble.UUID
	chars   []*mockCharacteristic
	charErr error
}

func (s *mockService) UUID() ble.UUID { return s.uuid }

func (s *mockService) Characteristics(context.Context) ([]ble.Characteristic, error) {
	if s.charErr != nil {
		return nil, s.charErr
	}
	out := make([]ble.Characteristic, len(s.chars))
	for i, c := range s.chars {
		out[i] = c
	}
	return out, nil
}

// mockLink simulates a GATT link.
type mockLink struct {
	services []*mockService

	mu            sync.Mutex
	connected     bool
	disconnectErr error
	disconnects   int
	serviceCalls  int
	servicesCalls int
	disconnectCb  func()
}

func newMockLink(services ...*mockService) *mockLink {
	return &mockLink{services: services, connected: true}
}

func (l *mockLink) Service(_ context.Context, uuid ble.UUID) (ble.Service, error) {
	l.mu.Lock()
	l.serviceCalls++
	l.mu.Unlock()
	for _, s := range l.services {
		if s.uuid == uuid {
			return s, nil
		}
	}
	return nil, ble.ErrNotFound
}

func (l *mockLink) Services(context.Context) ([]ble.Service, error) {
	l.mu.Lock()
	l.servicesCalls++
	l.mu.Unlock()
	out := make([]ble.Service, len(l.services))
	for i, s := range l.services {
		out[i] = s
	}
	return out, nil
}

func (l *mockLink) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *mockLink) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnects++
	if l.disconnectErr != nil {
		return l.disconnectErr
	}
	l.connected = false
	return nil
}

func (l *mockLink) OnDisconnect(cb func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnectCb = cb
}

// SimulateDrop marks the link down and fires the disconnect callback.
func (l *mockLink) SimulateDrop() {
	l.mu.Lock()
	l.connected = false
	cb := l.disconnectCb
	l.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// mockAdapter simulates the Bluetooth adapter.
type mockAdapter struct {
	advertisements []ble.Advertisement
	enableErr      error
	scanErr        error
	connectErrs    []error // consumed one per Connect call

	mu           sync.Mutex
	links        map[string]*mockLink
	connectCalls int
	scanned      int
}

func newMockAdapter(advs ...ble.Advertisement) *mockAdapter {
	return &mockAdapter{advertisements: advs, links: make(map[string]*mockLink)}
}

func (a *mockAdapter) Enable() error { return a.enableErr }

func (a *mockAdapter) Scan(ctx context.Context, found func(ble.Advertisement) bool) error {
	if a.scanErr != nil {
		return a.scanErr
	}
	for _, adv := range a.advertisements {
		if ctx.Err() != nil {
			return nil
		}
		a.mu.Lock()
		a.scanned++
		a.mu.Unlock()
		if !found(adv) {
			return nil
		}
	}
	return nil
}

func (a *mockAdapter) Connect(_ context.Context, address string) (ble.Link, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connectCalls++
	if len(a.connectErrs) > 0 {
		err := a.connectErrs[0]
		a.connectErrs = a.connectErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	link, ok := a.links[address]
	if !ok {
		return nil, errors.New("mock: unknown address " + address)
	}
	link.mu.Lock()
	link.connected = true
	link.mu.Unlock()
	return link, nil
}

func (a *mockAdapter) addPrinter(address string, link *mockLink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.links[address] = link
}

func TestMockAdapterImplementsInterface(t *testing.T) {
	var _ ble.Adapter = (*mockAdapter)(nil)
	var _ ble.Link = (*mockLink)(nil)
	var _ ble.Service = (*mockService)(nil)
	var _ ble.Characteristic = (*mockCharacteristic)(nil)
}

// Fixtures.

var (
	escposSvcUUID  = ble.MustParseUUID(ServiceUUID)
	escposCharUUID = ble.MustParseUUID(WriteCharUUID)
	deviceInfoUUID = ble.MustParseUUID("180a")
	vendorSvcUUID  = ble.MustParseUUID("49535343-fe7d-4ae5-8fa9-9fafd205e455")
)

func canonicalLink() (*mockLink, *mockCharacteristic) {
	char := &mockCharacteristic{uuid: escposCharUUID, props: ble.PropWrite | ble.PropWriteWithoutResponse}
	link := newMockLink(
		&mockService{uuid: deviceInfoUUID, chars: []*mockCharacteristic{
			{uuid: ble.MustParseUUID("2a29"), props: ble.PropRead | ble.PropWrite},
		}},
		&mockService{uuid: escposSvcUUID, chars: []*mockCharacteristic{
			{uuid: ble.MustParseUUID("2af0"), props: ble.PropNotify},
			char,
		}},
	)
	return link, char
}
