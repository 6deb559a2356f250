package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	goble "github.com/go-ble/ble"
)

// maxMTU is the largest ATT MTU requested during link setup.
const maxMTU = 517

// GoBLEAdapter implements Adapter on top of go-ble: raw HCI on Linux,
// CoreBluetooth on macOS. The HCI device is opened lazily by Enable.
type GoBLEAdapter struct {
	newDevice func() (goble.Device, error)

	mu  sync.Mutex
	dev goble.Device
}

// NewGoBLEAdapter creates an adapter bound to the host's default controller.
func NewGoBLEAdapter() *GoBLEAdapter {
	return &GoBLEAdapter{newDevice: newDevice}
}

func (a *GoBLEAdapter) Enable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dev != nil {
		return nil
	}
	dev, err := a.newDevice()
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	a.dev = dev
	return nil
}

func (a *GoBLEAdapter) device() (goble.Device, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dev == nil {
		return nil, errors.New("ble: adapter not enabled")
	}
	return a.dev, nil
}

func (a *GoBLEAdapter) Scan(ctx context.Context, found func(Advertisement) bool) error {
	dev, err := a.device()
	if err != nil {
		return err
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	stopped := false
	err = dev.Scan(scanCtx, false, func(adv goble.Advertisement) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if !found(toAdvertisement(adv)) {
			stopped = true
			cancel()
		}
	})

	// The HCI layer may still deliver advertisements after Scan returns.
	mu.Lock()
	stopped = true
	mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("ble: scan: %w", err)
	}
	return nil
}

func toAdvertisement(adv goble.Advertisement) Advertisement {
	out := Advertisement{
		Name: adv.LocalName(),
		RSSI: adv.RSSI(),
	}
	if addr := adv.Addr(); addr != nil {
		out.Address = addr.String()
	}
	for _, u := range adv.Services() {
		uuid, err := uuidFromLE(u)
		if err != nil {
			continue
		}
		out.Services = append(out.Services, uuid)
	}
	return out
}

func (a *GoBLEAdapter) Connect(ctx context.Context, address string) (Link, error) {
	dev, err := a.device()
	if err != nil {
		return nil, err
	}

	client, err := dev.Dial(ctx, goble.NewAddr(address))
	if err != nil {
		return nil, fmt.Errorf("ble: connect to %s: %w", address, err)
	}

	mtu := DefaultMTU
	if txMTU, err := client.ExchangeMTU(maxMTU); err != nil {
		slog.Debug("[BLE] mtu exchange failed, using default", "error", err)
	} else {
		mtu = txMTU
	}

	link := &gobleLink{client: client, mtu: mtu}
	link.connected.Store(true)

	if c, ok := client.(interface{ Disconnected() <-chan struct{} }); ok {
		go link.watch(c.Disconnected())
	}

	slog.Info("[BLE] connected", "address", address, "mtu", mtu)
	return link, nil
}

// Compile-time check that GoBLEAdapter implements Adapter.
var _ Adapter = (*GoBLEAdapter)(nil)

type gobleLink struct {
	client goble.Client
	mtu    int

	connected atomic.Bool

	mu           sync.Mutex
	services     []Service
	disconnectCb func()
}

func (l *gobleLink) watch(done <-chan struct{}) {
	<-done
	if !l.connected.Swap(false) {
		return
	}
	slog.Warn("[BLE] link dropped")
	l.mu.Lock()
	cb := l.disconnectCb
	l.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (l *gobleLink) Services(_ context.Context) ([]Service, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.services != nil {
		return l.services, nil
	}

	svcs, err := l.client.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("ble: discover services: %w", err)
	}
	services := make([]Service, 0, len(svcs))
	for _, s := range svcs {
		uuid, err := uuidFromLE(s.UUID)
		if err != nil {
			slog.Debug("[BLE] skipping service with malformed uuid", "error", err)
			continue
		}
		services = append(services, &gobleService{link: l, svc: s, uuid: uuid})
	}
	l.services = services
	return services, nil
}

func (l *gobleLink) Service(ctx context.Context, uuid UUID) (Service, error) {
	services, err := l.Services(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		if s.UUID() == uuid {
			return s, nil
		}
	}
	return nil, fmt.Errorf("ble: service %s: %w", uuid, ErrNotFound)
}

func (l *gobleLink) Connected() bool {
	return l.connected.Load()
}

func (l *gobleLink) Disconnect() error {
	l.connected.Store(false)
	if err := l.client.CancelConnection(); err != nil {
		return fmt.Errorf("ble: disconnect: %w", err)
	}
	return nil
}

func (l *gobleLink) OnDisconnect(cb func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnectCb = cb
}

type gobleService struct {
	link *gobleLink
	svc  *goble.Service
	uuid UUID
}

func (s *gobleService) UUID() UUID { return s.uuid }

func (s *gobleService) Characteristics(_ context.Context) ([]Characteristic, error) {
	chars, err := s.link.client.DiscoverCharacteristics(nil, s.svc)
	if err != nil {
		return nil, fmt.Errorf("ble: discover characteristics of %s: %w", s.uuid, err)
	}
	out := make([]Characteristic, 0, len(chars))
	for _, c := range chars {
		uuid, err := uuidFromLE(c.UUID)
		if err != nil {
			continue
		}
		out = append(out, &gobleCharacteristic{link: s.link, char: c, uuid: uuid})
	}
	return out, nil
}

type gobleCharacteristic struct {
	link *gobleLink
	char *goble.Characteristic
	uuid UUID
}

func (c *gobleCharacteristic) UUID() UUID { return c.uuid }

func (c *gobleCharacteristic) Properties() Property {
	return Property(c.char.Property)
}

// Write splits data into MTU-sized pieces and writes them in order.
func (c *gobleCharacteristic) Write(data []byte, noResponse bool) error {
	for _, chunk := range Chunk(data, payloadSize(c.link.mtu)) {
		if err := c.link.client.WriteCharacteristic(c.char, chunk, noResponse); err != nil {
			return fmt.Errorf("ble: write %s: %w", c.uuid, err)
		}
	}
	return nil
}
