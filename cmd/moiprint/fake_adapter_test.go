package main

import (
	"context"
	"sync"

	"github.com/moireceipt/moiprint/internal/ble"
)

// fakeChar is a canonical ESC/POS write characteristic that accepts writes.
type fakeChar struct{}

func (fakeChar) UUID() ble.UUID               { return ble.MustParseUUID("2af1") }
func (fakeChar) Properties() ble.Property     { return ble.PropWrite }
func (fakeChar) Write(_ []byte, _ bool) error { return nil }

type fakeService struct{}

func (fakeService) UUID() ble.UUID { return ble.MustParseUUID("18f0") }

func (fakeService) Characteristics(context.Context) ([]ble.Characteristic, error) {
	return []ble.Characteristic{fakeChar{}}, nil
}

// fakeLink can be marked down without firing its disconnect callback.
type fakeLink struct {
	mu          sync.Mutex
	up          bool
	disconnects int
}

func (l *fakeLink) Service(context.Context, ble.UUID) (ble.Service, error) {
	return fakeService{}, nil
}

func (l *fakeLink) Services(context.Context) ([]ble.Service, error) {
	return []ble.Service{fakeService{}}, nil
}

func (l *fakeLink) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.up
}

func (l *fakeLink) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnects++
	l.up = false
	return nil
}

func (l *fakeLink) OnDisconnect(func()) {}

func (l *fakeLink) drop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.up = false
}

type fakeAdapter struct {
	link *fakeLink
}

func (a *fakeAdapter) Enable() error { return nil }

func (a *fakeAdapter) Scan(context.Context, func(ble.Advertisement) bool) error { return nil }

func (a *fakeAdapter) Connect(context.Context, string) (ble.Link, error) {
	a.link.mu.Lock()
	a.link.up = true
	a.link.mu.Unlock()
	return a.link, nil
}
