// Package device watches for tuner hotplug events over udev, so the host
// CLI can react to a dongle being connected or removed without polling.
package device

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// Event reports a hotplug action for a USB device.
type Event struct {
	Action   string // "add" or "remove"
	DevNode  string
	Vendor   string
	Product  string
}

// Watcher streams udev hotplug events for the "usb" subsystem.
type Watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
}

// NewWatcher starts watching for USB hotplug events. Callers should range
// over Events() and call Close when done.
func NewWatcher(ctx context.Context) (*Watcher, error) {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("usb"); err != nil {
		return nil, fmt.Errorf("device: filter subsystem: %w", err)
	}

	wctx, cancel := context.WithCancel(ctx)
	deviceCh, err := mon.DeviceChan(wctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("device: device channel: %w", err)
	}

	w := &Watcher{ctx: wctx, cancel: cancel, events: make(chan Event)}
	go w.pump(deviceCh)
	return w, nil
}

func (w *Watcher) pump(deviceCh <-chan *udev.Device) {
	defer close(w.events)
	for {
		select {
		case d, ok := <-deviceCh:
			if !ok {
				return
			}
			w.events <- Event{
				Action:  d.Action(),
				DevNode: d.Devnode(),
				Vendor:  d.PropertyValue("ID_VENDOR_ID"),
				Product: d.PropertyValue("ID_MODEL_ID"),
			}
		case <-w.ctx.Done():
			return
		}
	}
}

// Events returns the channel of hotplug events; it closes when the
// watcher is closed or its context is cancelled.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() {
	w.cancel()
}
