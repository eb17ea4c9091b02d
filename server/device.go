/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import (
	"context"
	"errors"

	"github.com/Unknow0/rkvm/input"
	"github.com/Unknow0/rkvm/wire"
)

// Write-back channel depth. Absorbs short bursts from the core; the core
// only ever try-sends here, so a full channel surfaces as Overflow instead
// of a deadlock.
const deviceWriteBacklog = 32

// Central event queue depth. Depth one keeps the core tightly coupled to
// the capture tasks: a stalled core backpressures every device.
const eventQueueDepth = 1

// device is the core's record of one captured physical device.
type device struct {
	id      uint32
	name    string
	vendor  uint16
	product uint16
	version uint16
	rel     map[input.RelAxis]struct{}
	abs     map[input.AbsAxis]input.AbsInfo
	keys    map[input.Key]struct{}
	repeat  input.Repeat

	writes chan input.Event // events to write back to the physical device
	stop   chan struct{}    // closed once the capture task is gone
}

func newDevice(intr Interceptor) *device {
	return &device{
		name:    intr.Name(),
		vendor:  intr.Vendor(),
		product: intr.Product(),
		version: intr.Version(),
		rel:     intr.Rel(),
		abs:     intr.Abs(),
		keys:    intr.Keys(),
		repeat:  intr.Repeat(),
		writes:  make(chan input.Event, deviceWriteBacklog),
		stop:    make(chan struct{}),
	}
}

// createUpdate renders the record as the CreateDevice update sent to
// clients.
func (d *device) createUpdate() wire.CreateDevice {
	return wire.CreateDevice{
		Id:      d.id,
		Name:    d.name,
		Vendor:  d.vendor,
		Product: d.product,
		Version: d.version,
		Rel:     d.rel,
		Abs:     d.abs,
		Keys:    d.keys,
		Delay:   d.repeat.Delay,
		Period:  d.repeat.Period,
	}
}

// deviceEvent is one item on the central queue: an event captured from a
// device, or the error that ended its capture.
type deviceEvent struct {
	id    uint32
	event input.Event
	err   error
}

// capture pumps between the interceptor and the core: one goroutine reads
// captured events onto the central queue, a second drains write-backs into
// the device. Neither carries policy.
func (d *device) capture(ctx context.Context, intr Interceptor, events chan<- deviceEvent) {
	go d.writeBack(ctx, intr, events)

	defer intr.Close()
	defer close(d.stop)

	for {
		event, err := intr.Read()
		if err != nil {
			select {
			case events <- deviceEvent{id: d.id, err: err}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case events <- deviceEvent{id: d.id, event: event}:
		case <-ctx.Done():
			return
		}
	}
}

func (d *device) writeBack(ctx context.Context, intr Interceptor, events chan<- deviceEvent) {
	for {
		select {
		case event := <-d.writes:
			if err := intr.Write(event); err != nil {
				if !errors.Is(err, input.ErrClosed) {
					select {
					case events <- deviceEvent{id: d.id, err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
		case <-d.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}
