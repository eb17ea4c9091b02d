/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

//go:build linux

package input

import (
	"errors"
	"fmt"
	"io"
	"os"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

// ErrClosed reports that the underlying device is gone, typically because it
// was unplugged. Callers treat it as a normal end of stream.
var ErrClosed = errors.New("input: device closed")

// Kernel autorepeat defaults, used when a device advertises EV_REP.
const (
	defaultRepeatDelay  int32 = 250
	defaultRepeatPeriod int32 = 33
)

// Interceptor is an exclusive bidirectional handle to one physical input
// device. The device is grabbed on open, so events captured here are not
// seen by the rest of the system.
type Interceptor struct {
	dev     *evdev.InputDevice
	path    string
	name    string
	id      evdev.InputID
	rel     map[RelAxis]struct{}
	abs     map[AbsAxis]AbsInfo
	keys    map[Key]struct{}
	repeat  Repeat
	hasTool bool
}

// NewInterceptor opens and grabs the device at path and queries its
// capability sets.
func NewInterceptor(path string) (*Interceptor, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	intr, err := newInterceptor(dev, path)
	if err != nil {
		dev.Close()
		return nil, err
	}

	if err := dev.Grab(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("grab %s: %w", path, err)
	}

	return intr, nil
}

func newInterceptor(dev *evdev.InputDevice, path string) (*Interceptor, error) {
	name, err := dev.Name()
	if err != nil {
		return nil, fmt.Errorf("query name: %w", err)
	}

	id, err := dev.InputID()
	if err != nil {
		return nil, fmt.Errorf("query id: %w", err)
	}

	intr := &Interceptor{
		dev:  dev,
		path: path,
		name: name,
		id:   id,
		rel:  make(map[RelAxis]struct{}),
		abs:  make(map[AbsAxis]AbsInfo),
		keys: make(map[Key]struct{}),
	}

	for _, t := range dev.CapableTypes() {
		switch t {
		case evdev.EV_KEY:
			for _, code := range dev.CapableEvents(evdev.EV_KEY) {
				if key := Key(code); key.Valid() {
					intr.keys[key] = struct{}{}
				}
			}
		case evdev.EV_REL:
			for _, code := range dev.CapableEvents(evdev.EV_REL) {
				if axis := RelAxis(code); axis.Valid() {
					intr.rel[axis] = struct{}{}
				}
			}
		case evdev.EV_ABS:
			infos, err := dev.AbsInfos()
			if err != nil {
				return nil, fmt.Errorf("query abs info: %w", err)
			}
			for code, info := range infos {
				if code == absMtToolType {
					intr.hasTool = true
					continue
				}
				if axis := AbsAxis(code); axis.Valid() {
					intr.abs[axis] = AbsInfo{
						Min:        info.Minimum,
						Max:        info.Maximum,
						Fuzz:       info.Fuzz,
						Flat:       info.Flat,
						Resolution: info.Resolution,
					}
				}
			}
		case evdev.EV_REP:
			// evdev does not expose the configured values here, so mirror
			// the kernel defaults.
			delay, period := defaultRepeatDelay, defaultRepeatPeriod
			intr.repeat = Repeat{Delay: &delay, Period: &period}
		}
	}

	return intr, nil
}

// Read blocks until the next event. Events outside the closed enum tables
// are skipped. ErrClosed is returned once the device disappears.
func (i *Interceptor) Read() (Event, error) {
	for {
		raw, err := i.dev.ReadOne()
		if err != nil {
			return nil, i.mapErr(err)
		}

		if event, ok := i.convert(raw); ok {
			return event, nil
		}
	}
}

// Write delivers an event back to the physical device, used to keep LED and
// feedback state in sync when the local machine is the target. Non-sync
// events are committed with a trailing SYN_REPORT so each write-back takes
// effect on its own.
func (i *Interceptor) Write(event Event) error {
	raw, ok := deconvert(event)
	if !ok {
		return nil
	}

	if err := i.dev.WriteOne(&raw); err != nil {
		return i.mapErr(err)
	}

	if _, isSync := event.(SyncEvent); isSync {
		return nil
	}

	report, _ := deconvert(SyncEvent{Kind: SyncAll})
	if err := i.dev.WriteOne(&report); err != nil {
		return i.mapErr(err)
	}

	return nil
}

// Close ungrabs and releases the device.
func (i *Interceptor) Close() error {
	i.dev.Ungrab()
	return i.dev.Close()
}

func (i *Interceptor) Path() string { return i.path }

func (i *Interceptor) Name() string { return i.name }

func (i *Interceptor) Vendor() uint16 { return i.id.Vendor }

func (i *Interceptor) Product() uint16 { return i.id.Product }

func (i *Interceptor) Version() uint16 { return i.id.Version }

// Rel returns the supported relative axes.
func (i *Interceptor) Rel() map[RelAxis]struct{} { return i.rel }

// Abs returns the supported absolute axes and their ranges.
func (i *Interceptor) Abs() map[AbsAxis]AbsInfo { return i.abs }

// Keys returns the supported keys and buttons.
func (i *Interceptor) Keys() map[Key]struct{} { return i.keys }

// Repeat returns the autorepeat parameters, if the device autorepeats.
func (i *Interceptor) Repeat() Repeat { return i.repeat }

// HasToolType reports whether the device reports multitouch tool types.
func (i *Interceptor) HasToolType() bool { return i.hasTool }

func (i *Interceptor) convert(raw *evdev.InputEvent) (Event, bool) {
	switch raw.Type {
	case evdev.EV_KEY:
		key := Key(raw.Code)
		if !key.Valid() {
			return nil, false
		}
		return KeyEvent{Key: key, Down: raw.Value != 0}, true
	case evdev.EV_REL:
		axis := RelAxis(raw.Code)
		if !axis.Valid() {
			return nil, false
		}
		return RelEvent{Axis: axis, Value: raw.Value}, true
	case evdev.EV_ABS:
		if raw.Code == absMtToolType {
			tool := ToolType(raw.Value)
			if !tool.Valid() {
				return nil, false
			}
			return AbsToolEvent{Tool: tool}, true
		}
		axis := AbsAxis(raw.Code)
		if !axis.Valid() {
			return nil, false
		}
		return AbsAxisEvent{Axis: axis, Value: raw.Value}, true
	case evdev.EV_SYN:
		kind := SyncKind(raw.Code)
		if !kind.Valid() {
			return nil, false
		}
		return SyncEvent{Kind: kind}, true
	}

	return nil, false
}

func deconvert(event Event) (evdev.InputEvent, bool) {
	switch e := event.(type) {
	case KeyEvent:
		value := int32(0)
		if e.Down {
			value = 1
		}
		return evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.EvCode(e.Key), Value: value}, true
	case RelEvent:
		return evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.EvCode(e.Axis), Value: e.Value}, true
	case AbsAxisEvent:
		return evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.EvCode(e.Axis), Value: e.Value}, true
	case AbsToolEvent:
		return evdev.InputEvent{Type: evdev.EV_ABS, Code: absMtToolType, Value: int32(e.Tool)}, true
	case SyncEvent:
		return evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.EvCode(e.Kind), Value: 0}, true
	}

	return evdev.InputEvent{}, false
}

func (i *Interceptor) mapErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) ||
		errors.Is(err, unix.ENODEV) || errors.Is(err, unix.ENXIO) {
		return fmt.Errorf("%s: %w", i.path, ErrClosed)
	}
	return err
}
