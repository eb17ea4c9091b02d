/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const uinputPath = "/dev/uinput"

// uinput ioctl requests, from linux/uinput.h.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiDevSetup   = 0x405c5503
	uiAbsSetup   = 0x401c5504
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiSetAbsBit  = 0x40045567
)

// Event type and repeat codes, from linux/input-event-codes.h.
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evRel uint16 = 0x02
	evAbs uint16 = 0x03
	evRep uint16 = 0x14

	repDelay  uint16 = 0x00
	repPeriod uint16 = 0x01
)

const uinputMaxNameSize = 80

// rawEventSize is sizeof(struct input_event) on 64-bit: a struct timeval
// followed by type, code and value.
const rawEventSize = 16 + 2 + 2 + 4

// WriterBuilder accumulates the capability set of a synthetic device.
type WriterBuilder struct {
	name    string
	vendor  uint16
	product uint16
	version uint16
	rel     []RelAxis
	abs     []AbsAxis
	absInfo map[AbsAxis]AbsInfo
	keys    []Key
	tool    bool
	delay   *int32
	period  *int32
}

// NewWriterBuilder returns an empty builder.
func NewWriterBuilder() *WriterBuilder {
	return &WriterBuilder{absInfo: make(map[AbsAxis]AbsInfo)}
}

func (b *WriterBuilder) Name(name string) *WriterBuilder {
	b.name = name
	return b
}

func (b *WriterBuilder) Vendor(value uint16) *WriterBuilder {
	b.vendor = value
	return b
}

func (b *WriterBuilder) Product(value uint16) *WriterBuilder {
	b.product = value
	return b
}

func (b *WriterBuilder) Version(value uint16) *WriterBuilder {
	b.version = value
	return b
}

func (b *WriterBuilder) Rel(axes map[RelAxis]struct{}) *WriterBuilder {
	for axis := range axes {
		b.rel = append(b.rel, axis)
	}
	return b
}

func (b *WriterBuilder) Abs(axes map[AbsAxis]AbsInfo) *WriterBuilder {
	for axis, info := range axes {
		b.abs = append(b.abs, axis)
		b.absInfo[axis] = info
	}
	return b
}

func (b *WriterBuilder) Keys(keys map[Key]struct{}) *WriterBuilder {
	for key := range keys {
		b.keys = append(b.keys, key)
	}
	return b
}

// ToolType enables multitouch tool type reporting on the device.
func (b *WriterBuilder) ToolType(enabled bool) *WriterBuilder {
	b.tool = enabled
	return b
}

func (b *WriterBuilder) Delay(value *int32) *WriterBuilder {
	b.delay = value
	return b
}

func (b *WriterBuilder) Period(value *int32) *WriterBuilder {
	b.period = value
	return b
}

// Build creates the uinput device.
func (b *WriterBuilder) Build() (*Writer, error) {
	fd, err := unix.Open(uinputPath, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}

	w := &Writer{fd: fd}
	if err := w.setup(b); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return w, nil
}

// Writer is a handle to one synthetic input device. Events are buffered and
// committed to the kernel in one batch per sync boundary.
type Writer struct {
	fd     int
	buffer bytes.Buffer
}

func (w *Writer) setup(b *WriterBuilder) error {
	if len(b.keys) > 0 {
		if err := w.ioctl(uiSetEvBit, uintptr(evKey)); err != nil {
			return fmt.Errorf("enable keys: %w", err)
		}
		for _, key := range b.keys {
			if err := w.ioctl(uiSetKeyBit, uintptr(key)); err != nil {
				return fmt.Errorf("enable key %v: %w", key, err)
			}
		}
	}

	if len(b.rel) > 0 {
		if err := w.ioctl(uiSetEvBit, uintptr(evRel)); err != nil {
			return fmt.Errorf("enable rel axes: %w", err)
		}
		for _, axis := range b.rel {
			if err := w.ioctl(uiSetRelBit, uintptr(axis)); err != nil {
				return fmt.Errorf("enable rel axis %v: %w", axis, err)
			}
		}
	}

	if len(b.abs) > 0 || b.tool {
		if err := w.ioctl(uiSetEvBit, uintptr(evAbs)); err != nil {
			return fmt.Errorf("enable abs axes: %w", err)
		}
		for _, axis := range b.abs {
			if err := w.ioctl(uiSetAbsBit, uintptr(axis)); err != nil {
				return fmt.Errorf("enable abs axis %v: %w", axis, err)
			}
			if err := w.absSetup(uint16(axis), b.absInfo[axis]); err != nil {
				return fmt.Errorf("setup abs axis %v: %w", axis, err)
			}
		}
		if b.tool {
			if err := w.ioctl(uiSetAbsBit, uintptr(absMtToolType)); err != nil {
				return fmt.Errorf("enable tool type axis: %w", err)
			}
		}
	}

	repeat := b.delay != nil || b.period != nil
	if repeat {
		if err := w.ioctl(uiSetEvBit, uintptr(evRep)); err != nil {
			return fmt.Errorf("enable autorepeat: %w", err)
		}
	}

	if err := w.devSetup(b.name, b.vendor, b.product, b.version); err != nil {
		return fmt.Errorf("device setup: %w", err)
	}

	if err := w.ioctl(uiDevCreate, 0); err != nil {
		return fmt.Errorf("device create: %w", err)
	}

	// Repeat values can only be set on a live device, by injecting EV_REP.
	if repeat {
		if b.delay != nil {
			w.push(evRep, repDelay, *b.delay)
		}
		if b.period != nil {
			w.push(evRep, repPeriod, *b.period)
		}
		w.push(evSyn, uint16(SyncAll), 0)
		if err := w.flush(); err != nil {
			return fmt.Errorf("set autorepeat: %w", err)
		}
	}

	return nil
}

// Write buffers the event and flushes the batch when a SyncAll boundary
// arrives.
func (w *Writer) Write(event Event) error {
	switch e := event.(type) {
	case KeyEvent:
		value := int32(0)
		if e.Down {
			value = 1
		}
		w.push(evKey, uint16(e.Key), value)
	case RelEvent:
		w.push(evRel, uint16(e.Axis), e.Value)
	case AbsAxisEvent:
		w.push(evAbs, uint16(e.Axis), e.Value)
	case AbsToolEvent:
		w.push(evAbs, absMtToolType, int32(e.Tool))
	case SyncEvent:
		w.push(evSyn, uint16(e.Kind), 0)
		if e.Kind == SyncAll {
			return w.flush()
		}
	}

	return nil
}

// Close destroys the synthetic device.
func (w *Writer) Close() error {
	w.ioctl(uiDevDestroy, 0)
	return unix.Close(w.fd)
}

func (w *Writer) push(typ, code uint16, value int32) {
	var raw [rawEventSize]byte
	binary.LittleEndian.PutUint16(raw[16:], typ)
	binary.LittleEndian.PutUint16(raw[18:], code)
	binary.LittleEndian.PutUint32(raw[20:], uint32(value))
	w.buffer.Write(raw[:])
}

func (w *Writer) flush() error {
	if w.buffer.Len() == 0 {
		return nil
	}
	defer w.buffer.Reset()

	if _, err := unix.Write(w.fd, w.buffer.Bytes()); err != nil {
		if errors.Is(err, unix.ENODEV) || errors.Is(err, os.ErrClosed) {
			return ErrClosed
		}
		return err
	}

	return nil
}

func (w *Writer) devSetup(name string, vendor, product, version uint16) error {
	// struct uinput_setup: input_id, name[80], ff_effects_max.
	var setup [8 + uinputMaxNameSize + 4]byte
	binary.LittleEndian.PutUint16(setup[0:], 0x03) // BUS_USB
	binary.LittleEndian.PutUint16(setup[2:], vendor)
	binary.LittleEndian.PutUint16(setup[4:], product)
	binary.LittleEndian.PutUint16(setup[6:], version)

	// The prefix keeps the monitor from capturing our own devices back.
	full := virtualNamePrefix + name
	if len(full) >= uinputMaxNameSize {
		full = full[:uinputMaxNameSize-1]
	}
	copy(setup[8:], full)

	return w.ioctl(uiDevSetup, uintptr(unsafe.Pointer(&setup[0])))
}

func (w *Writer) absSetup(code uint16, info AbsInfo) error {
	// struct uinput_abs_setup: code (padded to 4), input_absinfo.
	var setup [4 + 24]byte
	binary.LittleEndian.PutUint16(setup[0:], code)
	binary.LittleEndian.PutUint32(setup[8:], uint32(info.Min))
	binary.LittleEndian.PutUint32(setup[12:], uint32(info.Max))
	binary.LittleEndian.PutUint32(setup[16:], uint32(info.Fuzz))
	binary.LittleEndian.PutUint32(setup[20:], uint32(info.Flat))
	binary.LittleEndian.PutUint32(setup[24:], uint32(info.Resolution))

	return w.ioctl(uiAbsSetup, uintptr(unsafe.Pointer(&setup[0])))
}

func (w *Writer) ioctl(req uint, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(w.fd), uintptr(req), arg)
	if errno != 0 {
		return errno
	}
	return nil
}
