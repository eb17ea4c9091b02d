/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package wire

import (
	"fmt"
	"io"

	"github.com/Unknow0/rkvm/input"
)

// Update is the top-level message streamed from server to client after
// authentication.
type Update interface {
	isUpdate()
	Encode(w io.Writer) error
}

const (
	tagCreateDevice  uint8 = 0
	tagDestroyDevice uint8 = 1
	tagEvent         uint8 = 2
	tagPing          uint8 = 3
)

// CreateDevice instructs the client to build a synthetic device mirroring
// the capability set of a newly registered server-side device.
type CreateDevice struct {
	Id      uint32
	Name    string
	Vendor  uint16
	Product uint16
	Version uint16
	Rel     map[input.RelAxis]struct{}
	Abs     map[input.AbsAxis]input.AbsInfo
	Keys    map[input.Key]struct{}
	Delay   *int32
	Period  *int32
}

// DestroyDevice instructs the client to tear the synthetic device down.
type DestroyDevice struct {
	Id uint32
}

// Event carries one input primitive for the synthetic device at Id.
type Event struct {
	Id    uint32
	Event input.Event
}

// Ping demands a prompt Pong; it is the sole liveness probe.
type Ping struct{}

func (CreateDevice) isUpdate()  {}
func (DestroyDevice) isUpdate() {}
func (Event) isUpdate()         {}
func (Ping) isUpdate()          {}

func (u CreateDevice) Encode(w io.Writer) error {
	if err := writeU8(w, tagCreateDevice); err != nil {
		return err
	}
	if err := writeU32(w, u.Id); err != nil {
		return err
	}
	if err := writeString(w, u.Name); err != nil {
		return err
	}
	if err := writeU16(w, u.Vendor); err != nil {
		return err
	}
	if err := writeU16(w, u.Product); err != nil {
		return err
	}
	if err := writeU16(w, u.Version); err != nil {
		return err
	}

	if err := writeU32(w, uint32(len(u.Rel))); err != nil {
		return err
	}
	for axis := range u.Rel {
		if err := writeU16(w, uint16(axis)); err != nil {
			return err
		}
	}

	if err := writeU32(w, uint32(len(u.Abs))); err != nil {
		return err
	}
	for axis, info := range u.Abs {
		if err := writeU16(w, uint16(axis)); err != nil {
			return err
		}
		for _, v := range [...]int32{info.Min, info.Max, info.Fuzz, info.Flat, info.Resolution} {
			if err := writeI32(w, v); err != nil {
				return err
			}
		}
	}

	if err := writeU32(w, uint32(len(u.Keys))); err != nil {
		return err
	}
	for key := range u.Keys {
		if err := writeU16(w, uint16(key)); err != nil {
			return err
		}
	}

	if err := writeOptionI32(w, u.Delay); err != nil {
		return err
	}
	return writeOptionI32(w, u.Period)
}

func (u DestroyDevice) Encode(w io.Writer) error {
	if err := writeU8(w, tagDestroyDevice); err != nil {
		return err
	}
	return writeU32(w, u.Id)
}

func (u Event) Encode(w io.Writer) error {
	if err := writeU8(w, tagEvent); err != nil {
		return err
	}
	if err := writeU32(w, u.Id); err != nil {
		return err
	}
	return EncodeEvent(w, u.Event)
}

func (Ping) Encode(w io.Writer) error {
	return writeU8(w, tagPing)
}

// DecodeUpdate reads the next update off the stream.
func DecodeUpdate(r io.Reader) (Update, error) {
	tag, err := readU8(r)
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagCreateDevice:
		return decodeCreateDevice(r)
	case tagDestroyDevice:
		id, err := readU32(r)
		if err != nil {
			return nil, err
		}
		return DestroyDevice{Id: id}, nil
	case tagEvent:
		id, err := readU32(r)
		if err != nil {
			return nil, err
		}
		event, err := DecodeEvent(r)
		if err != nil {
			return nil, err
		}
		return Event{Id: id, Event: event}, nil
	case tagPing:
		return Ping{}, nil
	}

	return nil, fmt.Errorf("%w: update %#x", ErrUnknownTag, tag)
}

func decodeCreateDevice(r io.Reader) (CreateDevice, error) {
	u := CreateDevice{
		Rel:  make(map[input.RelAxis]struct{}),
		Abs:  make(map[input.AbsAxis]input.AbsInfo),
		Keys: make(map[input.Key]struct{}),
	}

	var err error
	if u.Id, err = readU32(r); err != nil {
		return u, err
	}
	if u.Name, err = readString(r); err != nil {
		return u, err
	}
	if u.Vendor, err = readU16(r); err != nil {
		return u, err
	}
	if u.Product, err = readU16(r); err != nil {
		return u, err
	}
	if u.Version, err = readU16(r); err != nil {
		return u, err
	}

	n, err := readCount(r)
	if err != nil {
		return u, err
	}
	for i := 0; i < n; i++ {
		code, err := readU16(r)
		if err != nil {
			return u, err
		}
		axis := input.RelAxis(code)
		if !axis.Valid() {
			return u, fmt.Errorf("%w: rel axis %#x", ErrUnknownTag, code)
		}
		u.Rel[axis] = struct{}{}
	}

	if n, err = readCount(r); err != nil {
		return u, err
	}
	for i := 0; i < n; i++ {
		code, err := readU16(r)
		if err != nil {
			return u, err
		}
		axis := input.AbsAxis(code)
		if !axis.Valid() {
			return u, fmt.Errorf("%w: abs axis %#x", ErrUnknownTag, code)
		}
		var info input.AbsInfo
		for _, field := range [...]*int32{&info.Min, &info.Max, &info.Fuzz, &info.Flat, &info.Resolution} {
			if *field, err = readI32(r); err != nil {
				return u, err
			}
		}
		u.Abs[axis] = info
	}

	if n, err = readCount(r); err != nil {
		return u, err
	}
	for i := 0; i < n; i++ {
		code, err := readU16(r)
		if err != nil {
			return u, err
		}
		key := input.Key(code)
		if !key.Valid() {
			return u, fmt.Errorf("%w: key %#x", ErrUnknownTag, code)
		}
		u.Keys[key] = struct{}{}
	}

	if u.Delay, err = readOptionI32(r); err != nil {
		return u, err
	}
	if u.Period, err = readOptionI32(r); err != nil {
		return u, err
	}
	return u, nil
}

const (
	tagEventKey  uint8 = 0
	tagEventRel  uint8 = 1
	tagEventAbs  uint8 = 2
	tagEventSync uint8 = 3

	tagAbsAxis uint8 = 0
	tagAbsTool uint8 = 1
)

// EncodeEvent writes one input primitive.
func EncodeEvent(w io.Writer, event input.Event) error {
	switch e := event.(type) {
	case input.KeyEvent:
		if err := writeU8(w, tagEventKey); err != nil {
			return err
		}
		if err := writeU16(w, uint16(e.Key)); err != nil {
			return err
		}
		return writeBool(w, e.Down)
	case input.RelEvent:
		if err := writeU8(w, tagEventRel); err != nil {
			return err
		}
		if err := writeU16(w, uint16(e.Axis)); err != nil {
			return err
		}
		return writeI32(w, e.Value)
	case input.AbsAxisEvent:
		if err := writeU8(w, tagEventAbs); err != nil {
			return err
		}
		if err := writeU8(w, tagAbsAxis); err != nil {
			return err
		}
		if err := writeU16(w, uint16(e.Axis)); err != nil {
			return err
		}
		return writeI32(w, e.Value)
	case input.AbsToolEvent:
		if err := writeU8(w, tagEventAbs); err != nil {
			return err
		}
		if err := writeU8(w, tagAbsTool); err != nil {
			return err
		}
		return writeU16(w, uint16(e.Tool))
	case input.SyncEvent:
		if err := writeU8(w, tagEventSync); err != nil {
			return err
		}
		return writeU16(w, uint16(e.Kind))
	}

	return fmt.Errorf("wire: cannot encode event %T", event)
}

// DecodeEvent reads one input primitive.
func DecodeEvent(r io.Reader) (input.Event, error) {
	tag, err := readU8(r)
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagEventKey:
		code, err := readU16(r)
		if err != nil {
			return nil, err
		}
		key := input.Key(code)
		if !key.Valid() {
			return nil, fmt.Errorf("%w: key %#x", ErrUnknownTag, code)
		}
		down, err := readBool(r)
		if err != nil {
			return nil, err
		}
		return input.KeyEvent{Key: key, Down: down}, nil
	case tagEventRel:
		code, err := readU16(r)
		if err != nil {
			return nil, err
		}
		axis := input.RelAxis(code)
		if !axis.Valid() {
			return nil, fmt.Errorf("%w: rel axis %#x", ErrUnknownTag, code)
		}
		value, err := readI32(r)
		if err != nil {
			return nil, err
		}
		return input.RelEvent{Axis: axis, Value: value}, nil
	case tagEventAbs:
		sub, err := readU8(r)
		if err != nil {
			return nil, err
		}
		switch sub {
		case tagAbsAxis:
			code, err := readU16(r)
			if err != nil {
				return nil, err
			}
			axis := input.AbsAxis(code)
			if !axis.Valid() {
				return nil, fmt.Errorf("%w: abs axis %#x", ErrUnknownTag, code)
			}
			value, err := readI32(r)
			if err != nil {
				return nil, err
			}
			return input.AbsAxisEvent{Axis: axis, Value: value}, nil
		case tagAbsTool:
			code, err := readU16(r)
			if err != nil {
				return nil, err
			}
			tool := input.ToolType(code)
			if !tool.Valid() {
				return nil, fmt.Errorf("%w: tool type %#x", ErrUnknownTag, code)
			}
			return input.AbsToolEvent{Tool: tool}, nil
		}
		return nil, fmt.Errorf("%w: abs event %#x", ErrUnknownTag, sub)
	case tagEventSync:
		code, err := readU16(r)
		if err != nil {
			return nil, err
		}
		kind := input.SyncKind(code)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: sync %#x", ErrUnknownTag, code)
		}
		return input.SyncEvent{Kind: kind}, nil
	}

	return nil, fmt.Errorf("%w: event %#x", ErrUnknownTag, tag)
}

// Pong is the client's answer to a Ping.
type Pong struct{}

const pongByte uint8 = 0x70

func (Pong) Encode(w io.Writer) error {
	return writeU8(w, pongByte)
}

func DecodePong(r io.Reader) (Pong, error) {
	v, err := readU8(r)
	if err != nil {
		return Pong{}, err
	}
	if v != pongByte {
		return Pong{}, fmt.Errorf("%w: pong %#x", ErrUnknownTag, v)
	}
	return Pong{}, nil
}
