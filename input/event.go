/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

// Package input models input devices and their event streams. On Linux the
// concrete implementations sit on top of evdev for capture and uinput for
// synthesis. The enums are closed: their numeric values are the Linux input
// event codes and form a frozen tag space shared with the wire protocol.
package input

// Event is a single input primitive captured from or written to a device.
type Event interface {
	isEvent()
}

// KeyEvent is a key or button state change.
type KeyEvent struct {
	Key  Key
	Down bool
}

// RelEvent is a relative axis delta.
type RelEvent struct {
	Axis  RelAxis
	Value int32
}

// AbsAxisEvent is an absolute axis value.
type AbsAxisEvent struct {
	Axis  AbsAxis
	Value int32
}

// AbsToolEvent reports the multitouch tool type.
type AbsToolEvent struct {
	Tool ToolType
}

// SyncEvent is a commit barrier. Writers buffer primitives and flush them
// when SyncAll arrives.
type SyncEvent struct {
	Kind SyncKind
}

func (KeyEvent) isEvent()     {}
func (RelEvent) isEvent()     {}
func (AbsAxisEvent) isEvent() {}
func (AbsToolEvent) isEvent() {}
func (SyncEvent) isEvent()    {}

// SyncKind is the kind of sync boundary, SYN_* in evdev terms.
type SyncKind uint16

const (
	SyncAll SyncKind = 0 // SYN_REPORT
	SyncMt  SyncKind = 2 // SYN_MT_REPORT
)

// Valid reports whether the kind is part of the closed sync set.
func (s SyncKind) Valid() bool {
	return s == SyncAll || s == SyncMt
}

func (s SyncKind) String() string {
	switch s {
	case SyncAll:
		return "All"
	case SyncMt:
		return "Mt"
	}
	return "Invalid"
}

// ToolType is the multitouch tool reported through ABS_MT_TOOL_TYPE.
type ToolType uint16

const (
	ToolFinger ToolType = 0  // MT_TOOL_FINGER
	ToolPen    ToolType = 1  // MT_TOOL_PEN
	ToolPalm   ToolType = 2  // MT_TOOL_PALM
	ToolDial   ToolType = 10 // MT_TOOL_DIAL
)

// Valid reports whether the tool is part of the closed tool set.
func (t ToolType) Valid() bool {
	switch t {
	case ToolFinger, ToolPen, ToolPalm, ToolDial:
		return true
	}
	return false
}

func (t ToolType) String() string {
	switch t {
	case ToolFinger:
		return "Finger"
	case ToolPen:
		return "Pen"
	case ToolPalm:
		return "Palm"
	case ToolDial:
		return "Dial"
	}
	return "Invalid"
}

// AbsInfo describes an absolute axis, mirroring struct input_absinfo.
type AbsInfo struct {
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Repeat holds the key autorepeat parameters of a device in milliseconds.
// Nil fields mean the device does not autorepeat.
type Repeat struct {
	Delay  *int32
	Period *int32
}
