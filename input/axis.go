/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package input

// RelAxis is a relative axis, REL_* in evdev terms.
type RelAxis uint16

const (
	RelX           RelAxis = 0x00
	RelY           RelAxis = 0x01
	RelZ           RelAxis = 0x02
	RelRx          RelAxis = 0x03
	RelRy          RelAxis = 0x04
	RelRz          RelAxis = 0x05
	RelHWheel      RelAxis = 0x06
	RelDial        RelAxis = 0x07
	RelWheel       RelAxis = 0x08
	RelMisc        RelAxis = 0x09
	RelWheelHiRes  RelAxis = 0x0b
	RelHWheelHiRes RelAxis = 0x0c
)

var relAxisNames = map[RelAxis]string{
	RelX:           "X",
	RelY:           "Y",
	RelZ:           "Z",
	RelRx:          "Rx",
	RelRy:          "Ry",
	RelRz:          "Rz",
	RelHWheel:      "HWheel",
	RelDial:        "Dial",
	RelWheel:       "Wheel",
	RelMisc:        "Misc",
	RelWheelHiRes:  "WheelHiRes",
	RelHWheelHiRes: "HWheelHiRes",
}

// Valid reports whether the axis is part of the closed relative axis set.
func (a RelAxis) Valid() bool {
	_, ok := relAxisNames[a]
	return ok
}

func (a RelAxis) String() string {
	if s, ok := relAxisNames[a]; ok {
		return s
	}
	return "Invalid"
}

// AbsAxis is an absolute axis, ABS_* in evdev terms. ABS_MT_TOOL_TYPE is
// deliberately absent; tool types travel as AbsToolEvent instead.
type AbsAxis uint16

const (
	AbsX             AbsAxis = 0x00
	AbsY             AbsAxis = 0x01
	AbsZ             AbsAxis = 0x02
	AbsRx            AbsAxis = 0x03
	AbsRy            AbsAxis = 0x04
	AbsRz            AbsAxis = 0x05
	AbsThrottle      AbsAxis = 0x06
	AbsRudder        AbsAxis = 0x07
	AbsWheel         AbsAxis = 0x08
	AbsGas           AbsAxis = 0x09
	AbsBrake         AbsAxis = 0x0a
	AbsHat0X         AbsAxis = 0x10
	AbsHat0Y         AbsAxis = 0x11
	AbsHat1X         AbsAxis = 0x12
	AbsHat1Y         AbsAxis = 0x13
	AbsHat2X         AbsAxis = 0x14
	AbsHat2Y         AbsAxis = 0x15
	AbsHat3X         AbsAxis = 0x16
	AbsHat3Y         AbsAxis = 0x17
	AbsPressure      AbsAxis = 0x18
	AbsDistance      AbsAxis = 0x19
	AbsTiltX         AbsAxis = 0x1a
	AbsTiltY         AbsAxis = 0x1b
	AbsToolWidth     AbsAxis = 0x1c
	AbsVolume        AbsAxis = 0x20
	AbsProfile       AbsAxis = 0x21
	AbsMisc          AbsAxis = 0x28
	AbsMtSlot        AbsAxis = 0x2f
	AbsMtTouchMajor  AbsAxis = 0x30
	AbsMtTouchMinor  AbsAxis = 0x31
	AbsMtWidthMajor  AbsAxis = 0x32
	AbsMtWidthMinor  AbsAxis = 0x33
	AbsMtOrientation AbsAxis = 0x34
	AbsMtPositionX   AbsAxis = 0x35
	AbsMtPositionY   AbsAxis = 0x36
	AbsMtBlobId      AbsAxis = 0x38
	AbsMtTrackingId  AbsAxis = 0x39
	AbsMtPressure    AbsAxis = 0x3a
	AbsMtDistance    AbsAxis = 0x3b
	AbsMtToolX       AbsAxis = 0x3c
	AbsMtToolY       AbsAxis = 0x3d
)

// absMtToolType is carried as AbsToolEvent, never as a plain axis.
const absMtToolType = 0x37

var absAxisNames = map[AbsAxis]string{
	AbsX:             "X",
	AbsY:             "Y",
	AbsZ:             "Z",
	AbsRx:            "Rx",
	AbsRy:            "Ry",
	AbsRz:            "Rz",
	AbsThrottle:      "Throttle",
	AbsRudder:        "Rudder",
	AbsWheel:         "Wheel",
	AbsGas:           "Gas",
	AbsBrake:         "Brake",
	AbsHat0X:         "Hat0X",
	AbsHat0Y:         "Hat0Y",
	AbsHat1X:         "Hat1X",
	AbsHat1Y:         "Hat1Y",
	AbsHat2X:         "Hat2X",
	AbsHat2Y:         "Hat2Y",
	AbsHat3X:         "Hat3X",
	AbsHat3Y:         "Hat3Y",
	AbsPressure:      "Pressure",
	AbsDistance:      "Distance",
	AbsTiltX:         "TiltX",
	AbsTiltY:         "TiltY",
	AbsToolWidth:     "ToolWidth",
	AbsVolume:        "Volume",
	AbsProfile:       "Profile",
	AbsMisc:          "Misc",
	AbsMtSlot:        "MtSlot",
	AbsMtTouchMajor:  "MtTouchMajor",
	AbsMtTouchMinor:  "MtTouchMinor",
	AbsMtWidthMajor:  "MtWidthMajor",
	AbsMtWidthMinor:  "MtWidthMinor",
	AbsMtOrientation: "MtOrientation",
	AbsMtPositionX:   "MtPositionX",
	AbsMtPositionY:   "MtPositionY",
	AbsMtBlobId:      "MtBlobId",
	AbsMtTrackingId:  "MtTrackingId",
	AbsMtPressure:    "MtPressure",
	AbsMtDistance:    "MtDistance",
	AbsMtToolX:       "MtToolX",
	AbsMtToolY:       "MtToolY",
}

// Valid reports whether the axis is part of the closed absolute axis set.
func (a AbsAxis) Valid() bool {
	_, ok := absAxisNames[a]
	return ok
}

func (a AbsAxis) String() string {
	if s, ok := absAxisNames[a]; ok {
		return s
	}
	return "Invalid"
}
