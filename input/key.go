/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package input

import "strings"

// Key is a keyboard key or a button, KEY_*/BTN_* in evdev terms.
type Key uint16

const (
	KeyEsc              Key = 1
	Key1                Key = 2
	Key2                Key = 3
	Key3                Key = 4
	Key4                Key = 5
	Key5                Key = 6
	Key6                Key = 7
	Key7                Key = 8
	Key8                Key = 9
	Key9                Key = 10
	Key0                Key = 11
	KeyMinus            Key = 12
	KeyEqual            Key = 13
	KeyBackspace        Key = 14
	KeyTab              Key = 15
	KeyQ                Key = 16
	KeyW                Key = 17
	KeyE                Key = 18
	KeyR                Key = 19
	KeyT                Key = 20
	KeyY                Key = 21
	KeyU                Key = 22
	KeyI                Key = 23
	KeyO                Key = 24
	KeyP                Key = 25
	KeyLeftBrace        Key = 26
	KeyRightBrace       Key = 27
	KeyEnter            Key = 28
	KeyLeftCtrl         Key = 29
	KeyA                Key = 30
	KeyS                Key = 31
	KeyD                Key = 32
	KeyF                Key = 33
	KeyG                Key = 34
	KeyH                Key = 35
	KeyJ                Key = 36
	KeyK                Key = 37
	KeyL                Key = 38
	KeySemicolon        Key = 39
	KeyApostrophe       Key = 40
	KeyGrave            Key = 41
	KeyLeftShift        Key = 42
	KeyBackslash        Key = 43
	KeyZ                Key = 44
	KeyX                Key = 45
	KeyC                Key = 46
	KeyV                Key = 47
	KeyB                Key = 48
	KeyN                Key = 49
	KeyM                Key = 50
	KeyComma            Key = 51
	KeyDot              Key = 52
	KeySlash            Key = 53
	KeyRightShift       Key = 54
	KeyKpAsterisk       Key = 55
	KeyLeftAlt          Key = 56
	KeySpace            Key = 57
	KeyCapsLock         Key = 58
	KeyF1               Key = 59
	KeyF2               Key = 60
	KeyF3               Key = 61
	KeyF4               Key = 62
	KeyF5               Key = 63
	KeyF6               Key = 64
	KeyF7               Key = 65
	KeyF8               Key = 66
	KeyF9               Key = 67
	KeyF10              Key = 68
	KeyNumLock          Key = 69
	KeyScrollLock       Key = 70
	KeyKp7              Key = 71
	KeyKp8              Key = 72
	KeyKp9              Key = 73
	KeyKpMinus          Key = 74
	KeyKp4              Key = 75
	KeyKp5              Key = 76
	KeyKp6              Key = 77
	KeyKpPlus           Key = 78
	KeyKp1              Key = 79
	KeyKp2              Key = 80
	KeyKp3              Key = 81
	KeyKp0              Key = 82
	KeyKpDot            Key = 83
	Key102nd            Key = 86
	KeyF11              Key = 87
	KeyF12              Key = 88
	KeyRo               Key = 89
	KeyKatakana         Key = 90
	KeyHiragana         Key = 91
	KeyHenkan           Key = 92
	KeyKatakanaHiragana Key = 93
	KeyMuhenkan         Key = 94
	KeyKpJpComma        Key = 95
	KeyKpEnter          Key = 96
	KeyRightCtrl        Key = 97
	KeyKpSlash          Key = 98
	KeySysRq            Key = 99
	KeyRightAlt         Key = 100
	KeyHome             Key = 102
	KeyUp               Key = 103
	KeyPageUp           Key = 104
	KeyLeft             Key = 105
	KeyRight            Key = 106
	KeyEnd              Key = 107
	KeyDown             Key = 108
	KeyPageDown         Key = 109
	KeyInsert           Key = 110
	KeyDelete           Key = 111
	KeyMute             Key = 113
	KeyVolumeDown       Key = 114
	KeyVolumeUp         Key = 115
	KeyPower            Key = 116
	KeyKpEqual          Key = 117
	KeyPause            Key = 119
	KeyKpComma          Key = 121
	KeyLeftMeta         Key = 125
	KeyRightMeta        Key = 126
	KeyCompose          Key = 127
	KeyStop             Key = 128
	KeyAgain            Key = 129
	KeyProps            Key = 130
	KeyUndo             Key = 131
	KeyFront            Key = 132
	KeyCopy             Key = 133
	KeyOpen             Key = 134
	KeyPaste            Key = 135
	KeyFind             Key = 136
	KeyCut              Key = 137
	KeyHelp             Key = 138
	KeyMenu             Key = 139
	KeyCalc             Key = 140
	KeySleep            Key = 142
	KeyWakeUp           Key = 143
	KeyMail             Key = 155
	KeyBookmarks        Key = 156
	KeyComputer         Key = 157
	KeyBack             Key = 158
	KeyForward          Key = 159
	KeyNextSong         Key = 163
	KeyPlayPause        Key = 164
	KeyPreviousSong     Key = 165
	KeyStopCd           Key = 166
	KeyHomepage         Key = 172
	KeyRefresh          Key = 173
	KeyF13              Key = 183
	KeyF14              Key = 184
	KeyF15              Key = 185
	KeyF16              Key = 186
	KeyF17              Key = 187
	KeyF18              Key = 188
	KeyF19              Key = 189
	KeyF20              Key = 190
	KeyF21              Key = 191
	KeyF22              Key = 192
	KeyF23              Key = 193
	KeyF24              Key = 194
	KeyMicMute          Key = 248

	BtnLeft          Key = 0x110
	BtnRight         Key = 0x111
	BtnMiddle        Key = 0x112
	BtnSide          Key = 0x113
	BtnExtra         Key = 0x114
	BtnForward       Key = 0x115
	BtnBack          Key = 0x116
	BtnTask          Key = 0x117
	BtnTrigger       Key = 0x120
	BtnThumb         Key = 0x121
	BtnThumb2        Key = 0x122
	BtnTop           Key = 0x123
	BtnTop2          Key = 0x124
	BtnPinkie        Key = 0x125
	BtnBase          Key = 0x126
	BtnBase2         Key = 0x127
	BtnBase3         Key = 0x128
	BtnBase4         Key = 0x129
	BtnBase5         Key = 0x12a
	BtnBase6         Key = 0x12b
	BtnDead          Key = 0x12f
	BtnSouth         Key = 0x130
	BtnEast          Key = 0x131
	BtnC             Key = 0x132
	BtnNorth         Key = 0x133
	BtnWest          Key = 0x134
	BtnZ             Key = 0x135
	BtnTl            Key = 0x136
	BtnTr            Key = 0x137
	BtnTl2           Key = 0x138
	BtnTr2           Key = 0x139
	BtnSelect        Key = 0x13a
	BtnStart         Key = 0x13b
	BtnMode          Key = 0x13c
	BtnThumbL        Key = 0x13d
	BtnThumbR        Key = 0x13e
	BtnToolPen       Key = 0x140
	BtnToolRubber    Key = 0x141
	BtnToolBrush     Key = 0x142
	BtnToolPencil    Key = 0x143
	BtnToolAirbrush  Key = 0x144
	BtnToolFinger    Key = 0x145
	BtnToolMouse     Key = 0x146
	BtnToolLens      Key = 0x147
	BtnToolQuintTap  Key = 0x148
	BtnStylus3       Key = 0x149
	BtnTouch         Key = 0x14a
	BtnStylus        Key = 0x14b
	BtnStylus2       Key = 0x14c
	BtnToolDoubleTap Key = 0x14d
	BtnToolTripleTap Key = 0x14e
	BtnToolQuadTap   Key = 0x14f
	BtnGearDown      Key = 0x150
	BtnGearUp        Key = 0x151
)

// Valid reports whether the key is part of the closed key set.
func (k Key) Valid() bool {
	_, ok := keyNames[k]
	return ok
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "Invalid"
}

// KeyFromName resolves a configuration name to a key. Matching is
// case-insensitive and accepts a few common aliases.
func KeyFromName(name string) (Key, bool) {
	k, ok := keysByName[strings.ToLower(name)]
	return k, ok
}

var keyNames = map[Key]string{
	KeyEsc: "Esc", Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",
	KeyMinus: "Minus", KeyEqual: "Equal", KeyBackspace: "Backspace",
	KeyTab: "Tab", KeyQ: "Q", KeyW: "W", KeyE: "E", KeyR: "R", KeyT: "T",
	KeyY: "Y", KeyU: "U", KeyI: "I", KeyO: "O", KeyP: "P",
	KeyLeftBrace: "LeftBrace", KeyRightBrace: "RightBrace", KeyEnter: "Enter",
	KeyLeftCtrl: "LeftCtrl", KeyA: "A", KeyS: "S", KeyD: "D", KeyF: "F",
	KeyG: "G", KeyH: "H", KeyJ: "J", KeyK: "K", KeyL: "L",
	KeySemicolon: "Semicolon", KeyApostrophe: "Apostrophe", KeyGrave: "Grave",
	KeyLeftShift: "LeftShift", KeyBackslash: "Backslash", KeyZ: "Z",
	KeyX: "X", KeyC: "C", KeyV: "V", KeyB: "B", KeyN: "N", KeyM: "M",
	KeyComma: "Comma", KeyDot: "Dot", KeySlash: "Slash",
	KeyRightShift: "RightShift", KeyKpAsterisk: "KpAsterisk",
	KeyLeftAlt: "LeftAlt", KeySpace: "Space", KeyCapsLock: "CapsLock",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5",
	KeyF6: "F6", KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10",
	KeyNumLock: "NumLock", KeyScrollLock: "ScrollLock",
	KeyKp7: "Kp7", KeyKp8: "Kp8", KeyKp9: "Kp9", KeyKpMinus: "KpMinus",
	KeyKp4: "Kp4", KeyKp5: "Kp5", KeyKp6: "Kp6", KeyKpPlus: "KpPlus",
	KeyKp1: "Kp1", KeyKp2: "Kp2", KeyKp3: "Kp3", KeyKp0: "Kp0",
	KeyKpDot: "KpDot", Key102nd: "102nd", KeyF11: "F11", KeyF12: "F12",
	KeyRo: "Ro", KeyKatakana: "Katakana", KeyHiragana: "Hiragana",
	KeyHenkan: "Henkan", KeyKatakanaHiragana: "KatakanaHiragana",
	KeyMuhenkan: "Muhenkan", KeyKpJpComma: "KpJpComma", KeyKpEnter: "KpEnter",
	KeyRightCtrl: "RightCtrl", KeyKpSlash: "KpSlash", KeySysRq: "SysRq",
	KeyRightAlt: "RightAlt", KeyHome: "Home", KeyUp: "Up",
	KeyPageUp: "PageUp", KeyLeft: "Left", KeyRight: "Right", KeyEnd: "End",
	KeyDown: "Down", KeyPageDown: "PageDown", KeyInsert: "Insert",
	KeyDelete: "Delete", KeyMute: "Mute", KeyVolumeDown: "VolumeDown",
	KeyVolumeUp: "VolumeUp", KeyPower: "Power", KeyKpEqual: "KpEqual",
	KeyPause: "Pause", KeyKpComma: "KpComma", KeyLeftMeta: "LeftMeta",
	KeyRightMeta: "RightMeta", KeyCompose: "Compose", KeyStop: "Stop",
	KeyAgain: "Again", KeyProps: "Props", KeyUndo: "Undo", KeyFront: "Front",
	KeyCopy: "Copy", KeyOpen: "Open", KeyPaste: "Paste", KeyFind: "Find",
	KeyCut: "Cut", KeyHelp: "Help", KeyMenu: "Menu", KeyCalc: "Calc",
	KeySleep: "Sleep", KeyWakeUp: "WakeUp", KeyMail: "Mail",
	KeyBookmarks: "Bookmarks", KeyComputer: "Computer", KeyBack: "Back",
	KeyForward: "Forward", KeyNextSong: "NextSong", KeyPlayPause: "PlayPause",
	KeyPreviousSong: "PreviousSong", KeyStopCd: "StopCd",
	KeyHomepage: "Homepage", KeyRefresh: "Refresh",
	KeyF13: "F13", KeyF14: "F14", KeyF15: "F15", KeyF16: "F16",
	KeyF17: "F17", KeyF18: "F18", KeyF19: "F19", KeyF20: "F20",
	KeyF21: "F21", KeyF22: "F22", KeyF23: "F23", KeyF24: "F24",
	KeyMicMute: "MicMute",

	BtnLeft: "BtnLeft", BtnRight: "BtnRight", BtnMiddle: "BtnMiddle",
	BtnSide: "BtnSide", BtnExtra: "BtnExtra", BtnForward: "BtnForward",
	BtnBack: "BtnBack", BtnTask: "BtnTask", BtnTrigger: "BtnTrigger",
	BtnThumb: "BtnThumb", BtnThumb2: "BtnThumb2", BtnTop: "BtnTop",
	BtnTop2: "BtnTop2", BtnPinkie: "BtnPinkie", BtnBase: "BtnBase",
	BtnBase2: "BtnBase2", BtnBase3: "BtnBase3", BtnBase4: "BtnBase4",
	BtnBase5: "BtnBase5", BtnBase6: "BtnBase6", BtnDead: "BtnDead",
	BtnSouth: "BtnSouth", BtnEast: "BtnEast", BtnC: "BtnC",
	BtnNorth: "BtnNorth", BtnWest: "BtnWest", BtnZ: "BtnZ",
	BtnTl: "BtnTl", BtnTr: "BtnTr", BtnTl2: "BtnTl2", BtnTr2: "BtnTr2",
	BtnSelect: "BtnSelect", BtnStart: "BtnStart", BtnMode: "BtnMode",
	BtnThumbL: "BtnThumbL", BtnThumbR: "BtnThumbR",
	BtnToolPen: "BtnToolPen", BtnToolRubber: "BtnToolRubber",
	BtnToolBrush: "BtnToolBrush", BtnToolPencil: "BtnToolPencil",
	BtnToolAirbrush: "BtnToolAirbrush", BtnToolFinger: "BtnToolFinger",
	BtnToolMouse: "BtnToolMouse", BtnToolLens: "BtnToolLens",
	BtnToolQuintTap: "BtnToolQuintTap", BtnStylus3: "BtnStylus3",
	BtnTouch: "BtnTouch", BtnStylus: "BtnStylus", BtnStylus2: "BtnStylus2",
	BtnToolDoubleTap: "BtnToolDoubleTap", BtnToolTripleTap: "BtnToolTripleTap",
	BtnToolQuadTap: "BtnToolQuadTap", BtnGearDown: "BtnGearDown",
	BtnGearUp: "BtnGearUp",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+16)
	for k, name := range keyNames {
		m[strings.ToLower(name)] = k
	}
	for alias, k := range map[string]Key{
		"leftcontrol":  KeyLeftCtrl,
		"rightcontrol": KeyRightCtrl,
		"leftsuper":    KeyLeftMeta,
		"rightsuper":   KeyRightMeta,
		"escape":       KeyEsc,
		"return":       KeyEnter,
		"period":       KeyDot,
		"leftbutton":   BtnLeft,
		"rightbutton":  BtnRight,
		"middlebutton": BtnMiddle,
	} {
		m[alias] = k
	}
	return m
}()
