/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package input

import "testing"

func TestKeyFromName(t *testing.T) {
	cases := []struct {
		name string
		key  Key
		ok   bool
	}{
		{"LeftCtrl", KeyLeftCtrl, true},
		{"leftctrl", KeyLeftCtrl, true},
		{"LeftControl", KeyLeftCtrl, true},
		{"RIGHTCTRL", KeyRightCtrl, true},
		{"F1", KeyF1, true},
		{"f12", KeyF12, true},
		{"BtnLeft", BtnLeft, true},
		{"LeftButton", BtnLeft, true},
		{"Escape", KeyEsc, true},
		{"Return", KeyEnter, true},
		{"NoSuchKey", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		key, ok := KeyFromName(c.name)
		if ok != c.ok {
			t.Fatalf("KeyFromName(%q) ok = %v, want %v", c.name, ok, c.ok)
		}
		if ok && key != c.key {
			t.Fatalf("KeyFromName(%q) = %v, want %v", c.name, key, c.key)
		}
	}
}

func TestKeyNamesRoundTrip(t *testing.T) {
	for key, name := range keyNames {
		back, ok := KeyFromName(name)
		if !ok {
			t.Fatalf("name %q of key %d does not resolve", name, key)
		}
		if back != key {
			t.Fatalf("name %q resolves to %d, want %d", name, back, key)
		}
	}
}

func TestClosedEnums(t *testing.T) {
	if Key(0).Valid() {
		t.Error("key 0 must not be valid")
	}
	if Key(0xffff).Valid() {
		t.Error("key 0xffff must not be valid")
	}
	if RelAxis(0x0a).Valid() {
		t.Error("REL_RESERVED must not be valid")
	}
	if AbsAxis(absMtToolType).Valid() {
		t.Error("ABS_MT_TOOL_TYPE must not be a plain axis")
	}
	if SyncKind(1).Valid() {
		t.Error("SYN_CONFIG must not be valid")
	}
	if ToolType(3).Valid() {
		t.Error("tool 3 must not be valid")
	}
	if !ToolDial.Valid() {
		t.Error("ToolDial must be valid")
	}
}
