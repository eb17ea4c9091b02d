/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package wire

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/Unknow0/rkvm/input"
)

func roundTrip(t *testing.T, u Update) Update {
	t.Helper()

	var buf bytes.Buffer
	if err := u.Encode(&buf); err != nil {
		t.Fatalf("encode %T: %v", u, err)
	}

	decoded, err := DecodeUpdate(&buf)
	if err != nil {
		t.Fatalf("decode %T: %v", u, err)
	}
	if buf.Len() != 0 {
		t.Fatalf("decode %T left %d trailing bytes", u, buf.Len())
	}
	return decoded
}

func TestUpdateRoundTrip(t *testing.T) {
	delay := int32(250)
	period := int32(33)

	updates := []Update{
		CreateDevice{
			Id:      7,
			Name:    "Example Keyboard",
			Vendor:  0x046d,
			Product: 0xc31c,
			Version: 0x0111,
			Rel: map[input.RelAxis]struct{}{
				input.RelX:     {},
				input.RelY:     {},
				input.RelWheel: {},
			},
			Abs: map[input.AbsAxis]input.AbsInfo{
				input.AbsX: {Min: 0, Max: 32767, Fuzz: 0, Flat: 0, Resolution: 100},
				input.AbsPressure: {Min: 0, Max: 8191},
			},
			Keys: map[input.Key]struct{}{
				input.KeyA:       {},
				input.KeyLeftCtrl: {},
				input.BtnLeft:    {},
			},
			Delay:  &delay,
			Period: &period,
		},
		CreateDevice{
			Id:   0,
			Name: "",
			Rel:  map[input.RelAxis]struct{}{},
			Abs:  map[input.AbsAxis]input.AbsInfo{},
			Keys: map[input.Key]struct{}{},
		},
		DestroyDevice{Id: 3},
		Event{Id: 1, Event: input.KeyEvent{Key: input.KeyEnter, Down: true}},
		Event{Id: 1, Event: input.KeyEvent{Key: input.BtnRight, Down: false}},
		Event{Id: 2, Event: input.RelEvent{Axis: input.RelX, Value: -5}},
		Event{Id: 2, Event: input.AbsAxisEvent{Axis: input.AbsMtPositionX, Value: 1024}},
		Event{Id: 2, Event: input.AbsToolEvent{Tool: input.ToolPen}},
		Event{Id: 9, Event: input.SyncEvent{Kind: input.SyncAll}},
		Ping{},
	}

	for _, u := range updates {
		decoded := roundTrip(t, u)
		if !reflect.DeepEqual(u, decoded) {
			t.Errorf("round trip of %#v produced %#v", u, decoded)
		}
	}
}

func TestDecodeUnknownTags(t *testing.T) {
	cases := [][]byte{
		{0xff},             // unknown update tag
		{2, 1, 0, 0, 0, 9}, // unknown event tag
		{2, 1, 0, 0, 0, 0, 0xff, 0xff, 1}, // key outside the closed set
		{2, 1, 0, 0, 0, 0, 28, 0, 7},      // bool that is neither 0 nor 1
		{2, 1, 0, 0, 0, 2, 2},             // unknown abs sub-tag
		{2, 1, 0, 0, 0, 3, 1, 0},          // SYN_CONFIG is not forwarded
	}

	for _, raw := range cases {
		if _, err := DecodeUpdate(bytes.NewReader(raw)); !errors.Is(err, ErrUnknownTag) {
			t.Errorf("decode of % x: got %v, want ErrUnknownTag", raw, err)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	u := Event{Id: 4, Event: input.RelEvent{Axis: input.RelY, Value: 12}}
	if err := u.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	for i := 1; i < len(raw); i++ {
		_, err := DecodeUpdate(bytes.NewReader(raw[:i]))
		if err == nil {
			t.Fatalf("decode of %d/%d bytes succeeded", i, len(raw))
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			t.Fatalf("decode of %d/%d bytes: %v", i, len(raw), err)
		}
	}
}

func TestDecodeOversizedCollection(t *testing.T) {
	var buf bytes.Buffer
	writeU8(&buf, tagCreateDevice)
	writeU32(&buf, 1)
	writeU32(&buf, 1<<31) // name length

	if _, err := DecodeUpdate(&buf); err == nil {
		t.Fatal("oversized name length must not decode")
	}
}

func TestVersionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Current.Encode(&buf); err != nil {
		t.Fatal(err)
	}

	v, err := DecodeVersion(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if v != Current {
		t.Fatalf("got %v, want %v", v, Current)
	}
}

func TestPongRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := (Pong{}).Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodePong(&buf); err != nil {
		t.Fatal(err)
	}

	if _, err := DecodePong(bytes.NewReader([]byte{0x00})); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("bad pong byte: got %v, want ErrUnknownTag", err)
	}
}
