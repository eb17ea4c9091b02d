/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package client

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Unknow0/rkvm/input"
	"github.com/Unknow0/rkvm/wire"
)

type fakeWriter struct {
	events []input.Event
	closed bool
}

func (w *fakeWriter) Write(event input.Event) error {
	w.events = append(w.events, event)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testReplayer() (*replayer, map[uint32]*fakeWriter) {
	writers := make(map[uint32]*fakeWriter)
	factory := func(u wire.CreateDevice) (EventWriter, error) {
		w := &fakeWriter{}
		writers[u.Id] = w
		return w, nil
	}
	return newReplayer(zerolog.Nop(), factory), writers
}

func TestReplayerDispatch(t *testing.T) {
	r, writers := testReplayer()

	create := wire.CreateDevice{
		Id:   4,
		Name: "remote mouse",
		Rel:  map[input.RelAxis]struct{}{input.RelX: {}},
		Abs:  map[input.AbsAxis]input.AbsInfo{},
		Keys: map[input.Key]struct{}{input.BtnLeft: {}},
	}
	if err := r.apply(create, nil); err != nil {
		t.Fatal(err)
	}
	if writers[4] == nil {
		t.Fatal("factory was not invoked")
	}

	move := wire.Event{Id: 4, Event: input.RelEvent{Axis: input.RelX, Value: -3}}
	sync := wire.Event{Id: 4, Event: input.SyncEvent{Kind: input.SyncAll}}
	if err := r.apply(move, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.apply(sync, nil); err != nil {
		t.Fatal(err)
	}

	if n := len(writers[4].events); n != 2 {
		t.Fatalf("writer saw %d events, want 2", n)
	}

	if err := r.apply(wire.DestroyDevice{Id: 4}, nil); err != nil {
		t.Fatal(err)
	}
	if !writers[4].closed {
		t.Fatal("writer not closed on DestroyDevice")
	}
}

func TestReplayerIgnoresUnknownIds(t *testing.T) {
	r, _ := testReplayer()

	// Events racing a destroyed device are dropped, not fatal.
	err := r.apply(wire.Event{Id: 99, Event: input.RelEvent{Axis: input.RelY, Value: 1}}, nil)
	if err != nil {
		t.Fatalf("event for unknown id: %v", err)
	}

	if err := r.apply(wire.DestroyDevice{Id: 99}, nil); err != nil {
		t.Fatalf("destroy for unknown id: %v", err)
	}
}

func TestReplayerAnswersPing(t *testing.T) {
	r, _ := testReplayer()

	local, remote := net.Pipe()
	defer local.Close()
	defer remote.Close()

	stream := wire.NewStream(local)

	done := make(chan error, 1)
	go func() { done <- r.apply(wire.Ping{}, stream) }()

	remote.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1)
	if _, err := io.ReadFull(remote, buf); err != nil {
		t.Fatal(err)
	}
	if _, err := wire.DecodePong(bytes.NewReader(buf)); err != nil {
		t.Fatalf("server side did not see a pong: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
