/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Unknow0/rkvm/input"
)

type fakeClients []bool

func (f fakeClients) present(idx int) bool {
	return idx >= 0 && idx < len(f) && f[idx]
}

func (f fakeClients) size() int {
	return len(f)
}

func press(s *switcher, clients presence, key input.Key) decision {
	return s.handle(input.KeyEvent{Key: key, Down: true}, clients)
}

func release(s *switcher, clients presence, key input.Key) decision {
	return s.handle(input.KeyEvent{Key: key, Down: false}, clients)
}

func TestSwitcherRotate(t *testing.T) {
	Convey("Given one connected client and a two key switch chord", t, func() {
		clients := fakeClients{true}
		s := newSwitcher([]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl}, nil, nil, false)

		Convey("A half-held chord does not switch", func() {
			d := press(s, clients, input.KeyLeftCtrl)
			So(d.switched, ShouldBeFalse)
			So(d.drop, ShouldBeTrue)
			So(s.current, ShouldEqual, 0)
		})

		Convey("Completing the chord rotates to the client", func() {
			press(s, clients, input.KeyLeftCtrl)
			d := press(s, clients, input.KeyRightCtrl)

			So(d.switched, ShouldBeTrue)
			So(s.current, ShouldEqual, 1)
			Convey("and the switch press itself targets the pre-switch machine", func() {
				So(d.target, ShouldEqual, 0)
			})

			Convey("Key-ups drain to the pre-switch target", func() {
				up := release(s, clients, input.KeyLeftCtrl)
				So(up.target, ShouldEqual, 0)
				So(s.changed, ShouldBeTrue)

				up = release(s, clients, input.KeyRightCtrl)
				So(up.target, ShouldEqual, 0)
				So(s.changed, ShouldBeFalse)

				Convey("Ordinary events then flow to the new target", func() {
					d := s.handle(input.RelEvent{Axis: input.RelX, Value: 5}, clients)
					So(d.target, ShouldEqual, 1)
					So(d.drop, ShouldBeFalse)
					So(d.syncAfter, ShouldBeFalse)
				})

				Convey("A second chord rotates back home", func() {
					press(s, clients, input.KeyLeftCtrl)
					d := press(s, clients, input.KeyRightCtrl)
					So(d.switched, ShouldBeTrue)
					So(s.current, ShouldEqual, 0)
				})
			})
		})

		Convey("Holding the chord switches at most once", func() {
			press(s, clients, input.KeyLeftCtrl)
			press(s, clients, input.KeyRightCtrl)
			So(s.current, ShouldEqual, 1)

			// Re-press a chord member without ever fully releasing.
			release(s, clients, input.KeyLeftCtrl)
			d := press(s, clients, input.KeyLeftCtrl)
			So(d.switched, ShouldBeFalse)
			So(s.current, ShouldEqual, 1)
		})
	})
}

func TestSwitcherRotateSkipsVacantSlots(t *testing.T) {
	Convey("Given a dead static slot before a live client", t, func() {
		clients := fakeClients{false, true}
		s := newSwitcher([]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl}, nil, nil, false)

		press(s, clients, input.KeyLeftCtrl)
		press(s, clients, input.KeyRightCtrl)

		Convey("The rotation lands on the live client", func() {
			So(s.current, ShouldEqual, 2)
		})
	})

	Convey("With no clients at all the rotation stays local", t, func() {
		clients := fakeClients{}
		s := newSwitcher([]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl}, nil, nil, false)

		press(s, clients, input.KeyLeftCtrl)
		d := press(s, clients, input.KeyRightCtrl)

		So(d.switched, ShouldBeTrue)
		So(s.current, ShouldEqual, 0)
	})
}

func TestSwitcherGoto(t *testing.T) {
	Convey("Given clients A and B with goto chords", t, func() {
		clients := fakeClients{true, true}
		s := newSwitcher(
			[]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl},
			[]input.Key{input.KeyF1},
			[][]input.Key{nil, {input.KeyF2}},
			false,
		)
		s.current = 1

		Convey("F2 jumps straight to B, bypassing rotate order", func() {
			d := press(s, clients, input.KeyF2)
			So(d.switched, ShouldBeTrue)
			So(s.current, ShouldEqual, 2)
			So(d.target, ShouldEqual, 1)

			release(s, clients, input.KeyF2)

			Convey("and F1 jumps back to the server machine", func() {
				press(s, clients, input.KeyF1)
				So(s.current, ShouldEqual, 0)
			})
		})

		Convey("A goto chord for a vanished client is ignored", func() {
			gone := fakeClients{true, false}
			d := press(s, gone, input.KeyF2)
			So(d.switched, ShouldBeFalse)
			So(s.current, ShouldEqual, 1)
		})
	})
}

func TestSwitcherPropagation(t *testing.T) {
	Convey("With propagate_switch_keys enabled", t, func() {
		clients := fakeClients{true}
		s := newSwitcher([]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl}, nil, nil, true)

		Convey("Chord events are routed and followed by a sync boundary", func() {
			d := press(s, clients, input.KeyLeftCtrl)
			So(d.drop, ShouldBeFalse)
			So(d.syncAfter, ShouldBeTrue)
			So(d.target, ShouldEqual, 0)

			d = press(s, clients, input.KeyRightCtrl)
			So(d.drop, ShouldBeFalse)
			So(d.target, ShouldEqual, 0)

			Convey("and chord key-ups go to the pre-switch target", func() {
				d := release(s, clients, input.KeyLeftCtrl)
				So(d.target, ShouldEqual, 0)
				So(d.drop, ShouldBeFalse)
			})
		})
	})

	Convey("With propagation disabled, chord events never route", t, func() {
		clients := fakeClients{true}
		s := newSwitcher([]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl}, nil, nil, false)

		So(press(s, clients, input.KeyLeftCtrl).drop, ShouldBeTrue)
		So(press(s, clients, input.KeyRightCtrl).drop, ShouldBeTrue)
		So(release(s, clients, input.KeyLeftCtrl).drop, ShouldBeTrue)

		Convey("while unrelated keys still flow", func() {
			d := s.handle(input.KeyEvent{Key: input.KeyA, Down: true}, clients)
			So(d.drop, ShouldBeFalse)
			So(d.syncAfter, ShouldBeFalse)
		})
	})
}

func TestSwitcherDisconnectDuringActive(t *testing.T) {
	Convey("Given the active target disappears mid-route", t, func() {
		clients := fakeClients{true, true}
		s := newSwitcher([]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl}, nil, nil, false)
		s.current = 2

		s.targetGone(2)

		Convey("The active target falls back to the local machine", func() {
			So(s.current, ShouldEqual, 0)
			d := s.handle(input.RelEvent{Axis: input.RelY, Value: 1}, clients)
			So(d.target, ShouldEqual, 0)
		})
	})

	Convey("ensureValid resets a vanished current after a sweep", t, func() {
		s := newSwitcher([]input.Key{input.KeyLeftCtrl}, nil, nil, false)
		s.current = 3

		s.ensureValid(fakeClients{true, false, false})
		So(s.current, ShouldEqual, 0)

		s.current = 1
		s.ensureValid(fakeClients{true, false, false})
		So(s.current, ShouldEqual, 1)
	})
}

// Current never points at a vacant slot, whatever the event stream does.
func TestSwitcherTargetAlwaysExists(t *testing.T) {
	clients := fakeClients{true, false, true}
	s := newSwitcher(
		[]input.Key{input.KeyLeftCtrl, input.KeyRightCtrl},
		[]input.Key{input.KeyF1},
		[][]input.Key{{input.KeyF2}, nil, {input.KeyF3}},
		true,
	)

	keys := []input.Key{
		input.KeyLeftCtrl, input.KeyRightCtrl, input.KeyF1,
		input.KeyF2, input.KeyF3, input.KeyA,
	}

	step := 0
	for i := 0; i < 2000; i++ {
		key := keys[(i*7+step)%len(keys)]
		down := (i*13)%3 != 0
		step += i % 5

		s.handle(input.KeyEvent{Key: key, Down: down}, clients)

		if !s.exists(s.current, clients) {
			t.Fatalf("step %d: current %d points at a vacant slot", i, s.current)
		}
		for key := range s.pressed {
			if _, ok := s.allKeys[key]; !ok {
				t.Fatalf("step %d: pressed tracks untracked key %v", i, key)
			}
		}
	}
}
