/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import (
	"github.com/Unknow0/rkvm/input"
)

// presence abstracts the client table for the state machine: which targets
// exist and how wide the index space is.
type presence interface {
	present(idx int) bool
	size() int
}

// gotoCombo jumps directly to a target when every member key is held.
type gotoCombo struct {
	keys   []input.Key
	target int
}

// switcher decides, per event, which target receives it. Target 0 is the
// server's own machine, target k>0 is the client at slot k-1.
type switcher struct {
	switchKeys map[input.Key]struct{}
	gotoCombos []gotoCombo
	allKeys    map[input.Key]struct{}
	propagate  bool

	current  int
	previous int
	changed  bool
	pressed  map[input.Key]struct{}
}

func newSwitcher(switchKeys, serverGoto []input.Key, clientGoto [][]input.Key, propagate bool) *switcher {
	s := &switcher{
		switchKeys: make(map[input.Key]struct{}, len(switchKeys)),
		allKeys:    make(map[input.Key]struct{}),
		propagate:  propagate,
		pressed:    make(map[input.Key]struct{}),
	}

	for _, key := range switchKeys {
		s.switchKeys[key] = struct{}{}
		s.allKeys[key] = struct{}{}
	}

	addCombo := func(keys []input.Key, target int) {
		if len(keys) == 0 {
			return
		}
		s.gotoCombos = append(s.gotoCombos, gotoCombo{keys: keys, target: target})
		for _, key := range keys {
			s.allKeys[key] = struct{}{}
		}
	}

	addCombo(serverGoto, 0)
	for idx, keys := range clientGoto {
		addCombo(keys, idx+1)
	}

	return s
}

// decision is the outcome of feeding one event through the state machine.
type decision struct {
	target    int
	drop      bool
	syncAfter bool
	switched  bool
}

// handle updates the switching state and picks the destination for event.
// Key-ups of the chord that triggered a switch keep flowing to the
// pre-switch target until the chord is fully released.
func (s *switcher) handle(event input.Event, clients presence) decision {
	press := false

	if key, ok := event.(input.KeyEvent); ok {
		if _, tracked := s.allKeys[key.Key]; tracked {
			press = true
			if key.Down {
				s.pressed[key.Key] = struct{}{}
			} else {
				delete(s.pressed, key.Key)
			}
		}
	}

	target := s.current
	switched := false

	if press {
		if s.changed {
			target = s.previous
			if len(s.pressed) == 0 {
				s.changed = false
			}
		} else {
			for _, combo := range s.gotoCombos {
				if !s.exists(combo.target, clients) || !s.held(combo.keys) {
					continue
				}
				s.previous = s.current
				s.current = combo.target
				s.changed = true
				switched = true
				break
			}

			if !s.changed && s.subsetPressed(s.switchKeys) {
				s.previous = s.current
				for {
					s.current = (s.current + 1) % (clients.size() + 1)
					if s.exists(s.current, clients) {
						break
					}
				}
				s.changed = true
				switched = true
			}
		}
	}

	return decision{
		target:    target,
		drop:      press && !s.propagate,
		syncAfter: press,
		switched:  switched,
	}
}

// ensureValid resets the active target to the local machine when its slot
// has vanished.
func (s *switcher) ensureValid(clients presence) {
	if !s.exists(s.current, clients) {
		s.current = 0
	}
}

// targetGone records that the client at target idx died mid-route.
func (s *switcher) targetGone(idx int) {
	if s.current == idx {
		s.current = 0
	}
}

func (s *switcher) exists(idx int, clients presence) bool {
	return idx == 0 || clients.present(idx-1)
}

func (s *switcher) held(keys []input.Key) bool {
	for _, key := range keys {
		if _, ok := s.pressed[key]; !ok {
			return false
		}
	}
	return true
}

func (s *switcher) subsetPressed(keys map[input.Key]struct{}) bool {
	if len(keys) == 0 {
		return false
	}
	for key := range keys {
		if _, ok := s.pressed[key]; !ok {
			return false
		}
	}
	return true
}
