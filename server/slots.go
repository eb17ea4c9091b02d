/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import (
	"net/netip"
)

// deviceTable hands out dense device ids. Freed ids are reused, but only
// after the core has enqueued DestroyDevice to every connected client, which
// the single-threaded dispatch order guarantees.
type deviceTable struct {
	devices map[uint32]*device
	freed   []uint32
	next    uint32
}

func newDeviceTable() *deviceTable {
	return &deviceTable{devices: make(map[uint32]*device)}
}

func (t *deviceTable) insert(dev *device) uint32 {
	var id uint32
	if n := len(t.freed); n > 0 {
		id = t.freed[n-1]
		t.freed = t.freed[:n-1]
	} else {
		id = t.next
		t.next++
	}
	dev.id = id
	t.devices[id] = dev
	return id
}

func (t *deviceTable) get(id uint32) *device {
	return t.devices[id]
}

func (t *deviceTable) remove(id uint32) {
	if _, ok := t.devices[id]; !ok {
		return
	}
	delete(t.devices, id)
	t.freed = append(t.freed, id)
}

// ids returns the live device ids in ascending order, for deterministic
// snapshots.
func (t *deviceTable) ids() []uint32 {
	ids := make([]uint32, 0, len(t.devices))
	for id := range t.devices {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// clientTable keeps clients in one dense index space. The low indices, one
// per configured static client, are reserved forever: a dead static slot is
// refilled with nil, never removed. Dynamic slots above them are reclaimed
// once their client is gone.
type clientTable struct {
	slots  []*client
	static []netip.Addr
}

func newClientTable(static []netip.Addr) *clientTable {
	return &clientTable{
		slots:  make([]*client, len(static)),
		static: static,
	}
}

// size is the span of the index space, vacant slots included. The switch
// rotation steps through exactly size()+1 targets.
func (t *clientTable) size() int {
	return len(t.slots)
}

func (t *clientTable) get(idx int) *client {
	if idx < 0 || idx >= len(t.slots) {
		return nil
	}
	return t.slots[idx]
}

func (t *clientTable) present(idx int) bool {
	return t.get(idx) != nil
}

// sweep drops clients whose connection task has exited: static slots are
// cleared in place, dynamic slots are vacated and the tail of the index
// space is trimmed.
func (t *clientTable) sweep() {
	for idx, c := range t.slots {
		if c != nil && c.dead() {
			t.slots[idx] = nil
		}
	}
	for len(t.slots) > len(t.static) && t.slots[len(t.slots)-1] == nil {
		t.slots = t.slots[:len(t.slots)-1]
	}
}

// place inserts a freshly accepted client. A peer matching a static address
// takes its reserved slot unless the slot is still occupied, in which case a
// dynamic slot is allocated instead. The second result reports whether the
// reserved slot was stolen that way.
func (t *clientTable) place(addr netip.Addr, c *client) (int, bool) {
	for idx, ip := range t.static {
		if ip != addr {
			continue
		}
		if t.slots[idx] != nil {
			return t.insertDynamic(c), true
		}
		t.slots[idx] = c
		return idx, false
	}
	return t.insertDynamic(c), false
}

func (t *clientTable) insertDynamic(c *client) int {
	for idx := len(t.static); idx < len(t.slots); idx++ {
		if t.slots[idx] == nil {
			t.slots[idx] = c
			return idx
		}
	}
	t.slots = append(t.slots, c)
	return len(t.slots) - 1
}

// remove vacates a slot after a failed send: static slots stay reserved,
// dynamic slots are reclaimed.
func (t *clientTable) remove(idx int) {
	if idx < 0 || idx >= len(t.slots) {
		return
	}
	t.slots[idx] = nil
	for len(t.slots) > len(t.static) && t.slots[len(t.slots)-1] == nil {
		t.slots = t.slots[:len(t.slots)-1]
	}
}
