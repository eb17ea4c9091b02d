/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import (
	"net/netip"
	"testing"
)

func TestDeviceTableReusesFreedIds(t *testing.T) {
	table := newDeviceTable()

	a := table.insert(&device{})
	b := table.insert(&device{})
	c := table.insert(&device{})
	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("ids = %d,%d,%d, want 0,1,2", a, b, c)
	}

	table.remove(b)
	if table.get(b) != nil {
		t.Fatal("removed device still present")
	}

	d := table.insert(&device{})
	if d != b {
		t.Fatalf("freed id not reused: got %d, want %d", d, b)
	}

	ids := table.ids()
	if len(ids) != 3 || ids[0] != 0 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("ids() = %v", ids)
	}
}

func TestClientTableStaticPlacement(t *testing.T) {
	static := []netip.Addr{
		netip.MustParseAddr("10.0.0.1"),
		netip.MustParseAddr("10.0.0.2"),
	}
	table := newClientTable(static)

	if table.size() != 2 {
		t.Fatalf("size = %d, want 2", table.size())
	}

	a := newClient(nil)
	idx, stolen := table.place(netip.MustParseAddr("10.0.0.2"), a)
	if idx != 1 || stolen {
		t.Fatalf("place static = %d,%v, want 1,false", idx, stolen)
	}

	// The reserved slot is still held, so a second connection from the
	// same address falls through to a dynamic slot.
	b := newClient(nil)
	idx, stolen = table.place(netip.MustParseAddr("10.0.0.2"), b)
	if idx != 2 || !stolen {
		t.Fatalf("place duplicate static = %d,%v, want 2,true", idx, stolen)
	}

	c := newClient(nil)
	idx, stolen = table.place(netip.MustParseAddr("192.168.1.9"), c)
	if idx != 3 || stolen {
		t.Fatalf("place dynamic = %d,%v, want 3,false", idx, stolen)
	}
}

func TestClientTableSweep(t *testing.T) {
	static := []netip.Addr{netip.MustParseAddr("10.0.0.1")}
	table := newClientTable(static)

	a := newClient(nil)
	table.place(netip.MustParseAddr("10.0.0.1"), a)
	b := newClient(nil)
	table.place(netip.MustParseAddr("10.0.0.9"), b)

	close(a.stop)
	close(b.stop)
	table.sweep()

	// The static slot stays reserved but empty; the dynamic tail is
	// trimmed.
	if table.size() != 1 {
		t.Fatalf("size after sweep = %d, want 1", table.size())
	}
	if table.present(0) {
		t.Fatal("dead static client still present")
	}

	// The reserved slot is usable again.
	c := newClient(nil)
	idx, stolen := table.place(netip.MustParseAddr("10.0.0.1"), c)
	if idx != 0 || stolen {
		t.Fatalf("re-place static = %d,%v, want 0,false", idx, stolen)
	}
}

func TestClientTableRemove(t *testing.T) {
	static := []netip.Addr{netip.MustParseAddr("10.0.0.1")}
	table := newClientTable(static)

	a := newClient(nil)
	table.place(netip.MustParseAddr("10.0.0.1"), a)
	b := newClient(nil)
	table.place(netip.MustParseAddr("10.0.0.8"), b)
	c := newClient(nil)
	table.place(netip.MustParseAddr("10.0.0.9"), c)

	table.remove(1)
	if table.size() != 3 {
		t.Fatalf("size = %d, want 3 while a later dynamic slot lives", table.size())
	}

	// Vacated dynamic slots are refilled lowest-first.
	d := newClient(nil)
	idx, _ := table.place(netip.MustParseAddr("10.0.0.7"), d)
	if idx != 1 {
		t.Fatalf("place after remove = %d, want 1", idx)
	}

	table.remove(2)
	table.remove(1)
	if table.size() != 1 {
		t.Fatalf("size = %d, want 1 after trimming the dynamic tail", table.size())
	}
}
