/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

// Package server implements the rkvm switching core: a single-goroutine
// dispatcher that owns the device and client registries and the switching
// state, fed by per-device capture tasks and draining into per-client
// connection tasks over bounded channels.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/rs/zerolog"

	"github.com/Unknow0/rkvm/config"
	"github.com/Unknow0/rkvm/input"
	"github.com/Unknow0/rkvm/wire"
)

// ErrOverflow reports a full local write-back queue. The back edge to a
// device is never allowed to block, so a full queue means the system is
// badly overloaded or misconfigured.
var ErrOverflow = errors.New("event queue overflow")

// Interceptor is a bidirectional handle to one physical input device.
type Interceptor interface {
	Read() (input.Event, error)
	Write(event input.Event) error
	Close() error
	Name() string
	Vendor() uint16
	Product() uint16
	Version() uint16
	Rel() map[input.RelAxis]struct{}
	Abs() map[input.AbsAxis]input.AbsInfo
	Keys() map[input.Key]struct{}
	Repeat() input.Repeat
}

// Monitor surfaces each hot-plugged input device exactly once.
type Monitor interface {
	Read(ctx context.Context) (Interceptor, error)
}

// Run drives the switching core until a fatal error or context
// cancellation. Per-client failures are contained; device unplugs are
// normal; everything else tears the server down.
func Run(ctx context.Context, log zerolog.Logger, listener net.Listener, acceptor *tls.Config, monitor Monitor, cfg *config.Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	static := make([]netip.Addr, 0, len(cfg.Clients))
	clientGoto := make([][]input.Key, 0, len(cfg.Clients))
	for _, c := range cfg.Clients {
		static = append(static, c.Addr.Addr)
		clientGoto = append(clientGoto, c.GotoKeys)
	}

	c := &core{
		log:      log,
		acceptor: acceptor,
		password: cfg.Password,
		sw:       newSwitcher(cfg.SwitchKeys, cfg.ServerGotoKeys, clientGoto, cfg.PropagateSwitchKeys),
		devices:  newDeviceTable(),
		clients:  newClientTable(static),
		events:   make(chan deviceEvent, eventQueueDepth),
	}

	accepts := make(chan net.Conn)
	intrs := make(chan Interceptor)
	fatal := make(chan error, 2)

	go acceptLoop(ctx, listener, accepts, fatal)
	go monitorLoop(ctx, monitor, intrs, fatal)

	log.Info().Stringer("addr", listener.Addr()).Msg("Listening")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-fatal:
			return err
		case conn := <-accepts:
			c.accept(ctx, conn)
		case intr := <-intrs:
			c.register(ctx, intr)
		case event := <-c.events:
			if err := c.dispatch(ctx, event); err != nil {
				return err
			}
		}
	}
}

func acceptLoop(ctx context.Context, listener net.Listener, accepts chan<- net.Conn, fatal chan<- error) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case fatal <- fmt.Errorf("network: %w", err):
			case <-ctx.Done():
			}
			return
		}

		select {
		case accepts <- conn:
		case <-ctx.Done():
			conn.Close()
			return
		}
	}
}

func monitorLoop(ctx context.Context, monitor Monitor, intrs chan<- Interceptor, fatal chan<- error) {
	for {
		intr, err := monitor.Read(ctx)
		if err != nil {
			select {
			case fatal <- fmt.Errorf("input: %w", err):
			case <-ctx.Done():
			}
			return
		}

		select {
		case intrs <- intr:
		case <-ctx.Done():
			intr.Close()
			return
		}
	}
}

// core owns all mutable switching state. Only the Run goroutine touches it,
// so none of it is locked.
type core struct {
	log      zerolog.Logger
	acceptor *tls.Config
	password string
	sw       *switcher
	devices  *deviceTable
	clients  *clientTable
	events   chan deviceEvent
}

// accept folds a fresh socket into the client registry and spawns its
// connection task with a snapshot of the current device set.
func (c *core) accept(ctx context.Context, conn net.Conn) {
	c.clients.sweep()
	c.sw.ensureValid(c.clients)

	snapshot := make([]wire.Update, 0, len(c.devices.devices))
	for _, id := range c.devices.ids() {
		snapshot = append(snapshot, c.devices.get(id).createUpdate())
	}

	cl := newClient(conn.RemoteAddr())

	addr := peerAddr(conn)
	idx, stolen := c.clients.place(addr, cl)
	if stolen {
		c.log.Warn().Stringer("addr", conn.RemoteAddr()).Msg("Client already connected, allocating a dynamic slot")
	}

	log := c.log.With().Stringer("addr", conn.RemoteAddr()).Int("idx", idx).Logger()
	metricClientsAccepted.Inc()

	go func() {
		log.Info().Msg("Connected")

		if err := cl.run(ctx, conn, c.acceptor, c.password, snapshot, log); err != nil {
			log.Error().Err(err).Msg("Disconnected")
			return
		}
		log.Info().Msg("Disconnected")
	}()
}

// register assigns an id to a new device, mirrors it to every connected
// client and spawns its capture task.
func (c *core) register(ctx context.Context, intr Interceptor) {
	dev := newDevice(intr)
	id := c.devices.insert(dev)

	c.broadcast(ctx, dev.createUpdate())

	go dev.capture(ctx, intr, c.events)
	metricDevicesRegistered.Inc()

	c.log.Info().
		Uint32("id", id).
		Str("name", dev.name).
		Uint16("vendor", dev.vendor).
		Uint16("product", dev.product).
		Uint16("version", dev.version).
		Msg("Registered new device")
}

// dispatch consumes one item off the central queue.
func (c *core) dispatch(ctx context.Context, event deviceEvent) error {
	if event.err != nil {
		if errors.Is(event.err, input.ErrClosed) {
			c.broadcast(ctx, wire.DestroyDevice{Id: event.id})
			c.devices.remove(event.id)

			c.log.Info().Uint32("id", event.id).Msg("Destroyed device")
			return nil
		}
		return fmt.Errorf("input: %w", event.err)
	}

	decision := c.sw.handle(event.event, c.clients)
	if decision.switched {
		metricSwitches.Inc()
		logEvent := c.log.Info().Int("idx", c.sw.current)
		if c.sw.current != 0 {
			if target := c.clients.get(c.sw.current - 1); target != nil {
				logEvent = logEvent.Stringer("addr", target.addr)
			}
		}
		logEvent.Msg("Switched client")
	}

	if decision.drop {
		metricEventsDropped.Inc()
		return nil
	}

	events := []input.Event{event.event}
	if decision.syncAfter {
		events = append(events, input.SyncEvent{Kind: input.SyncAll})
	}

	if decision.target == 0 {
		return c.routeLocal(event.id, events)
	}
	c.routeRemote(ctx, event.id, decision.target, events)
	return nil
}

// routeLocal writes events back to the device they came from. The capture
// task producing our input is also the consumer of this back edge, so the
// send must never block: a full queue is a hard Overflow error rather than
// a deadlock.
func (c *core) routeLocal(id uint32, events []input.Event) error {
	dev := c.devices.get(id)
	if dev == nil {
		return nil
	}

	for _, event := range events {
		select {
		case dev.writes <- event:
			metricEventsLocal.Inc()
		case <-dev.stop:
			// Device is dying; the BrokenPipe arrives on the central
			// queue shortly.
			return nil
		default:
			return fmt.Errorf("device %d: %w", id, ErrOverflow)
		}
	}

	return nil
}

// routeRemote forwards events to one client. It blocks on that client's
// bounded queue, and while it waits the core services no other source; the
// wait ends when the client takes the update, its connection task exits or
// ctx is cancelled. A vanished client is detected and reaped on the spot.
func (c *core) routeRemote(ctx context.Context, id uint32, target int, events []input.Event) {
	idx := target - 1
	cl := c.clients.get(idx)
	if cl == nil {
		return
	}

	for _, event := range events {
		if cl.dead() {
			c.clients.remove(idx)
			c.sw.targetGone(target)
			return
		}

		select {
		case cl.updates <- wire.Event{Id: id, Event: event}:
			metricEventsRemote.Inc()
		case <-cl.stop:
			c.clients.remove(idx)
			c.sw.targetGone(target)
			return
		case <-ctx.Done():
			return
		}
	}
}

// broadcast enqueues an update for every present client. Clients that died
// since the last sweep are skipped; they get reaped on their next event or
// accept.
func (c *core) broadcast(ctx context.Context, update wire.Update) {
	for idx := 0; idx < c.clients.size(); idx++ {
		cl := c.clients.get(idx)
		if cl == nil {
			continue
		}

		select {
		case cl.updates <- update:
		case <-cl.stop:
		case <-ctx.Done():
			return
		}
	}
}

func peerAddr(conn net.Conn) netip.Addr {
	if tcp, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		return tcp.AddrPort().Addr().Unmap()
	}
	return netip.Addr{}
}
