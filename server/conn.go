/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/Unknow0/rkvm/wire"
)

// Per-client outbound queue depth. Depth one means a slow client
// backpressures the core as soon as a second update is routed to it; the
// core waits on that client before taking its next item.
const clientQueueDepth = 1

// client is the core's handle to one connection task.
type client struct {
	updates chan wire.Update
	stop    chan struct{} // closed once the connection task is gone
	addr    net.Addr
}

func newClient(addr net.Addr) *client {
	return &client{
		updates: make(chan wire.Update, clientQueueDepth),
		stop:    make(chan struct{}),
		addr:    addr,
	}
}

func (c *client) dead() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

// run services one client socket: TLS, version gate, authentication, the
// initial device snapshot, then updates interleaved with pings. Any error
// ends the session; the core notices through the stop channel.
func (c *client) run(ctx context.Context, conn net.Conn, acceptor *tls.Config, password string, snapshot []wire.Update, log zerolog.Logger) error {
	defer close(c.stop)
	defer conn.Close()

	tlsConn := tls.Server(conn, acceptor)

	handshakeCtx, cancel := context.WithTimeout(ctx, wire.TLSTimeout)
	err := tlsConn.HandshakeContext(handshakeCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("TLS accept: %w", err)
	}

	log.Info().Msg("TLS connected")

	stream := wire.NewStream(tlsConn)
	if err := c.handshake(stream, password, log); err != nil {
		return err
	}

	ticker := time.NewTicker(wire.PingInterval)
	defer ticker.Stop()

	for {
		update, err := c.next(ctx, ticker, &snapshot)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := stream.Encode(wire.WriteTimeout, update.Encode); err != nil {
			return fmt.Errorf("write update: %w", err)
		}

		if _, isPing := update.(wire.Ping); isPing {
			log.Debug().Dur("duration", time.Since(start)).Msg("Sent ping")

			start = time.Now()
			err := stream.Decode(wire.ReadTimeout, func(r io.Reader) error {
				_, err := wire.DecodePong(r)
				return err
			})
			if err != nil {
				return fmt.Errorf("read pong: %w", err)
			}

			log.Debug().Dur("duration", time.Since(start)).Msg("Received pong")
		}
	}
}

// next picks the update to send. The ping tick takes priority over queued
// updates so an event flood cannot starve the keepalive.
func (c *client) next(ctx context.Context, ticker *time.Ticker, snapshot *[]wire.Update) (wire.Update, error) {
	select {
	case <-ticker.C:
		return wire.Ping{}, nil
	default:
	}

	if len(*snapshot) > 0 {
		update := (*snapshot)[0]
		*snapshot = (*snapshot)[1:]
		return update, nil
	}

	select {
	case <-ticker.C:
		return wire.Ping{}, nil
	case update := <-c.updates:
		return update, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *client) handshake(stream *wire.Stream, password string, log zerolog.Logger) error {
	if err := stream.Encode(wire.WriteTimeout, wire.Current.Encode); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	var version wire.Version
	err := stream.Decode(wire.ReadTimeout, func(r io.Reader) error {
		var err error
		version, err = wire.DecodeVersion(r)
		return err
	})
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version != wire.Current {
		return fmt.Errorf("incompatible client version (got %v, expected %v)", version, wire.Current)
	}

	challenge, err := wire.GenerateChallenge()
	if err != nil {
		return err
	}

	if err := stream.Encode(wire.WriteTimeout, challenge.Encode); err != nil {
		return fmt.Errorf("write challenge: %w", err)
	}

	var response wire.AuthResponse
	err = stream.Decode(wire.ReadTimeout, func(r io.Reader) error {
		var err error
		response, err = wire.DecodeResponse(r)
		return err
	})
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	status := wire.AuthFailed
	if challenge.Verify(response, password) {
		status = wire.AuthPassed
	}

	if err := stream.Encode(wire.WriteTimeout, status.Encode); err != nil {
		return fmt.Errorf("write auth status: %w", err)
	}

	if status == wire.AuthFailed {
		return fmt.Errorf("invalid password")
	}

	log.Info().Msg("Authenticated successfully")
	return nil
}
