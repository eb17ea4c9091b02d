/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

// Package client implements the rkvm replay loop: it connects to a server,
// authenticates, then mirrors the server's devices as local synthetic ones
// and replays forwarded events onto them.
package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Unknow0/rkvm/config"
	"github.com/Unknow0/rkvm/input"
	"github.com/Unknow0/rkvm/wire"
)

// EventWriter is a handle to one synthetic device.
type EventWriter interface {
	Write(event input.Event) error
	Close() error
}

// WriterFactory builds the synthetic device described by a CreateDevice
// update.
type WriterFactory func(update wire.CreateDevice) (EventWriter, error)

// Run connects to the server and replays its update stream until the
// connection fails or ctx is cancelled.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Client, factory WriterFactory) error {
	tlsConf, err := tlsConfig(cfg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Hostname, strconv.Itoa(int(cfg.Port)))
	dialer := &net.Dialer{Timeout: wire.TLSTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConf)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	// Unblock the read loop when the context goes away.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Info().Str("addr", addr).Msg("Connected")

	stream := wire.NewStream(conn)
	if err := handshake(stream, cfg.Password); err != nil {
		return err
	}

	log.Info().Msg("Authenticated successfully")

	r := newReplayer(log, factory)
	defer r.close()

	for {
		var update wire.Update
		err := stream.Decode(wire.ReadTimeout, func(rd io.Reader) error {
			var err error
			update, err = wire.DecodeUpdate(rd)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read update: %w", err)
		}

		if err := r.apply(update, stream); err != nil {
			return err
		}
	}
}

func handshake(stream *wire.Stream, password string) error {
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
		return fmt.Errorf("incompatible server version (got %v, expected %v)", version, wire.Current)
	}

	var challenge wire.AuthChallenge
	err = stream.Decode(wire.ReadTimeout, func(r io.Reader) error {
		var err error
		challenge, err = wire.DecodeChallenge(r)
		return err
	})
	if err != nil {
		return fmt.Errorf("read challenge: %w", err)
	}

	response := challenge.Respond(password)
	if err := stream.Encode(wire.WriteTimeout, response.Encode); err != nil {
		return fmt.Errorf("write auth response: %w", err)
	}

	var status wire.AuthStatus
	err = stream.Decode(wire.ReadTimeout, func(r io.Reader) error {
		var err error
		status, err = wire.DecodeStatus(r)
		return err
	})
	if err != nil {
		return fmt.Errorf("read auth status: %w", err)
	}
	if status != wire.AuthPassed {
		return fmt.Errorf("server rejected the password")
	}

	return nil
}

// replayer tracks the synthetic devices by server-assigned id.
type replayer struct {
	log     zerolog.Logger
	factory WriterFactory
	writers map[uint32]EventWriter
}

func newReplayer(log zerolog.Logger, factory WriterFactory) *replayer {
	return &replayer{
		log:     log,
		factory: factory,
		writers: make(map[uint32]EventWriter),
	}
}

func (r *replayer) apply(update wire.Update, stream *wire.Stream) error {
	switch u := update.(type) {
	case wire.CreateDevice:
		if old, ok := r.writers[u.Id]; ok {
			old.Close()
		}

		writer, err := r.factory(u)
		if err != nil {
			return fmt.Errorf("create device %d: %w", u.Id, err)
		}
		r.writers[u.Id] = writer

		r.log.Info().Uint32("id", u.Id).Str("name", u.Name).Msg("Created device")
	case wire.DestroyDevice:
		if writer, ok := r.writers[u.Id]; ok {
			writer.Close()
			delete(r.writers, u.Id)

			r.log.Info().Uint32("id", u.Id).Msg("Destroyed device")
		}
	case wire.Event:
		// Unknown ids are tolerated; the device may have raced its
		// destruction.
		if writer, ok := r.writers[u.Id]; ok {
			if err := writer.Write(u.Event); err != nil {
				return fmt.Errorf("write to device %d: %w", u.Id, err)
			}
		}
	case wire.Ping:
		if err := stream.Encode(wire.WriteTimeout, wire.Pong{}.Encode); err != nil {
			return fmt.Errorf("write pong: %w", err)
		}
	}

	return nil
}

func (r *replayer) close() {
	for _, writer := range r.writers {
		writer.Close()
	}
}

// tlsConfig trusts exactly the pinned server certificate when one is
// configured, the system roots otherwise.
func tlsConfig(cfg *config.Client) (*tls.Config, error) {
	conf := &tls.Config{
		ServerName: cfg.Hostname,
		MinVersion: tls.VersionTLS12,
	}

	if cfg.Certificate != "" {
		pem, err := os.ReadFile(cfg.Certificate)
		if err != nil {
			return nil, fmt.Errorf("read certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificate found in %s", cfg.Certificate)
		}
		conf.RootCAs = pool
	}

	return conf, nil
}
