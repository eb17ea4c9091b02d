/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package wire

import (
	"bufio"
	"io"
	"net"
	"time"
)

// Session timeouts. Every handshake and update exchange is bounded; the only
// unbounded wait is the server-side idle select between events.
const (
	TLSTimeout   = 10 * time.Second
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second

	// PingInterval must stay below ReadTimeout so an idle but healthy
	// session always has traffic inside the read window.
	PingInterval = 5 * time.Second
)

const streamBufferSize = 1024

// Stream is a buffered message stream over a network connection, with
// per-message deadlines.
type Stream struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

func NewStream(conn net.Conn) *Stream {
	return &Stream{
		conn: conn,
		r:    bufio.NewReaderSize(conn, streamBufferSize),
		w:    bufio.NewWriterSize(conn, streamBufferSize),
	}
}

// Encode runs enc against the buffered writer and flushes, all within
// timeout.
func (s *Stream) Encode(timeout time.Duration, enc func(io.Writer) error) error {
	s.conn.SetWriteDeadline(time.Now().Add(timeout))
	defer s.conn.SetWriteDeadline(time.Time{})

	if err := enc(s.w); err != nil {
		return err
	}
	return s.w.Flush()
}

// Decode runs dec against the buffered reader within timeout.
func (s *Stream) Decode(timeout time.Duration, dec func(io.Reader) error) error {
	s.conn.SetReadDeadline(time.Now().Add(timeout))
	defer s.conn.SetReadDeadline(time.Time{})

	return dec(s.r)
}
