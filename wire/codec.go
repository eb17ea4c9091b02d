/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

// Package wire implements the rkvm protocol: little-endian typed messages
// exchanged over a TLS stream. Session phases are version exchange, challenge
// response authentication, then a stream of updates punctuated by pings.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownTag reports a discriminant outside the closed tag set. The tag
// space is frozen; decoding never skips unknown data.
var ErrUnknownTag = errors.New("wire: unknown tag")

// maxCollection bounds decoded collection sizes so a broken or hostile peer
// cannot force large allocations.
const maxCollection = 1 << 16

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeI32(w io.Writer, v int32) error {
	return writeU32(w, uint32(v))
}

func readI32(r io.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	if n > maxCollection {
		return "", fmt.Errorf("wire: string of %d bytes too long", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeU8(w, 1)
	}
	return writeU8(w, 0)
}

func readBool(r io.Reader) (bool, error) {
	v, err := readU8(r)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: bool %#x", ErrUnknownTag, v)
}

func writeOptionI32(w io.Writer, v *int32) error {
	if v == nil {
		return writeU8(w, 0)
	}
	if err := writeU8(w, 1); err != nil {
		return err
	}
	return writeI32(w, *v)
}

func readOptionI32(r io.Reader) (*int32, error) {
	present, err := readBool(r)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := readI32(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readCount(r io.Reader) (int, error) {
	n, err := readU32(r)
	if err != nil {
		return 0, err
	}
	if n > maxCollection {
		return 0, fmt.Errorf("wire: collection of %d entries too large", n)
	}
	return int(n), nil
}
