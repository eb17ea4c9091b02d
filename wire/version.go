/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package wire

import (
	"fmt"
	"io"
)

// Version identifies the protocol revision. Both sides exchange theirs first
// and anything other than exact equality with Current terminates the session.
type Version struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// Current is the protocol version spoken by this build.
var Current = Version{Major: 0, Minor: 5, Patch: 0}

func (v Version) Encode(w io.Writer) error {
	if err := writeU16(w, v.Major); err != nil {
		return err
	}
	if err := writeU16(w, v.Minor); err != nil {
		return err
	}
	return writeU16(w, v.Patch)
}

func DecodeVersion(r io.Reader) (Version, error) {
	var v Version
	var err error
	if v.Major, err = readU16(r); err != nil {
		return v, err
	}
	if v.Minor, err = readU16(r); err != nil {
		return v, err
	}
	if v.Patch, err = readU16(r); err != nil {
		return v, err
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
