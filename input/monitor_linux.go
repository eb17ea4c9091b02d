/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const inputDir = "/dev/input"

// Synthetic devices created by rkvm itself carry this prefix so the monitor
// does not capture them back when server and client run on one machine.
const virtualNamePrefix = "rkvm "

// Monitor surfaces each hot-pluggable input device exactly once: the devices
// present at startup, then new ones as they appear, via inotify on
// /dev/input.
type Monitor struct {
	log     zerolog.Logger
	intrs   chan *Interceptor
	errs    chan error
	inotify int
}

// NewMonitor starts watching for devices. Cancelling the context passed to
// Read ends only that call; the watcher runs until Close.
func NewMonitor(log zerolog.Logger) (*Monitor, error) {
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify init: %w", err)
	}

	if _, err := unix.InotifyAddWatch(fd, inputDir, unix.IN_CREATE); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("inotify watch %s: %w", inputDir, err)
	}

	m := &Monitor{
		log:     log,
		intrs:   make(chan *Interceptor),
		errs:    make(chan error, 1),
		inotify: fd,
	}

	go m.watch()

	return m, nil
}

// Read blocks until the next freshly discovered device.
func (m *Monitor) Read(ctx context.Context) (*Interceptor, error) {
	select {
	case intr := <-m.intrs:
		return intr, nil
	case err := <-m.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the watcher.
func (m *Monitor) Close() error {
	return unix.Close(m.inotify)
}

func (m *Monitor) watch() {
	paths, err := filepath.Glob(filepath.Join(inputDir, "event*"))
	if err != nil {
		m.errs <- fmt.Errorf("scan %s: %w", inputDir, err)
		return
	}

	for _, path := range paths {
		m.open(path)
	}

	buf := make([]byte, unix.SizeofInotifyEvent+unix.NAME_MAX+1)
	for {
		n, err := unix.Read(m.inotify, buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EBADF) || errors.Is(err, os.ErrClosed) {
				return
			}
			m.errs <- fmt.Errorf("inotify read: %w", err)
			return
		}

		for off := 0; off+unix.SizeofInotifyEvent <= n; {
			raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[off]))
			nameLen := int(raw.Len)
			name := buf[off+unix.SizeofInotifyEvent : off+unix.SizeofInotifyEvent+nameLen]
			off += unix.SizeofInotifyEvent + nameLen

			node := strings.TrimRight(string(name), "\x00")
			if !strings.HasPrefix(node, "event") {
				continue
			}

			m.open(filepath.Join(inputDir, node))
		}
	}
}

// open tries to turn a device node into an interceptor. Freshly created
// nodes may not be readable until udev adjusts their permissions, so
// permission errors are retried briefly.
func (m *Monitor) open(path string) {
	var intr *Interceptor
	var err error

	for attempt := 0; attempt < 10; attempt++ {
		intr, err = NewInterceptor(path)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EACCES) && !errors.Is(err, unix.EPERM) {
			m.log.Debug().Err(err).Str("path", path).Msg("Skipping device")
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		m.log.Warn().Err(err).Str("path", path).Msg("Skipping inaccessible device")
		return
	}

	if !interceptWorthy(intr) {
		intr.Close()
		return
	}

	m.intrs <- intr
}

// interceptWorthy filters out devices with nothing to forward, and rkvm's
// own synthetic devices.
func interceptWorthy(intr *Interceptor) bool {
	if strings.HasPrefix(intr.Name(), virtualNamePrefix) {
		return false
	}
	return len(intr.Keys()) > 0 || len(intr.Rel()) > 0 || len(intr.Abs()) > 0
}
