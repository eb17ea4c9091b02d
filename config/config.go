/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

// Package config loads the YAML configuration of the rkvm binaries. Key
// chords are written as lists of key names, e.g. [LeftCtrl, RightCtrl].
package config

import (
	"bytes"
	"fmt"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Unknow0/rkvm/input"
)

// Server configures the rkvm server.
type Server struct {
	// Address to listen on, host:port.
	Listen string `yaml:"listen"`
	// Paths to the TLS certificate and key.
	Certificate string `yaml:"certificate"`
	Key         string `yaml:"key"`
	// Shared password clients must prove knowledge of.
	Password string `yaml:"password"`
	// Chord that rotates through the available targets.
	SwitchKeys KeyList `yaml:"switch_keys"`
	// Whether switch chord events are also delivered downstream.
	PropagateSwitchKeys bool `yaml:"propagate_switch_keys"`
	// Chord that jumps straight back to the server's own machine.
	ServerGotoKeys KeyList `yaml:"server_goto_keys"`
	// Cap on concurrently connected clients. 0 means no limit.
	MaxClients int `yaml:"max_clients"`
	// Optional address serving Prometheus metrics over HTTP.
	MetricsListen string `yaml:"metrics_listen"`
	// Statically configured clients, in slot order.
	Clients []ServerClient `yaml:"clients"`
}

// ServerClient reserves a client slot for a peer address.
type ServerClient struct {
	Addr Addr `yaml:"addr"`
	// Optional chord that jumps straight to this client.
	GotoKeys KeyList `yaml:"goto_keys"`
}

// Client configures the rkvm client.
type Client struct {
	Hostname string `yaml:"hostname"`
	Port     uint16 `yaml:"port"`
	Password string `yaml:"password"`
	// Optional path to a PEM server certificate to trust exclusively.
	Certificate string `yaml:"certificate"`
	// Seconds between reconnect attempts. When absent, any failure is
	// final.
	ReconnectDelay *uint64 `yaml:"reconnect_delay"`
}

// LoadServer reads and validates a server configuration file.
func LoadServer(path string) (*Server, error) {
	var cfg Server
	if err := load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Listen == "" {
		return nil, fmt.Errorf("%s: listen address missing", path)
	}
	if cfg.Certificate == "" || cfg.Key == "" {
		return nil, fmt.Errorf("%s: TLS certificate or key missing", path)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%s: password missing", path)
	}
	if len(cfg.SwitchKeys) == 0 {
		return nil, fmt.Errorf("%s: switch_keys missing", path)
	}

	return &cfg, nil
}

// LoadClient reads and validates a client configuration file.
func LoadClient(path string) (*Client, error) {
	var cfg Client
	if err := load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Hostname == "" {
		return nil, fmt.Errorf("%s: hostname missing", path)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("%s: port missing", path)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%s: password missing", path)
	}

	return &cfg, nil
}

func load(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// KeyList is a chord written as a list of key names.
type KeyList []input.Key

func (l *KeyList) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}

	keys := make([]input.Key, 0, len(names))
	for _, name := range names {
		key, ok := input.KeyFromName(name)
		if !ok {
			return fmt.Errorf("line %d: unknown key %q", value.Line, name)
		}
		keys = append(keys, key)
	}

	*l = keys
	return nil
}

// Addr is an IP address field.
type Addr struct {
	netip.Addr
}

func (a *Addr) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	a.Addr = addr.Unmap()
	return nil
}
