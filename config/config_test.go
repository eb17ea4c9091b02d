/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/Unknow0/rkvm/input"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadServer(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:5000
certificate: /etc/rkvm/certificate.pem
key: /etc/rkvm/key.pem
password: hunter2
switch_keys: [LeftCtrl, RightCtrl]
server_goto_keys: [F1]
max_clients: 8
clients:
  - addr: 192.168.0.20
    goto_keys: [F2]
  - addr: 192.168.0.21
`)

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != "0.0.0.0:5000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.PropagateSwitchKeys {
		t.Error("PropagateSwitchKeys must default to false")
	}
	if len(cfg.SwitchKeys) != 2 || cfg.SwitchKeys[0] != input.KeyLeftCtrl || cfg.SwitchKeys[1] != input.KeyRightCtrl {
		t.Errorf("SwitchKeys = %v", cfg.SwitchKeys)
	}
	if len(cfg.ServerGotoKeys) != 1 || cfg.ServerGotoKeys[0] != input.KeyF1 {
		t.Errorf("ServerGotoKeys = %v", cfg.ServerGotoKeys)
	}
	if cfg.MaxClients != 8 {
		t.Errorf("MaxClients = %d", cfg.MaxClients)
	}

	if len(cfg.Clients) != 2 {
		t.Fatalf("Clients = %v", cfg.Clients)
	}
	if cfg.Clients[0].Addr.Addr != netip.MustParseAddr("192.168.0.20") {
		t.Errorf("Clients[0].Addr = %v", cfg.Clients[0].Addr)
	}
	if len(cfg.Clients[0].GotoKeys) != 1 || cfg.Clients[0].GotoKeys[0] != input.KeyF2 {
		t.Errorf("Clients[0].GotoKeys = %v", cfg.Clients[0].GotoKeys)
	}
	if len(cfg.Clients[1].GotoKeys) != 0 {
		t.Errorf("Clients[1].GotoKeys = %v", cfg.Clients[1].GotoKeys)
	}
}

func TestLoadServerRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing password", `
listen: 0.0.0.0:5000
certificate: /c.pem
key: /k.pem
switch_keys: [LeftCtrl]
`},
		{"missing switch keys", `
listen: 0.0.0.0:5000
certificate: /c.pem
key: /k.pem
password: x
`},
		{"unknown key name", `
listen: 0.0.0.0:5000
certificate: /c.pem
key: /k.pem
password: x
switch_keys: [NotAKey]
`},
		{"bad address", `
listen: 0.0.0.0:5000
certificate: /c.pem
key: /k.pem
password: x
switch_keys: [LeftCtrl]
clients:
  - addr: not-an-ip
`},
		{"unknown field", `
listen: 0.0.0.0:5000
certificate: /c.pem
key: /k.pem
password: x
switch_keys: [LeftCtrl]
switchkeys: [LeftCtrl]
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadServer(writeConfig(t, c.content)); err == nil {
				t.Error("config loaded despite the defect")
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	path := writeConfig(t, `
hostname: kvm.example.com
port: 5000
password: hunter2
certificate: /etc/rkvm/certificate.pem
reconnect_delay: 5
`)

	cfg, err := LoadClient(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Hostname != "kvm.example.com" || cfg.Port != 5000 {
		t.Errorf("endpoint = %s:%d", cfg.Hostname, cfg.Port)
	}
	if cfg.ReconnectDelay == nil || *cfg.ReconnectDelay != 5 {
		t.Errorf("ReconnectDelay = %v", cfg.ReconnectDelay)
	}
}

func TestLoadClientWithoutReconnect(t *testing.T) {
	path := writeConfig(t, `
hostname: 10.0.0.1
port: 5000
password: hunter2
`)

	cfg, err := LoadClient(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReconnectDelay != nil {
		t.Errorf("ReconnectDelay = %v, want nil", cfg.ReconnectDelay)
	}
	if cfg.Certificate != "" {
		t.Errorf("Certificate = %q, want empty", cfg.Certificate)
	}
}
