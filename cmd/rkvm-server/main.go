/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

//go:build linux

// Command rkvm-server captures the machine's input devices and routes their
// events to the local machine or to connected rkvm clients, switched by
// hotkey chords.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/VictoriaMetrics/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/net/netutil"

	"github.com/Unknow0/rkvm/config"
	"github.com/Unknow0/rkvm/input"
	"github.com/Unknow0/rkvm/internal/logging"
	"github.com/Unknow0/rkvm/server"
)

var opt struct {
	LogLevel string
	LogFile  string
	Help     bool
}

func init() {
	pflag.StringVar(&opt.LogLevel, "log-level", "info", "Minimum log level")
	pflag.StringVar(&opt.LogFile, "log-file", "", "Append logs to this file instead of stdout")
	pflag.BoolVarP(&opt.Help, "help", "h", false, "Show this help text")
}

func main() {
	pflag.Parse()

	if pflag.NArg() != 1 || opt.Help {
		fmt.Printf("usage: %s [options] config_path\n\noptions:\n%s", os.Args[0], pflag.CommandLine.FlagUsages())
		if opt.Help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	log, err := logging.Configure(opt.LogLevel, opt.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadServer(pflag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("Error loading config")
		os.Exit(1)
	}

	cert, err := tls.LoadX509KeyPair(cfg.Certificate, cfg.Key)
	if err != nil {
		log.Error().Err(err).Msg("Error loading TLS certificate")
		os.Exit(1)
	}
	acceptor := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Error().Err(err).Msg("Error listening")
		os.Exit(1)
	}
	if cfg.MaxClients > 0 {
		listener = netutil.LimitListener(listener, cfg.MaxClients)
	}

	monitor, err := input.NewMonitor(log.With().Str("component", "monitor").Logger())
	if err != nil {
		log.Error().Err(err).Msg("Error watching input devices")
		os.Exit(1)
	}
	defer monitor.Close()

	if cfg.MetricsListen != "" {
		go serveMetrics(log, cfg.MetricsListen)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = server.Run(ctx, log, listener, acceptor, monitorAdapter{monitor}, cfg)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Exiting on signal")
		return
	}

	log.Error().Err(err).Msg("Error")
	os.Exit(1)
}

// monitorAdapter narrows *input.Monitor to the core's Monitor interface.
type monitorAdapter struct {
	monitor *input.Monitor
}

func (a monitorAdapter) Read(ctx context.Context) (server.Interceptor, error) {
	intr, err := a.monitor.Read(ctx)
	if err != nil {
		return nil, err
	}
	return intr, nil
}

func serveMetrics(log zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn().Err(err).Msg("Metrics server failed")
	}
}
