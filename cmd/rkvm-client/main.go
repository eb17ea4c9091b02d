/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

//go:build linux

// Command rkvm-client connects to an rkvm server and replays the forwarded
// input events on synthetic local devices.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Unknow0/rkvm/client"
	"github.com/Unknow0/rkvm/config"
	"github.com/Unknow0/rkvm/input"
	"github.com/Unknow0/rkvm/internal/logging"
	"github.com/Unknow0/rkvm/wire"
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

	cfg, err := config.LoadClient(pflag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("Error loading config")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		err := client.Run(ctx, log, cfg, buildWriter)
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Exiting on signal")
			return
		}

		log.Error().Err(err).Msg("Error")
		if cfg.ReconnectDelay == nil {
			os.Exit(1)
		}

		delay := time.Duration(*cfg.ReconnectDelay) * time.Second
		log.Info().Dur("delay", delay).Msg("Reconnecting")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			log.Info().Msg("Exiting on signal")
			return
		}
	}
}

// buildWriter mirrors a remote device's capability set onto a fresh uinput
// device.
func buildWriter(u wire.CreateDevice) (client.EventWriter, error) {
	tool := false
	for axis := range u.Abs {
		if axis >= input.AbsMtSlot {
			tool = true
			break
		}
	}

	writer, err := input.NewWriterBuilder().
		Name(u.Name).
		Vendor(u.Vendor).
		Product(u.Product).
		Version(u.Version).
		Rel(u.Rel).
		Abs(u.Abs).
		Keys(u.Keys).
		ToolType(tool).
		Delay(u.Delay).
		Period(u.Period).
		Build()
	if err != nil {
		return nil, err
	}
	return writer, nil
}
