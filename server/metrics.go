/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2026 Unknow0. All Rights Reserved.
 */

package server

import "github.com/VictoriaMetrics/metrics"

var (
	metricEventsLocal  = metrics.NewCounter(`rkvm_events_routed_total{target="local"}`)
	metricEventsRemote = metrics.NewCounter(`rkvm_events_routed_total{target="remote"}`)
	metricEventsDropped = metrics.NewCounter(`rkvm_events_dropped_total`)

	metricSwitches          = metrics.NewCounter(`rkvm_switches_total`)
	metricClientsAccepted   = metrics.NewCounter(`rkvm_clients_accepted_total`)
	metricDevicesRegistered = metrics.NewCounter(`rkvm_devices_registered_total`)
)
