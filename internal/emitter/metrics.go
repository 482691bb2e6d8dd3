// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package emitter

import "github.com/prometheus/client_golang/prometheus"

const (
	resultSent      = "sent"
	resultFailed    = "failed"
	resultUncertain = "uncertain"
	resultRejected  = "rejected"
	// non-2xx response with the status check disabled
	resultUnchecked = "unchecked_status"
)

var (
	collectorRequestsMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snowplow_emitter",
		Subsystem: "collector",
		Name:      "requests_total",
		Help:      "Requests sent to the collector by response code",
	},
		[]string{
			"code",
			"method",
		},
	)
	collectorRequestDurationMetric = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snowplow_emitter",
		Subsystem: "collector",
		Name:      "request_duration_seconds",
		Help:      "Time until the collector response headers were received",
		Buckets:   prometheus.DefBuckets,
	},
		[]string{
			"code",
		},
	)
	collectorInFlightMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "snowplow_emitter",
		Subsystem: "collector",
		Name:      "in_flight_requests",
		Help:      "Requests to the collector currently awaiting a response",
	})
	trackedEventsMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snowplow_emitter",
		Name:      "events_total",
		Help:      "Events handed to the emitter by outcome of the batch they were sent in",
	},
		[]string{
			"result",
		},
	)
)

func init() {
	prometheus.MustRegister(collectorRequestsMetric)
	prometheus.MustRegister(collectorRequestDurationMetric)
	prometheus.MustRegister(collectorInFlightMetric)
	prometheus.MustRegister(trackedEventsMetric)
}
