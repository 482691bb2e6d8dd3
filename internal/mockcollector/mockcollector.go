// Package mockcollector is a stand-in collector that accepts event batches,
// checks their envelope and counts what it received.
// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package mockcollector

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/snowplow-emitter/snowplow-emitter/internal/emitter"
	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

// Path is where trackers POST batches.
const Path = "/com.snowplowanalytics.snowplow/tp2"

type batchJSON struct {
	Schema string            `json:"schema"`
	Data   []json.RawMessage `json:"data"`
}

// Collector counts received batches and events.
type Collector struct {
	batches *prometheus.CounterVec
	events  prometheus.Counter
}

// New returns a collector registering its counters on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mock_collector",
			Name:      "batches_total",
			Help:      "Batches received by validation outcome",
		},
			[]string{
				"result",
			},
		),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mock_collector",
			Name:      "events_total",
			Help:      "Events received in valid batches",
		}),
	}
	reg.MustRegister(c.batches, c.events)
	return c
}

// ServeHTTP accepts a POSTed batch. Batches that are not JSON or do not carry
// the payload_data schema are answered with 400.
func (c *Collector) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var batch batchJSON
	if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
		logrus.WithError(err).Warn("rejected batch: invalid JSON")
		c.batches.WithLabelValues("invalid").Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if batch.Schema != emitter.PayloadDataSchema.String() {
		logrus.Warnf("rejected batch: unexpected schema %q", batch.Schema)
		c.batches.WithLabelValues("invalid").Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	logrus.Debugf("received batch with %d events", len(batch.Data))
	c.batches.WithLabelValues("accepted").Inc()
	c.events.Add(float64(len(batch.Data)))
	w.WriteHeader(http.StatusOK)
}
