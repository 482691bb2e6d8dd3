// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package emitter

import (
	"iter"
	"slices"

	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
)

// PayloadDataSchema tags every batch sent to a collector. Collectors validate
// batches against it, it must never come from user input.
var PayloadDataSchema = payload.NewSnowplowSchema("payload_data", payload.NewSchemaVersion(1, 0, 4))

// EventBatch is the outermost document POSTed to a collector: an ordered array
// of event records wrapped in the payload_data envelope.
type EventBatch = payload.Envelope[[]payload.Event]

// NewEventBatch copies events, in order, into a batch.
func NewEventBatch(events ...payload.Event) EventBatch {
	return CollectEventBatch(slices.Values(events))
}

// CollectEventBatch drains seq into a batch, keeping its order. An empty
// sequence gives a batch whose data is an empty array.
func CollectEventBatch(seq iter.Seq[payload.Event]) EventBatch {
	events := make([]payload.Event, 0)
	for e := range seq {
		events = append(events, e)
	}
	return payload.WrapWith(PayloadDataSchema, events)
}
