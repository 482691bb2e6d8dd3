// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package payload

import (
	"bytes"
	stdjson "encoding/json"

	"github.com/pkg/errors"

	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

var (
	// UnstructEventSchema tags the outer envelope of a self-describing event.
	UnstructEventSchema = NewSnowplowSchema("unstruct_event", NewSchemaVersion(1, 0, 0))
	// ContextsSchema tags the array of context entities attached to an event.
	ContextsSchema = NewSnowplowSchema("contexts", NewSchemaVersion(1, 0, 1))
)

// Envelope pairs a value with the schema identity describing it. It encodes as
// {"schema": "<iglu URI>", "data": <value>} with schema always first.
//
// The schema is captured when the envelope is built, later changes to the
// wrapped value do not change it.
type Envelope[T any] struct {
	schema Schema
	data   T
}

// Wrap asks data for its schema and wraps it.
func Wrap[T HasSchema](data T) Envelope[T] {
	return Envelope[T]{schema: data.Schema(), data: data}
}

// WrapWith wraps data under the given schema.
func WrapWith[T any](schema Schema, data T) Envelope[T] {
	return Envelope[T]{schema: schema, data: data}
}

// Schema returns the identity captured at wrap time, so envelopes can be
// nested inside other envelopes.
func (e Envelope[T]) Schema() Schema {
	return e.schema
}

// Data returns the wrapped value.
func (e Envelope[T]) Data() T {
	return e.data
}

type envelopeJSON[T any] struct {
	Schema string `json:"schema"`
	Data   T      `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON[T]{
		Schema: e.schema.String(),
		Data:   e.data,
	})
}

// SelfDescribing builds the unstruct_event document carried by a
// self-describing event: the payload's own envelope nested inside an
// unstruct_event envelope.
func SelfDescribing[T HasSchema](p T) Envelope[Envelope[T]] {
	return WrapWith(UnstructEventSchema, Wrap(p))
}

// Contexts wraps every entity in its own envelope and collects them, in
// order, under the contexts schema.
func Contexts(entities ...HasSchema) Envelope[[]Envelope[HasSchema]] {
	wrapped := make([]Envelope[HasSchema], 0, len(entities))
	for _, e := range entities {
		wrapped = append(wrapped, Wrap(e))
	}
	return WrapWith(ContextsSchema, wrapped)
}

// RawPayload is a payload whose data is an already encoded JSON document, for
// events that are described by configuration rather than by a Go type.
type RawPayload struct {
	schema Schema
	data   json.RawMessage
}

// NewRawPayload returns a payload tagged with schema. An empty document is
// encoded as an empty object.
func NewRawPayload(schema Schema, data []byte) RawPayload {
	return RawPayload{schema: schema, data: data}
}

// Schema implements HasSchema.
func (p RawPayload) Schema() Schema {
	return p.schema
}

// MarshalJSON implements json.Marshaler. The document is compacted, the
// codec writes marshaler output as is.
func (p RawPayload) MarshalJSON() ([]byte, error) {
	if len(p.data) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	if err := stdjson.Compact(&buf, p.data); err != nil {
		return nil, errors.Wrapf(err, "invalid %s document", p.schema)
	}
	return buf.Bytes(), nil
}
