// Package emitter sends batches of tracker events to a Snowplow collector.
// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package emitter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

// Emitter is an interface representing the ability to emit event batches.
type Emitter interface {
	Name() string
	TrackEvents(ctx context.Context, events ...payload.Event) error
}

// StdoutEmitter prints event batches instead of sending them.
type StdoutEmitter struct {
	name string
	out  io.Writer
}

// NewStdoutEmitter returns a NewStdoutEmitter.
func NewStdoutEmitter() *StdoutEmitter {
	return &StdoutEmitter{
		name: "stdout",
		out:  os.Stdout,
	}
}

// Name is the StdoutEmitter name.
func (se *StdoutEmitter) Name() string {
	return se.name
}

// TrackEvents prints the batch that would be sent to the collector.
func (se *StdoutEmitter) TrackEvents(_ context.Context, events ...payload.Event) error {
	b, err := json.Marshal(NewEventBatch(events...))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(se.out, string(b))
	return err
}
