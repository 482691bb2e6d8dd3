// Package tracker turns application payloads into fully populated event
// records and hands them to an emitter.
// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snowplow-emitter/snowplow-emitter/internal/emitter"
	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
)

// Version of the tracker, reported in the `tv` field of every event.
const Version = "0.1.0"

// TrackerVersion is the `tv` value: tracker language and version.
const TrackerVersion = "golang-" + Version

// Tracker builds self-describing events for one namespace and application.
type Tracker struct {
	emitter   emitter.Emitter
	namespace string
	appID     string
	platform  payload.Platform
	now       func() time.Time
	newID     func() uuid.UUID
}

// Option to be applied to a Tracker.
type Option func(*Tracker)

// WithPlatform sets the platform reported by every event. Defaults to
// desktop ("pc").
func WithPlatform(p payload.Platform) Option {
	return func(t *Tracker) {
		t.platform = p
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithIDGenerator replaces the random UUID generator for event ids.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(t *Tracker) {
		t.newID = newID
	}
}

// New returns a tracker sending through e.
func New(e emitter.Emitter, namespace, appID string, opts ...Option) *Tracker {
	t := &Tracker{
		emitter:   e,
		namespace: namespace,
		appID:     appID,
		platform:  payload.PlatformDesktop,
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(t)
	}

	logrus.Debugf(
		"tracker configured with namespace %q, app id %q, platform %s, emitter %s",
		t.namespace, t.appID, t.platform, e.Name(),
	)
	return t
}

// NewEvent builds the record for a self-describing event carrying p, with
// contexts attached as context entities. Creation and send timestamps are
// both set to now.
func (t *Tracker) NewEvent(p payload.HasSchema, contexts ...payload.HasSchema) payload.Event {
	id := t.newID()
	now := payload.NewTimestamp(t.now())

	event := payload.Event{
		EventType:      payload.EventTypeSelfDescribing,
		Payload:        payload.NewJSONString(payload.SelfDescribing(p)),
		Platform:       t.platform,
		AppID:          t.appID,
		TrackerVersion: TrackerVersion,
		Namespace:      t.namespace,
		ID:             &id,
		CreatedAt:      now,
		SentAt:         now,
	}
	if len(contexts) > 0 {
		co := payload.NewJSONString(payload.Contexts(contexts...))
		event.Contexts = &co
	}
	return event
}

// Track sends a self-describing event and returns its id. The event is sent
// on its own, in a single request.
func (t *Tracker) Track(ctx context.Context, p payload.HasSchema, contexts ...payload.HasSchema) (uuid.UUID, error) {
	event := t.NewEvent(p, contexts...)

	log := logrus.WithFields(logrus.Fields{
		"eid":    event.ID.String(),
		"schema": p.Schema().String(),
	})
	if err := t.emitter.TrackEvents(ctx, event); err != nil {
		log.WithError(err).Debug("tracking event failed")
		return *event.ID, errors.Wrapf(err, "tracking event %s", event.ID)
	}

	log.Debug("event tracked")
	return *event.ID, nil
}
