// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

type mockedEmitter struct {
	mock.Mock
}

func (m *mockedEmitter) Name() string {
	return "mock"
}

func (m *mockedEmitter) TrackEvents(ctx context.Context, events ...payload.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type linkClick struct {
	TargetURL string `json:"targetUrl"`
}

func (linkClick) Schema() payload.Schema {
	return payload.NewSnowplowSchema("link_click", payload.NewSchemaVersion(1, 0, 1))
}

var (
	fixedID   = uuid.MustParse("a1a2a3a4-b1b2-c1c2-d1d2-d3d4d5d6d7d8")
	fixedTime = time.UnixMilli(1660039872987)
)

func newTestTracker(e *mockedEmitter, opts ...Option) *Tracker {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() uuid.UUID { return fixedID }),
	}, opts...)
	return New(e, "test namespace", "test id", opts...)
}

func TestTrackSendsSingleSelfDescribingEvent(t *testing.T) {
	e := new(mockedEmitter)
	e.On("TrackEvents", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		events := args.Get(1).([]payload.Event)
		require.Len(t, events, 1)

		b, err := json.Marshal(events[0])
		require.NoError(t, err)

		expected := `{"e":"ue",` +
			`"ue_pr":"{\"schema\":\"iglu:com.snowplowanalytics.snowplow/unstruct_event/jsonschema/1-0-0\",` +
			`\"data\":{\"schema\":\"iglu:com.snowplowanalytics.snowplow/link_click/jsonschema/1-0-1\",` +
			`\"data\":{\"targetUrl\":\"http://a-target-url.com\"}}}",` +
			`"p":"srv","aid":"test id","tv":"golang-0.1.0","tna":"test namespace",` +
			`"eid":"a1a2a3a4-b1b2-c1c2-d1d2-d3d4d5d6d7d8","dtm":"1660039872987","stm":"1660039872987"}`
		assert.Equal(t, expected, string(b))
	})

	tr := newTestTracker(e, WithPlatform(payload.PlatformServer))
	id, err := tr.Track(context.Background(), linkClick{TargetURL: "http://a-target-url.com"})
	require.NoError(t, err)
	assert.Equal(t, fixedID, id)
	e.AssertExpectations(t)
}

func TestNewEventWithContexts(t *testing.T) {
	tr := newTestTracker(new(mockedEmitter))

	webPage := payload.NewRawPayload(
		payload.NewSchema("org.schema", "WebPage", payload.NewSchemaVersion(1, 0, 0)),
		[]byte(`{"keywords":["tester"]}`),
	)
	event := tr.NewEvent(linkClick{TargetURL: "http://a-target-url.com"}, webPage)

	assert.Equal(t, payload.EventTypeSelfDescribing, event.EventType)
	assert.Equal(t, payload.PlatformDesktop, event.Platform)
	assert.Equal(t, event.CreatedAt, event.SentAt)
	require.NotNil(t, event.Contexts)

	b, err := json.Marshal(event.Contexts)
	require.NoError(t, err)
	assert.Equal(t,
		`"{\"schema\":\"iglu:com.snowplowanalytics.snowplow/contexts/jsonschema/1-0-1\",`+
			`\"data\":[{\"schema\":\"iglu:org.schema/WebPage/jsonschema/1-0-0\",\"data\":{\"keywords\":[\"tester\"]}}]}"`,
		string(b),
	)
}

func TestNewEventDefaultsGenerateFreshIDs(t *testing.T) {
	e := new(mockedEmitter)
	tr := New(e, "ns", "app")

	first := tr.NewEvent(linkClick{})
	second := tr.NewEvent(linkClick{})

	require.NotNil(t, first.ID)
	require.NotNil(t, second.ID)
	assert.NotEqual(t, *first.ID, *second.ID)
	assert.Nil(t, first.Contexts)
	assert.Equal(t, TrackerVersion, first.TrackerVersion)
}

func TestTrackReturnsEmitterError(t *testing.T) {
	sendErr := errors.New("connection refused")

	e := new(mockedEmitter)
	e.On("TrackEvents", mock.Anything, mock.Anything).Return(sendErr)

	tr := newTestTracker(e)
	id, err := tr.Track(context.Background(), linkClick{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sendErr))
	assert.Equal(t, fixedID, id)
	e.AssertExpectations(t)
}
