// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package payload

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

// EventType is the `e` discriminant of an event record.
type EventType string

// EventTypeSelfDescribing is the only event type Event can carry, its data
// travels in ue_pr.
const EventTypeSelfDescribing EventType = "ue"

// Platform is the `p` discriminant of an event record.
type Platform string

// Platform codes of the tracker protocol.
const (
	PlatformWeb     Platform = "web"
	PlatformMobile  Platform = "mob"
	PlatformDesktop Platform = "pc"
	PlatformServer  Platform = "srv"
	PlatformApp     Platform = "app"
	PlatformTV      Platform = "tv"
	PlatformConsole Platform = "cnsl"
	PlatformIoT     Platform = "iot"
)

var platformNames = map[string]Platform{
	"web":     PlatformWeb,
	"mobile":  PlatformMobile,
	"desktop": PlatformDesktop,
	"server":  PlatformServer,
	"app":     PlatformApp,
	"tv":      PlatformTV,
	"console": PlatformConsole,
	"iot":     PlatformIoT,
}

// ParsePlatform accepts either a protocol code ("pc") or its long name
// ("desktop"), case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := platformNames[s]; ok {
		return p, nil
	}
	for _, p := range platformNames {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown platform %q", s)
}

// Timestamp is a point in time with millisecond precision. It is encoded as
// a JSON string holding the epoch milliseconds, e.g. "1660000000000".
type Timestamp int64

// NewTimestamp truncates t to milliseconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the timestamp back to a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 16)
	b = append(b, '"')
	b = strconv.AppendInt(b, int64(ts), 10)
	return append(b, '"'), nil
}

// JSONString encodes a value as JSON and then embeds that document as a JSON
// string. The collector expects ue_pr and co in this form.
type JSONString struct {
	value interface{}
}

// NewJSONString returns the stringified form of v.
func NewJSONString(v interface{}) JSONString {
	return JSONString{value: v}
}

// Value returns the value being stringified.
func (s JSONString) Value() interface{} {
	return s.value
}

// MarshalJSON implements json.Marshaler.
func (s JSONString) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(s.value)
	if err != nil {
		return nil, errors.Wrap(err, "encoding stringified payload")
	}
	return json.Marshal(string(inner))
}

// Event is a fully populated self-describing event record. Field order and
// tags are the collector's wire format.
type Event struct {
	EventType      EventType   `json:"e"`
	Payload        JSONString  `json:"ue_pr"`
	Platform       Platform    `json:"p"`
	AppID          string      `json:"aid"`
	TrackerVersion string      `json:"tv"`
	Namespace      string      `json:"tna"`
	ID             *uuid.UUID  `json:"eid,omitempty"`
	CreatedAt      Timestamp   `json:"dtm"`
	SentAt         Timestamp   `json:"stm"`
	Contexts       *JSONString `json:"co,omitempty"`
}
