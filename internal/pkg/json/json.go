// Package json is the codec used for every payload written to the wire.
// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package json

import jsoniter "github.com/json-iterator/go"

var (
	// JSON keeps struct field order and honours json.Marshaler, which the
	// envelope and event types rely on.
	JSON = jsoniter.ConfigCompatibleWithStandardLibrary

	// Marshal is a shorthand for JSON.Marshal
	Marshal = JSON.Marshal

	// Unmarshal is a shorthand for JSON.Unmarshal
	Unmarshal = JSON.Unmarshal

	// NewDecoder is a shorthand for JSON.NewDecoder
	NewDecoder = JSON.NewDecoder

	// NewEncoder is a shorthand for JSON.NewEncoder
	NewEncoder = JSON.NewEncoder
)

// RawMessage is a raw encoded JSON value.
type RawMessage = jsoniter.RawMessage
