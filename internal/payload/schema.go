// Package payload holds the self-describing wire model: schema identities,
// envelopes and the event records sent to a collector.
// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package payload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SnowplowVendor is the vendor of every schema built into the tracker protocol.
const SnowplowVendor = "com.snowplowanalytics.snowplow"

const (
	igluPrefix   = "iglu:"
	schemaFormat = "jsonschema"
)

// ErrInvalidSchemaURI is returned when a string is not a rendered schema URI.
var ErrInvalidSchemaURI = errors.New("invalid iglu schema URI")

// SchemaVersion is the MODEL-REVISION-ADDITION triple of a schema.
type SchemaVersion struct {
	Major uint
	Minor uint
	Patch uint
}

// NewSchemaVersion returns the version major.minor.patch.
func NewSchemaVersion(major, minor, patch uint) SchemaVersion {
	return SchemaVersion{Major: major, Minor: minor, Patch: patch}
}

// String renders the version the way iglu URIs carry it: 1-0-4.
func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d-%d-%d", v.Major, v.Minor, v.Patch)
}

// Schema identifies the shape of a self-describing payload. Two schemas are
// the same only when vendor, name and all version parts match, so plain ==
// comparison is the equality check.
type Schema struct {
	Vendor  string
	Name    string
	Version SchemaVersion
}

// NewSchema returns a schema identity. Vendor and name are not validated, the
// collector's schema registry is the one rejecting bad identities.
func NewSchema(vendor, name string, version SchemaVersion) Schema {
	return Schema{Vendor: vendor, Name: name, Version: version}
}

// NewSnowplowSchema returns a schema under the com.snowplowanalytics.snowplow
// vendor.
func NewSnowplowSchema(name string, version SchemaVersion) Schema {
	return NewSchema(SnowplowVendor, name, version)
}

// String renders iglu:<vendor>/<name>/jsonschema/<major>-<minor>-<patch>.
func (s Schema) String() string {
	return igluPrefix + s.Vendor + "/" + s.Name + "/" + schemaFormat + "/" + s.Version.String()
}

// ParseSchema is the inverse of Schema.String.
func ParseSchema(uri string) (Schema, error) {
	rest, ok := strings.CutPrefix(uri, igluPrefix)
	if !ok {
		return Schema{}, errors.Wrapf(ErrInvalidSchemaURI, "%q: missing %q prefix", uri, igluPrefix)
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 4 {
		return Schema{}, errors.Wrapf(ErrInvalidSchemaURI, "%q: expected vendor/name/format/version", uri)
	}
	if parts[2] != schemaFormat {
		return Schema{}, errors.Wrapf(ErrInvalidSchemaURI, "%q: unsupported format %q", uri, parts[2])
	}

	version, err := parseSchemaVersion(parts[3])
	if err != nil {
		return Schema{}, errors.Wrapf(ErrInvalidSchemaURI, "%q: %v", uri, err)
	}

	return NewSchema(parts[0], parts[1], version), nil
}

func parseSchemaVersion(s string) (SchemaVersion, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return SchemaVersion{}, fmt.Errorf("version %q is not major-minor-patch", s)
	}

	var nums [3]uint
	for i, p := range parts {
		if len(p) > 1 && p[0] == '0' {
			return SchemaVersion{}, fmt.Errorf("version %q: leading zero in %q", s, p)
		}
		n, err := strconv.ParseUint(p, 10, 0)
		if err != nil {
			return SchemaVersion{}, fmt.Errorf("version %q: %w", s, err)
		}
		nums[i] = uint(n)
	}
	return NewSchemaVersion(nums[0], nums[1], nums[2]), nil
}

// HasSchema is implemented by every payload that can be wrapped in an
// envelope. Schema must be a pure query, it runs once per event during
// serialization.
type HasSchema interface {
	Schema() Schema
}
