package sender

import (
	"io"

	"github.com/pkg/errors"

	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

type selfDescribingJSON struct {
	Schema string          `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

type eventDocumentJSON struct {
	selfDescribingJSON
	Contexts []selfDescribingJSON `json:"contexts"`
}

// EventDocument is an event described as JSON rather than as a Go type:
//
//	{"schema": "iglu:...", "data": {...}, "contexts": [{"schema": "iglu:...", "data": {...}}]}
type EventDocument struct {
	Payload  payload.RawPayload
	Contexts []payload.HasSchema
}

// ReadEventDocument decodes a single event document from r.
func ReadEventDocument(r io.Reader) (*EventDocument, error) {
	var raw eventDocumentJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding event document")
	}

	p, err := raw.payload()
	if err != nil {
		return nil, errors.Wrap(err, "event")
	}

	doc := &EventDocument{Payload: p}
	for i, c := range raw.Contexts {
		entity, err := c.payload()
		if err != nil {
			return nil, errors.Wrapf(err, "context %d", i)
		}
		doc.Contexts = append(doc.Contexts, entity)
	}
	return doc, nil
}

func (s selfDescribingJSON) payload() (payload.RawPayload, error) {
	schema, err := payload.ParseSchema(s.Schema)
	if err != nil {
		return payload.RawPayload{}, err
	}
	return payload.NewRawPayload(schema, s.Data), nil
}
