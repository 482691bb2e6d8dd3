// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package emitter

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
	"github.com/snowplow-emitter/snowplow-emitter/internal/pkg/json"
)

var (
	// ErrInvalidCollectorURL is returned when an emitter is built for a URL
	// that is not an absolute http(s) URL.
	ErrInvalidCollectorURL = errors.New("invalid collector URL")

	// ErrSendUncertain marks failures reading the collector response. The
	// request was already sent, so the batch may or may not have been
	// received.
	ErrSendUncertain = errors.New("batch sent but collector response could not be read")
)

// StatusError is returned for non-2xx responses when the emitter was built
// with WithStatusCheck.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector responded with status %s", e.Status)
}

type config struct {
	client      *http.Client
	tlsConfig   *tls.Config
	proxyURL    *url.URL
	statusCheck bool
}

// Option to be applied to the HTTPEmitter config.
type Option func(*config)

// WithHTTPClient sets the client used to reach the collector. Its timeout
// bounds every request. The client is copied, not modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithTLSConfig sets the TLS configuration on the client transport.
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(c *config) {
		c.tlsConfig = tlsConfig
	}
}

// WithProxy routes collector requests through proxyURL.
func WithProxy(proxyURL *url.URL) Option {
	return func(c *config) {
		c.proxyURL = proxyURL
	}
}

// WithStatusCheck makes non-2xx collector responses fail the call with a
// *StatusError. Without it only transport errors are reported.
func WithStatusCheck() Option {
	return func(c *config) {
		c.statusCheck = true
	}
}

// HTTPEmitter POSTs event batches to a collector, one request per call. It
// holds no mutable state and can be used from several goroutines at once.
type HTTPEmitter struct {
	name         string
	collectorURL string
	client       *http.Client
	statusCheck  bool
}

// NewHTTPEmitter returns an emitter sending to collectorURL. Nothing is
// dialed until the first batch is tracked.
func NewHTTPEmitter(collectorURL string, opts ...Option) (*HTTPEmitter, error) {
	u, err := parseCollectorURL(collectorURL)
	if err != nil {
		return nil, err
	}

	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	client := &http.Client{}
	if c.client != nil {
		*client = *c.client
	}
	client.Transport = instrumentTransport(configureTransport(client.Transport, c.tlsConfig, c.proxyURL))

	logrus.Debugf(
		"collector emitter configured with URL %s, timeout %s, status check %t",
		u, client.Timeout, c.statusCheck,
	)

	return &HTTPEmitter{
		name:         "http",
		collectorURL: u.String(),
		client:       client,
		statusCheck:  c.statusCheck,
	}, nil
}

func parseCollectorURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCollectorURL, "%v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Wrapf(ErrInvalidCollectorURL, "%q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidCollectorURL, "%q: missing host", raw)
	}
	return u, nil
}

// Name is the HTTPEmitter name.
func (e *HTTPEmitter) Name() string {
	return e.name
}

// CollectorURL returns the destination of every batch.
func (e *HTTPEmitter) CollectorURL() string {
	return e.collectorURL
}

// TrackEvents sends events as a single batch.
func (e *HTTPEmitter) TrackEvents(ctx context.Context, events ...payload.Event) error {
	return e.send(ctx, NewEventBatch(events...))
}

// TrackEventSeq drains seq into a single batch and sends it.
func (e *HTTPEmitter) TrackEventSeq(ctx context.Context, seq iter.Seq[payload.Event]) error {
	return e.send(ctx, CollectEventBatch(seq))
}

// TrackEvent sends a batch holding only event.
func (e *HTTPEmitter) TrackEvent(ctx context.Context, event payload.Event) error {
	return e.TrackEvents(ctx, event)
}

func (e *HTTPEmitter) send(ctx context.Context, batch EventBatch) error {
	n := float64(len(batch.Data()))

	body, err := json.Marshal(batch)
	if err != nil {
		trackedEventsMetric.WithLabelValues(resultFailed).Add(n)
		return errors.Wrap(err, "encoding event batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.collectorURL, bytes.NewReader(body))
	if err != nil {
		trackedEventsMetric.WithLabelValues(resultFailed).Add(n)
		return errors.Wrap(err, "building collector request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		trackedEventsMetric.WithLabelValues(resultFailed).Add(n)
		return errors.Wrap(err, "posting event batch")
	}
	defer resp.Body.Close()

	// Collector responses carry nothing useful, only a failed read matters.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		trackedEventsMetric.WithLabelValues(resultUncertain).Add(n)
		return fmt.Errorf("%w: %w", ErrSendUncertain, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if e.statusCheck {
			trackedEventsMetric.WithLabelValues(resultRejected).Add(n)
			return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		}
		trackedEventsMetric.WithLabelValues(resultUnchecked).Add(n)
		return nil
	}

	trackedEventsMetric.WithLabelValues(resultSent).Add(n)
	return nil
}
