// Package sender ...
// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package sender

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snowplow-emitter/snowplow-emitter/internal/emitter"
	"github.com/snowplow-emitter/snowplow-emitter/internal/payload"
	"github.com/snowplow-emitter/snowplow-emitter/internal/tracker"
)

// Config is the config struct for the sender.
type Config struct {
	CollectorURL         string        `mapstructure:"collector_url"`
	AppID                string        `mapstructure:"app_id"`
	Namespace            string        `mapstructure:"namespace"`
	Platform             string        `mapstructure:"platform"`
	Emitters             []string      `mapstructure:"emitters"`
	Timeout              time.Duration `mapstructure:"timeout"`
	CaFile               string        `mapstructure:"ca_file"`
	InsecureSkipVerify   bool          `mapstructure:"insecure_skip_verify" default:"false"`
	ProxyURL             string        `mapstructure:"proxy_url"`
	RequireSuccessStatus bool          `mapstructure:"require_success_status" default:"false"`
	Verbose              bool          `mapstructure:"verbose"`
	EventFile            string        `mapstructure:"event_file"`
}

func validateConfig(cfg *Config) error {
	requiredMsg := "%s is required and can't be empty"
	if cfg.CollectorURL == "" {
		return fmt.Errorf(requiredMsg, "collector_url")
	}
	if len(cfg.Emitters) == 0 {
		return fmt.Errorf(requiredMsg, "emitters")
	}

	return nil
}

// NewTLSConfig returns the TLS configuration for the collector connection.
func NewTLSConfig(CAFile string, InsecureSkipVerify bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: InsecureSkipVerify}

	if len(CAFile) > 0 {
		caCertPool := x509.NewCertPool()
		caCert, err := os.ReadFile(CAFile)
		if err != nil {
			return nil, fmt.Errorf("unable to use specified CA cert %s: %s", CAFile, err)
		}
		caCertPool.AppendCertsFromPEM(caCert)
		tlsConfig.RootCAs = caCertPool
	}
	return tlsConfig, nil
}

// NewEmitters builds the emitters listed in the config. Unknown names are
// skipped.
func NewEmitters(cfg *Config) ([]emitter.Emitter, error) {
	var emitters []emitter.Emitter
	for _, e := range cfg.Emitters {
		switch e {
		case "stdout":
			emitters = append(emitters, emitter.NewStdoutEmitter())
		case "http":
			opts, err := httpEmitterOptions(cfg)
			if err != nil {
				return nil, err
			}
			em, err := emitter.NewHTTPEmitter(cfg.CollectorURL, opts...)
			if err != nil {
				return nil, errors.Wrap(err, "could not create collector emitter")
			}
			emitters = append(emitters, em)
		default:
			logrus.Debugf("unknown emitter: %s", e)
			continue
		}
	}
	return emitters, nil
}

func httpEmitterOptions(cfg *Config) ([]emitter.Option, error) {
	opts := []emitter.Option{
		emitter.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}

	if cfg.CaFile != "" || cfg.InsecureSkipVerify {
		tlsConfig, err := NewTLSConfig(cfg.CaFile, cfg.InsecureSkipVerify)
		if err != nil {
			return nil, err
		}
		opts = append(opts, emitter.WithTLSConfig(tlsConfig))
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid proxy_url %q", cfg.ProxyURL)
		}
		opts = append(opts, emitter.WithProxy(proxyURL))
	}

	if cfg.RequireSuccessStatus {
		opts = append(opts, emitter.WithStatusCheck())
	}
	return opts, nil
}

// fanOut sends every batch to each of its emitters in turn.
type fanOut []emitter.Emitter

func (f fanOut) Name() string {
	return "fan-out"
}

func (f fanOut) TrackEvents(ctx context.Context, events ...payload.Event) error {
	var results error
	for _, e := range f {
		if err := e.TrackEvents(ctx, events...); err != nil {
			err = errors.Wrapf(err, "emitter %s", e.Name())
			if results == nil {
				results = err
			} else {
				results = fmt.Errorf("%v: %w", err, results)
			}
		}
	}
	return results
}

// RunWithEmitters tracks the event document read from in through the given
// emitters and returns the event id.
func RunWithEmitters(ctx context.Context, cfg *Config, emitters []emitter.Emitter, in io.Reader) (uuid.UUID, error) {
	if len(emitters) == 0 {
		return uuid.Nil, errors.New("you need to configure at least one valid emitter")
	}

	platform, err := payload.ParsePlatform(cfg.Platform)
	if err != nil {
		return uuid.Nil, err
	}

	doc, err := ReadEventDocument(in)
	if err != nil {
		return uuid.Nil, err
	}

	t := tracker.New(fanOut(emitters), cfg.Namespace, cfg.AppID, tracker.WithPlatform(platform))
	return t.Track(ctx, doc.Payload, doc.Contexts...)
}

// Run validates the config, builds its emitters and tracks the event
// document read from in.
func Run(ctx context.Context, cfg *Config, in io.Reader) (uuid.UUID, error) {
	logrus.Infof("Starting snowplow emitter, tracker version %s", tracker.TrackerVersion)
	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugf("Config: %#v", cfg)

	if err := validateConfig(cfg); err != nil {
		return uuid.Nil, errors.Wrap(err, "while validating configuration options")
	}

	emitters, err := NewEmitters(cfg)
	if err != nil {
		return uuid.Nil, err
	}

	return RunWithEmitters(ctx, cfg, emitters, in)
}
