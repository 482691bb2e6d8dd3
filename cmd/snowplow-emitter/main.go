// Copyright 2019 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/snowplow-emitter/snowplow-emitter/internal/cmd/sender"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("while loading configuration")
	}

	var in io.Reader = os.Stdin
	if cfg.EventFile != "" {
		f, err := os.Open(cfg.EventFile)
		if err != nil {
			logrus.WithError(err).Fatal("while opening event file")
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	id, err := sender.Run(ctx, cfg, in)
	if err != nil {
		logrus.WithError(err).Fatal("error occurred while tracking event")
	}
	logrus.WithField("eid", id.String()).Info("event tracked")
}
