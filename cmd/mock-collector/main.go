package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/snowplow-emitter/snowplow-emitter/internal/mockcollector"
)

func main() {
	logrus.SetLevel(logrus.DebugLevel)

	http.Handle(mockcollector.Path, mockcollector.New(prometheus.DefaultRegisterer))
	http.Handle("/metrics", promhttp.Handler())

	logrus.Infof("mock collector listening on :8000%s", mockcollector.Path)
	logrus.Fatal(http.ListenAndServe(":8000", nil))
}
