package emitter

import (
	"crypto/tls"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// configureTransport clones the given transport and sets TLS and proxy
// support on the clone. Transports that are not an *http.Transport are
// returned untouched.
func configureTransport(
	rt http.RoundTripper,
	tlsConfig *tls.Config,
	proxyURL *url.URL,
) http.RoundTripper {

	if rt == nil {
		rt = http.DefaultTransport
	}

	if tlsConfig == nil && proxyURL == nil {
		return rt
	}

	t, ok := rt.(*http.Transport)
	if !ok {
		logrus.Warning(
			"emitter TLS and proxy configuration couldn't be set, ",
			"client transport is not an http.Transport.",
		)
		return rt
	}

	t = t.Clone()
	if proxyURL != nil {
		t.Proxy = http.ProxyURL(proxyURL)
	}
	if tlsConfig != nil {
		t.TLSClientConfig = tlsConfig
	}
	return t
}

// instrumentTransport wraps rt so every collector request is counted and
// timed.
func instrumentTransport(rt http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(collectorInFlightMetric,
		promhttp.InstrumentRoundTripperCounter(collectorRequestsMetric,
			promhttp.InstrumentRoundTripperDuration(collectorRequestDurationMetric, rt),
		),
	)
}
