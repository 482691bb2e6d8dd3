package emitter

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTransportTLSConfig(t *testing.T) {
	tlsConfig := &tls.Config{InsecureSkipVerify: true}
	rt := configureTransport(nil, tlsConfig, nil)
	tr, ok := rt.(*http.Transport)
	assert.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	assert.NotSame(t, http.DefaultTransport, rt)
}

func TestSetTransportProxy(t *testing.T) {
	proxyStr := "http://myproxy:444"
	proxyURL, err := url.Parse(proxyStr)
	require.NoError(t, err)
	rt := configureTransport(nil, nil, proxyURL)
	tr, ok := rt.(*http.Transport)
	assert.True(t, ok)
	actualProxyURL, err := tr.Proxy(&http.Request{})
	require.NoError(t, err)
	assert.Equal(t, proxyURL, actualProxyURL)
}

func TestTransportWithoutOverridesIsShared(t *testing.T) {
	assert.Same(t, http.DefaultTransport, configureTransport(nil, nil, nil))
}

func TestCustomTransportIsNotCloned(t *testing.T) {
	rt := new(mockedRoundTripper)
	got := configureTransport(rt, &tls.Config{}, nil)
	assert.Same(t, rt, got)
}
