package network

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// errNotH2 is returned by the h2 dialer when the server settled on another protocol.
var errNotH2 = errors.New("server did not negotiate h2")

// chromeTransport sends https requests with a Chrome 120 ClientHello. Hosts negotiating h2
// share one pooled HTTP/2 transport; the rest are remembered and served by a pooled
// HTTP/1.1 transport dialing the same way. Plain http goes straight to the HTTP/1.1 pool.
type chromeTransport struct {
	dialer *net.Dialer
	roots  *x509.CertPool

	h2 *http2.Transport
	h1 *http.Transport

	// h1Hosts holds the addresses known to refuse h2.
	h1Hosts sync.Map
}

func newChromeTransport(h1 *http.Transport) *chromeTransport {
	t := &chromeTransport{
		dialer: &net.Dialer{Timeout: dialTimeout, KeepAlive: 60 * time.Second},
	}

	t.h2 = &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			conn, err := t.dial(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if conn.ConnectionState().NegotiatedProtocol != http2.NextProtoTLS {
				conn.Close()
				t.h1Hosts.Store(addr, true)
				return nil, errNotH2
			}
			return conn, nil
		},
		IdleConnTimeout: h1.IdleConnTimeout,
	}

	h1.ForceAttemptHTTP2 = false
	h1.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	h1.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return t.dial(ctx, network, addr)
	}
	t.h1 = h1

	return t
}

func (t *chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	if _, ok := t.h1Hosts.Load(canonicalAddr(req)); ok {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if errors.Is(err, errNotH2) {
		return t.h1.RoundTrip(req)
	}
	return resp, err
}

// CloseIdleConnections releases pooled connections of both protocols.
func (t *chromeTransport) CloseIdleConnections() {
	t.h2.CloseIdleConnections()
	t.h1.CloseIdleConnections()
}

func (t *chromeTransport) dial(ctx context.Context, network, addr string) (*utls.UConn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	raw, err := t.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	conn := utls.UClient(raw, &utls.Config{
		ServerName: host,
		RootCAs:    t.roots,
		MinVersion: tls.VersionTLS12,
	}, utls.HelloChrome_120)

	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return conn, nil
}

func canonicalAddr(req *http.Request) string {
	port := req.URL.Port()
	if port == "" {
		port = "443"
	}
	return net.JoinHostPort(req.URL.Hostname(), port)
}
